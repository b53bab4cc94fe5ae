package stage

import (
	"context"
	"fmt"
	"strings"

	"github.com/shravan2453/ProjectForge/internal/llm"
	"github.com/shravan2453/ProjectForge/internal/profile"
	"github.com/shravan2453/ProjectForge/internal/state"
)

// BackgroundOutput is the result of the background assessment stage.
type BackgroundOutput struct {
	HasRelevantBackground bool   `json:"has_relevant_background"`
	Assessment            string `json:"background_assessment"`
	AdviceLevel           string `json:"advice_level"`
	Reasoning             string `json:"reasoning"`
}

// BackgroundAssessor judges how the user's existing skills and completed
// projects relate to the stated goal. It is a prerequisite stage: a
// completion failure propagates and aborts the run, since nothing
// downstream can compensate for a missing assessment.
type BackgroundAssessor struct {
	port llm.Completer
	opts options
}

// NewBackgroundAssessor creates a background assessment stage.
func NewBackgroundAssessor(port llm.Completer, opts ...Option) *BackgroundAssessor {
	return &BackgroundAssessor{port: port, opts: applyOptions(opts)}
}

// Run assesses the user's background with a single completion call.
func (a *BackgroundAssessor) Run(ctx context.Context, s *state.WorkflowState) (BackgroundOutput, error) {
	pc := profile.Context(s.Profile)

	userSkills := noTechnicalSkills
	if domains, ok := pc["skill_domains"].([]string); ok && len(domains) > 0 {
		userSkills = strings.Join(domains, ", ")
	}

	userType := "student"
	if t, ok := pc["user_type"].(string); ok && t != "" {
		userType = t
	}

	userInput := "Project goal: " + orFallback(s.ProjectGoal, notSpecified)
	if len(s.Interests) > 0 {
		userInput += "; Interests: " + strings.Join(s.Interests, ", ")
	}

	out, err := a.port.Complete(ctx,
		map[string]any{
			"user_input":    userInput,
			"user_skills":   userSkills,
			"past_projects": describePastProjects(s.CompletedTasks),
			"user_type":     userType,
		},
		[]llm.FieldSpec{
			{Name: "has_relevant_background", Shape: llm.ShapeBool,
				Description: "Whether the user has relevant background for this project. Answer with exactly true or false."},
			{Name: "background_assessment", Shape: llm.ShapeString,
				Description: "Detailed assessment of how the user's background relates to the project."},
			{Name: "advice_level", Shape: llm.ShapeString,
				Description: "Personalized advice based on the user's background, needs, and goals."},
		},
	)
	if err != nil {
		return BackgroundOutput{}, err
	}

	a.opts.logger.DebugContext(ctx, "background assessed",
		"user_type", userType,
		"has_background", out.Bool("has_relevant_background", false))

	return BackgroundOutput{
		HasRelevantBackground: out.Bool("has_relevant_background", false),
		Assessment:            out.String("background_assessment", ""),
		AdviceLevel:           out.String("advice_level", ""),
		Reasoning:             fmt.Sprintf("Background assessment based on: %s with skills in %s", userType, userSkills),
	}, nil
}

// describePastProjects summarizes the bounded task history for the prompt,
// substituting an explicit default when the history is empty.
func describePastProjects(tasks []state.PastTask) string {
	if len(tasks) == 0 {
		return noPastProjects
	}

	descriptions := make([]string, 0, len(tasks))
	for _, task := range tasks {
		projectType := orFallback(task.ProjectType, "Unknown project")
		status := orFallback(task.Status, "Unknown status")
		descriptions = append(descriptions, fmt.Sprintf("%s (%s)", projectType, status))
	}

	return fmt.Sprintf("Completed %d projects: %s", len(descriptions), strings.Join(descriptions, ", "))
}
