package stage

import (
	"context"
	"strings"

	"github.com/shravan2453/ProjectForge/internal/llm"
	"github.com/shravan2453/ProjectForge/internal/profile"
	"github.com/shravan2453/ProjectForge/internal/state"
)

// ClassifyOutput is the result of the classification stage. When
// NeedsRefinement is set the remaining fields are empty and no model call
// was made.
type ClassifyOutput struct {
	NeedsRefinement bool     `json:"needs_refinement"`
	RefinementHints []string `json:"refinement_hints,omitempty"`

	ProjectType          string   `json:"project_type,omitempty"`
	ComplexityLevel      string   `json:"complexity_level,omitempty"`
	RecommendedResources []string `json:"recommended_resources,omitempty"`
	SkillGaps            string   `json:"skill_gaps,omitempty"`
	Reasoning            string   `json:"reasoning,omitempty"`
	Completeness         float64  `json:"project_completeness"`
}

// Classifier determines the project type, complexity, and starting
// resources. Classification runs a strict three-call chain where each call
// feeds the next; it never calls the model on insufficient input.
type Classifier struct {
	port llm.Completer
	opts options
}

// NewClassifier creates a classification stage.
func NewClassifier(port llm.Completer, opts ...Option) *Classifier {
	return &Classifier{port: port, opts: applyOptions(opts)}
}

// Run classifies the project. The completeness gate is evaluated first: if
// the input cannot support classification, the stage returns a
// needs-refinement output with itemized hints and makes zero port calls.
func (c *Classifier) Run(ctx context.Context, s *state.WorkflowState) (ClassifyOutput, error) {
	if hints := completenessHints(s); len(hints) > 0 {
		c.opts.logger.DebugContext(ctx, "classification gated",
			"hints", len(hints))
		return ClassifyOutput{
			NeedsRefinement: true,
			RefinementHints: hints,
			Completeness:    completenessScore(s),
		}, nil
	}

	interests := strings.Join(s.Interests, ", ")
	skills := skillsOrFallback(s.TechnicalSkills)
	additionalInfo := orFallback(s.ClarifiedIntent, notSpecified)

	// Call 1: project type from purpose, interests, and idea.
	typeOut, err := c.port.Complete(ctx,
		map[string]any{
			"project_purpose":   orFallback(s.ProjectGoal, notSpecified),
			"topic_of_interest": orFallback(interests, notSpecified),
			"potential_idea":    orFallback(s.EndGoal, notSpecified),
		},
		[]llm.FieldSpec{
			{Name: "project_type", Shape: llm.ShapeString,
				Description: "The classified project type."},
		},
	)
	if err != nil {
		return ClassifyOutput{}, err
	}
	projectType := typeOut.String("project_type", "general")

	// Call 2: complexity from the type just determined.
	complexityOut, err := c.port.Complete(ctx,
		map[string]any{
			"technical_skills": skills,
			"project_type":     projectType,
			"additional_info":  additionalInfo,
		},
		[]llm.FieldSpec{
			{Name: "project_complexity", Shape: llm.ShapeString,
				Description: "Predicted project complexity: simple, medium, or complex."},
			{Name: "reasoning", Shape: llm.ShapeString,
				Description: "Interpretation of the user's inputs behind the complexity call."},
		},
	)
	if err != nil {
		return ClassifyOutput{}, err
	}
	complexity := complexityOut.String("project_complexity", "medium")

	// Call 3: resources from type and complexity.
	resourceOut, err := c.port.Complete(ctx,
		map[string]any{
			"project_type":       projectType,
			"project_complexity": complexity,
			"technical_skills":   skills,
			"topic_of_interest":  orFallback(interests, notSpecified),
			"additional_info":    additionalInfo,
		},
		[]llm.FieldSpec{
			{Name: "recommended_resources", Shape: llm.ShapeList,
				Description: "Suggested learning resources, tools, or references."},
			{Name: "skill_gaps", Shape: llm.ShapeString,
				Description: "Skills the user should develop for this project."},
		},
	)
	if err != nil {
		return ClassifyOutput{}, err
	}

	return ClassifyOutput{
		ProjectType:          projectType,
		ComplexityLevel:      complexity,
		RecommendedResources: resourceOut.StringList("recommended_resources"),
		SkillGaps:            resourceOut.String("skill_gaps", ""),
		Reasoning:            complexityOut.String("reasoning", ""),
		Completeness:         completenessScore(s),
	}, nil
}

// completenessHints itemizes what is missing for classification. An empty
// result means the gate passes.
func completenessHints(s *state.WorkflowState) []string {
	var hints []string

	if s.ProjectGoal == "" && len(s.Interests) == 0 {
		hints = append(hints, "Describe what you want to build or a topic you are interested in.")
	}
	if s.EndGoal == "" {
		hints = append(hints, "Describe what you want to get out of the project.")
	}

	pc := profile.Context(s.Profile)
	if t, _ := pc["user_type"].(string); t == "" {
		hints = append(hints, "Tell us whether you are a student, professional, entrepreneur, freelancer, or hobbyist.")
	}

	return hints
}

// completenessScore is the fraction of classification inputs present,
// always within [0, 1].
func completenessScore(s *state.WorkflowState) float64 {
	present := 0
	if s.ProjectGoal != "" || len(s.Interests) > 0 {
		present++
	}
	if s.EndGoal != "" {
		present++
	}
	pc := profile.Context(s.Profile)
	if t, _ := pc["user_type"].(string); t != "" {
		present++
	}
	if len(s.TechnicalSkills) > 0 {
		present++
	}
	return float64(present) / 4
}
