package stage

import (
	"context"
	"fmt"

	"github.com/shravan2453/ProjectForge/internal/llm"
	"github.com/shravan2453/ProjectForge/internal/state"
)

// MilestoneOutput is the result of the milestone generation stage.
type MilestoneOutput struct {
	Milestones         []state.Milestone  `json:"milestones"`
	Timeline           state.TimelineInfo `json:"timeline"`
	LearningPath       []string           `json:"learning_path"`
	QuickWins          []string           `json:"quick_wins,omitempty"`
	Checkpoints        []map[string]any   `json:"checkpoints,omitempty"`
	PivotOpportunities []string           `json:"pivot_opportunities,omitempty"`
	Deliverables       []string           `json:"deliverables"`
	CompletionPrep     []string           `json:"completion_prep"`
	PortfolioItems     []string           `json:"portfolio_items,omitempty"`
}

// MilestoneGenerator produces the full milestone plan. The stage is a
// strict pipeline, not a fan-out: the time estimate feeds the breakdown,
// the breakdown feeds checkpoint planning, and the timeline length feeds
// deliverable integration. Each call's output is literal input to the next.
type MilestoneGenerator struct {
	port llm.Completer
	opts options
}

// NewMilestoneGenerator creates a milestone generation stage.
func NewMilestoneGenerator(port llm.Completer, opts ...Option) *MilestoneGenerator {
	return &MilestoneGenerator{port: port, opts: applyOptions(opts)}
}

// Run generates the milestone plan through five sequential completion
// calls. A completion failure propagates; malformed output is repaired or
// defaulted locally, never surfaced.
func (g *MilestoneGenerator) Run(ctx context.Context, s *state.WorkflowState) (MilestoneOutput, error) {
	skills := skillsOrFallback(s.TechnicalSkills)
	complexity := orFallback(s.ComplexityLevel, "medium")

	// Step 1: time estimate.
	timeOut, err := g.port.Complete(ctx,
		map[string]any{
			"project_type":     s.ProjectType,
			"complexity_level": complexity,
			"technical_skills": skills,
			"has_team":         s.HasTeam,
		},
		[]llm.FieldSpec{
			{Name: "estimated_hours", Shape: llm.ShapeInt,
				Description: "Total estimated hours needed for the project."},
			{Name: "weekly_commitment", Shape: llm.ShapeString,
				Description: "Recommended hours per week, e.g. '8-10 hours'."},
			{Name: "timeline_weeks", Shape: llm.ShapeInt,
				Description: "Suggested project duration in weeks."},
		},
	)
	if err != nil {
		return MilestoneOutput{}, err
	}

	timeline := state.TimelineInfo{
		EstimatedHours:   timeOut.Int("estimated_hours", 40),
		WeeklyCommitment: timeOut.String("weekly_commitment", "5-8 hours"),
		TimelineWeeks:    timeOut.Int("timeline_weeks", 8),
	}

	// Step 2: learning path before implementation.
	learnOut, err := g.port.Complete(ctx,
		map[string]any{
			"project_type":          s.ProjectType,
			"skill_gaps":            orFallback(s.SkillGaps, notSpecified),
			"recommended_resources": s.RecommendedResources,
		},
		[]llm.FieldSpec{
			{Name: "learning_milestones", Shape: llm.ShapeList,
				Description: "Ordered learning tasks (tutorials, readings, practice exercises) before implementation."},
			{Name: "prerequisite_concepts", Shape: llm.ShapeList,
				Description: "Key concepts to master before starting implementation."},
		},
	)
	if err != nil {
		return MilestoneOutput{}, err
	}

	// Step 3: milestone breakdown, needs the time estimate.
	breakdownOut, err := g.port.Complete(ctx,
		map[string]any{
			"project_type":     s.ProjectType,
			"complexity_level": complexity,
			"estimated_hours":  timeline.EstimatedHours,
			"timeline_weeks":   timeline.TimelineWeeks,
			"has_team":         s.HasTeam,
		},
		[]llm.FieldSpec{
			{Name: "milestones", Shape: llm.ShapeList,
				Description: "Milestones as objects with title, description, week, and hours."},
			{Name: "quick_wins", Shape: llm.ShapeList,
				Description: "Early achievable tasks to build momentum."},
		},
	)
	if err != nil {
		return MilestoneOutput{}, err
	}
	milestones := decodeMilestones(breakdownOut.MapList("milestones"), s.ProjectType, timeline)

	// Step 4: checkpoints, need the milestone list.
	checkpointOut, err := g.port.Complete(ctx,
		map[string]any{
			"milestones":     toJSON(milestones),
			"timeline_weeks": timeline.TimelineWeeks,
			"has_team":       s.HasTeam,
		},
		[]llm.FieldSpec{
			{Name: "review_checkpoints", Shape: llm.ShapeList,
				Description: "Scheduled review points as objects with goals and assessment criteria."},
			{Name: "pivot_opportunities", Shape: llm.ShapeList,
				Description: "Points where the project direction can change if needed."},
		},
	)
	if err != nil {
		return MilestoneOutput{}, err
	}

	// Step 5: deliverable integration, needs the timeline length.
	deliverableOut, err := g.port.Complete(ctx,
		map[string]any{
			"project_type":   s.ProjectType,
			"timeline_weeks": timeline.TimelineWeeks,
			"has_team":       s.HasTeam,
		},
		[]llm.FieldSpec{
			{Name: "deliverables", Shape: llm.ShapeList,
				Description: "Key outputs required for project completion (documentation, presentations, reviews)."},
			{Name: "completion_prep", Shape: llm.ShapeList,
				Description: "Final steps to wrap up and deliver the project."},
			{Name: "portfolio_items", Shape: llm.ShapeList,
				Description: "Deliverables suitable for portfolios and career showcasing."},
		},
	)
	if err != nil {
		return MilestoneOutput{}, err
	}

	g.opts.logger.DebugContext(ctx, "milestones generated",
		"count", len(milestones),
		"weeks", timeline.TimelineWeeks)

	return MilestoneOutput{
		Milestones:         milestones,
		Timeline:           timeline,
		LearningPath:       learnOut.StringList("learning_milestones"),
		QuickWins:          breakdownOut.StringList("quick_wins"),
		Checkpoints:        checkpointOut.MapList("review_checkpoints"),
		PivotOpportunities: checkpointOut.StringList("pivot_opportunities"),
		Deliverables:       deliverableOut.StringList("deliverables"),
		CompletionPrep:     deliverableOut.StringList("completion_prep"),
		PortfolioItems:     deliverableOut.StringList("portfolio_items"),
	}, nil
}

// decodeMilestones converts loosely typed milestone objects into the state
// shape, dropping entries with no usable title. An empty result falls back
// to a single milestone spanning the timeline so downstream stages always
// have something to schedule.
func decodeMilestones(raw []map[string]any, projectType string, timeline state.TimelineInfo) []state.Milestone {
	milestones := make([]state.Milestone, 0, len(raw))
	for i, entry := range raw {
		m, err := llm.DecodeAs[state.Milestone](entry)
		if err != nil {
			continue
		}
		if m.Title == "" {
			m.Title = fmt.Sprintf("Milestone %d", i+1)
		}
		if m.Week == 0 {
			m.Week = i + 1
		}
		milestones = append(milestones, m)
	}

	if len(milestones) == 0 {
		milestones = append(milestones, state.Milestone{
			Title:       fmt.Sprintf("Complete %s project", orFallback(projectType, "the")),
			Description: "Work through the project end to end.",
			Week:        1,
			Hours:       timeline.EstimatedHours,
		})
	}

	return milestones
}
