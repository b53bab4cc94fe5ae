package stage

import (
	"context"
	"fmt"

	"github.com/shravan2453/ProjectForge/internal/llm"
	"github.com/shravan2453/ProjectForge/internal/state"
	"github.com/shravan2453/ProjectForge/internal/types"
)

// ReportAssembler assembles the final project report from the completed
// state. It is the last line of defense: a missing precondition or a failed
// sub-call produces a degraded report whose every field names the error,
// and nothing escapes past its boundary.
type ReportAssembler struct {
	port llm.Completer
	opts options
}

// NewReportAssembler creates a report assembly stage.
func NewReportAssembler(port llm.Completer, opts ...Option) *ReportAssembler {
	return &ReportAssembler{port: port, opts: applyOptions(opts)}
}

// Run assembles the report through five completion calls: executive
// summary, team roles, learning synthesis, risk analysis, and goal
// alignment. Given a deterministic port and identical state, the result is
// identical.
func (a *ReportAssembler) Run(ctx context.Context, s *state.WorkflowState) state.Report {
	if s.ProjectType == "" || len(s.Milestones) == 0 {
		err := types.NewError(types.VALIDATION_FAILED, "insufficient project data for report generation")
		return a.degraded(ctx, err)
	}

	complexity := orFallback(s.ComplexityLevel, "medium")
	goal := orFallback(s.ProjectGoal, "Complete project successfully")
	weeks := s.Timeline.TimelineWeeks

	keyMilestones := s.Milestones
	if len(keyMilestones) > 3 {
		keyMilestones = keyMilestones[:3]
	}

	// Step 1: executive summary.
	summaryOut, err := a.port.Complete(ctx,
		map[string]any{
			"project_type":     s.ProjectType,
			"project_goal":     goal,
			"complexity_level": complexity,
			"timeline_weeks":   weeks,
			"team_size":        s.TeamSize,
			"key_milestones":   toJSON(keyMilestones),
		},
		[]llm.FieldSpec{
			{Name: "executive_summary", Shape: llm.ShapeString,
				Description: "Concise two-to-three paragraph project overview."},
			{Name: "project_scope", Shape: llm.ShapeString,
				Description: "What the project includes and excludes."},
		},
	)
	if err != nil {
		return a.degraded(ctx, err)
	}

	// Step 2: team roles.
	teamOut, err := a.port.Complete(ctx,
		map[string]any{
			"has_team":         s.HasTeam,
			"team_size":        s.TeamSize,
			"team_members":     toJSON(s.TeamMembers),
			"milestones":       toJSON(s.Milestones),
			"complexity_level": complexity,
		},
		[]llm.FieldSpec{
			{Name: "role_assignments", Shape: llm.ShapeString,
				Description: "Detailed breakdown of who does what."},
			{Name: "collaboration_plan", Shape: llm.ShapeString,
				Description: "How team members will work together."},
		},
	)
	if err != nil {
		return a.degraded(ctx, err)
	}

	// Step 3: learning synthesis.
	learningOut, err := a.port.Complete(ctx,
		map[string]any{
			"skill_gaps":            orFallback(s.SkillGaps, "No specific gaps identified"),
			"learning_path":         toJSON(s.LearningPath),
			"recommended_resources": toJSON(s.RecommendedResources),
			"deliverables":          toJSON(s.Deliverables),
		},
		[]llm.FieldSpec{
			{Name: "integrated_roadmap", Shape: llm.ShapeString,
				Description: "Complete learning journey from start to finish."},
			{Name: "resource_prioritization", Shape: llm.ShapeMap,
				Description: "Object mapping resource names to when they should be used."},
		},
	)
	if err != nil {
		return a.degraded(ctx, err)
	}

	// Step 4: risks and success criteria.
	riskOut, err := a.port.Complete(ctx,
		map[string]any{
			"complexity_level": complexity,
			"timeline_weeks":   weeks,
			"weekly_hours":     s.Timeline.WeeklyCommitment,
			"has_team":         s.HasTeam,
		},
		[]llm.FieldSpec{
			{Name: "risk_factors", Shape: llm.ShapeString,
				Description: "Potential challenges and mitigation strategies."},
			{Name: "success_criteria", Shape: llm.ShapeString,
				Description: "Clear metrics for project completion."},
			{Name: "contingency_plans", Shape: llm.ShapeString,
				Description: "What to do if things go wrong."},
		},
	)
	if err != nil {
		return a.degraded(ctx, err)
	}

	// Step 5: goal alignment.
	goalOut, err := a.port.Complete(ctx,
		map[string]any{
			"learning_goal":   orFallback(s.EndGoal, "Complete project successfully"),
			"project_type":    s.ProjectType,
			"deliverables":    toJSON(s.Deliverables),
			"completion_prep": toJSON(s.CompletionPrep),
			"portfolio_items": toJSON(s.PortfolioItems),
		},
		[]llm.FieldSpec{
			{Name: "goal_value", Shape: llm.ShapeString,
				Description: "How the project advances the user's goals."},
			{Name: "success_alignment", Shape: llm.ShapeString,
				Description: "How the project meets the user's success criteria."},
		},
	)
	if err != nil {
		return a.degraded(ctx, err)
	}

	return state.Report{
		ExecutiveSummary: summaryOut.String("executive_summary", ""),
		ProjectOverview: map[string]string{
			"type":       s.ProjectType,
			"complexity": complexity,
			"duration":   fmt.Sprintf("%d weeks", weeks),
			"team_size":  fmt.Sprintf("%d", s.TeamSize),
			"scope":      summaryOut.String("project_scope", ""),
		},
		TimelineSummary: timelineSummary(s.Milestones),
		TeamResponsibilities: []string{
			teamOut.String("role_assignments", ""),
			teamOut.String("collaboration_plan", ""),
		},
		LearningRoadmap:        []string{learningOut.String("integrated_roadmap", "")},
		ResourcePrioritization: stringMap(learningOut.Map("resource_prioritization")),
		ResourceCompilation:    append([]string{}, s.RecommendedResources...),
		SuccessMetrics:         []string{riskOut.String("success_criteria", "")},
		RiskAssessment: []string{
			riskOut.String("risk_factors", ""),
			riskOut.String("contingency_plans", ""),
		},
		ProjectAlignment: []string{
			goalOut.String("goal_value", ""),
			goalOut.String("success_alignment", ""),
		},
	}
}

// degraded builds a report in which every field names the error, so the
// traversal completes with an explicit lower-quality result instead of
// blocking the user.
func (a *ReportAssembler) degraded(ctx context.Context, err error) state.Report {
	a.opts.logger.ErrorContext(ctx, "report generation degraded", "error", err)

	msg := err.Error()
	return state.Report{
		ExecutiveSummary:       "Report generation encountered an error: " + msg,
		ProjectOverview:        map[string]string{"error": msg},
		TimelineSummary:        []string{"Timeline summary unavailable: " + msg},
		TeamResponsibilities:   []string{"Team analysis unavailable: " + msg},
		LearningRoadmap:        []string{"Learning roadmap unavailable: " + msg},
		ResourcePrioritization: map[string]string{"error": msg},
		ResourceCompilation:    []string{"Resource compilation unavailable: " + msg},
		SuccessMetrics:         []string{"Success criteria unavailable: " + msg},
		RiskAssessment:         []string{"Risk analysis unavailable: " + msg},
		ProjectAlignment:       []string{"Goal alignment unavailable: " + msg},
	}
}

// timelineSummary renders the top milestones as week-keyed lines.
func timelineSummary(milestones []state.Milestone) []string {
	capped := milestones
	if len(capped) > 5 {
		capped = capped[:5]
	}

	summary := make([]string, 0, len(capped))
	for i, m := range capped {
		week := m.Week
		if week == 0 {
			week = i + 1
		}
		title := orFallback(m.Title, fmt.Sprintf("Milestone %d", i+1))
		summary = append(summary, fmt.Sprintf("Week %d: %s", week, title))
	}
	return summary
}

// stringMap flattens a loosely typed object into string values.
func stringMap(raw map[string]any) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = fmt.Sprint(v)
	}
	return out
}
