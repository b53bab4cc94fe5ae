package stage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shravan2453/ProjectForge/internal/llm"
	"github.com/shravan2453/ProjectForge/internal/state"
)

// maxFallbackWeeks caps the milestone-derived fallback schedule.
const maxFallbackWeeks = 8

// ScheduleOutput is the result of the timeline scheduling stage. It is
// always usable: a failed or malformed model response is replaced by a
// milestone-derived fallback, never an error.
type ScheduleOutput struct {
	WeeklySchedule     map[string]state.WeekPlan `json:"weekly_schedule"`
	MilestoneSummary   []string                  `json:"milestone_summary,omitempty"`
	SchedulingWarnings []string                  `json:"scheduling_warnings,omitempty"`
	PacingNotes        []string                  `json:"pacing_notes,omitempty"`
}

// TimelineScheduler turns the milestone list into a week-by-week schedule.
// Scheduling is a terminal-side stage: it degrades instead of failing, so
// the traversal always completes with a usable schedule.
type TimelineScheduler struct {
	port llm.Completer
	opts options
}

// NewTimelineScheduler creates a timeline scheduling stage.
func NewTimelineScheduler(port llm.Completer, opts ...Option) *TimelineScheduler {
	return &TimelineScheduler{port: port, opts: applyOptions(opts)}
}

// Run schedules the project. It never returns an error: transport and
// parse failures both degrade to the fallback schedule with a warning.
func (t *TimelineScheduler) Run(ctx context.Context, s *state.WorkflowState) ScheduleOutput {
	timelineWeeks := s.Timeline.TimelineWeeks
	if timelineWeeks == 0 {
		timelineWeeks = maxFallbackWeeks
	}

	out, err := t.port.Complete(ctx,
		map[string]any{
			"milestones":       toJSON(s.Milestones),
			"timeline_weeks":   timelineWeeks,
			"team_size":        strconv.Itoa(s.TeamSize),
			"has_team":         s.HasTeam,
			"complexity_level": orFallback(s.ComplexityLevel, "medium"),
		},
		[]llm.FieldSpec{
			{Name: "weekly_schedule", Shape: llm.ShapeMap,
				Description: `Week-keyed schedule, e.g. {"week1": {"tasks": ["task1"], "hours": 8}}. Valid JSON only.`},
			{Name: "milestone_timeline", Shape: llm.ShapeList,
				Description: "Human-readable milestone breakdown, one line per phase."},
			{Name: "scheduling_warnings", Shape: llm.ShapeList,
				Description: "Warnings about conflicts or tight deadlines."},
			{Name: "pacing_recommendations", Shape: llm.ShapeList,
				Description: "Advice on project pacing and time management."},
		},
	)
	if err != nil {
		t.opts.logger.WarnContext(ctx, "timeline scheduling degraded",
			"error", err)
		return ScheduleOutput{
			WeeklySchedule:     fallbackSchedule(s.Milestones),
			MilestoneSummary:   []string{"Schedule derived from milestones"},
			SchedulingWarnings: []string{"Timeline generation failed: " + err.Error()},
		}
	}

	schedule := decodeSchedule(out.Map("weekly_schedule"))
	warnings := out.StringList("scheduling_warnings")
	if len(schedule) == 0 {
		schedule = fallbackSchedule(s.Milestones)
		warnings = append(warnings, "Weekly schedule was malformed; derived from milestones instead")
	}

	return ScheduleOutput{
		WeeklySchedule:     schedule,
		MilestoneSummary:   out.StringList("milestone_timeline"),
		SchedulingWarnings: warnings,
		PacingNotes:        out.StringList("pacing_recommendations"),
	}
}

// decodeSchedule converts a loosely typed week map into typed week plans,
// dropping weeks with no tasks.
func decodeSchedule(raw map[string]any) map[string]state.WeekPlan {
	schedule := make(map[string]state.WeekPlan, len(raw))
	for week, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		plan, err := llm.DecodeAs[state.WeekPlan](m)
		if err != nil || len(plan.Tasks) == 0 {
			continue
		}
		schedule[week] = plan
	}
	return schedule
}

// fallbackSchedule reconstructs a minimal valid schedule from the
// milestones already in hand: one synthetic week per milestone, capped.
func fallbackSchedule(milestones []state.Milestone) map[string]state.WeekPlan {
	if len(milestones) == 0 {
		return map[string]state.WeekPlan{
			"week1": {Tasks: []string{"Project work"}, Hours: 8},
		}
	}

	capped := milestones
	if len(capped) > maxFallbackWeeks {
		capped = capped[:maxFallbackWeeks]
	}

	schedule := make(map[string]state.WeekPlan, len(capped))
	for i, m := range capped {
		hours := m.Hours
		if hours == 0 {
			hours = 8
		}
		title := orFallback(m.Title, fmt.Sprintf("Milestone %d", i+1))
		schedule[fmt.Sprintf("week%d", i+1)] = state.WeekPlan{
			Tasks: []string{title},
			Hours: hours,
		}
	}
	return schedule
}
