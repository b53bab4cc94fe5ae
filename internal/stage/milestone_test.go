package stage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shravan2453/ProjectForge/internal/llm"
	"github.com/shravan2453/ProjectForge/internal/state"
	"github.com/shravan2453/ProjectForge/internal/types"
)

func classifiedState() *state.WorkflowState {
	s := plannedState()
	s.ProjectType = "web-app"
	s.ComplexityLevel = "medium"
	s.SkillGaps = "deployment"
	s.RecommendedResources = []string{"Flask docs"}
	return s
}

func milestoneScript() []llm.Outputs {
	return []llm.Outputs{
		{"estimated_hours": 80, "weekly_commitment": "8-10 hours", "timeline_weeks": 8},
		{"learning_milestones": []any{"Finish the Flask tutorial"}, "prerequisite_concepts": []any{"HTTP"}},
		{"milestones": []any{
			map[string]any{"title": "Setup", "description": "Scaffold the app", "week": 1, "hours": 10},
			map[string]any{"title": "Core features", "description": "CRUD flows", "week": "3", "hours": "30"},
		}, "quick_wins": []any{"Deploy hello world"}},
		{"review_checkpoints": []any{map[string]any{"week": 4, "goal": "Working prototype"}},
			"pivot_opportunities": []any{"Week 4: switch to CLI if UI stalls"}},
		{"deliverables": []any{"Demo presentation"}, "completion_prep": []any{"Write README"},
			"portfolio_items": []any{"Live demo link"}},
	}
}

func TestMilestoneGenerator_Pipeline(t *testing.T) {
	port := &scriptedPort{script: milestoneScript()}
	gen := NewMilestoneGenerator(port)

	out, err := gen.Run(context.Background(), classifiedState())
	require.NoError(t, err)
	require.Len(t, port.calls, 5)

	// The time estimate feeds the breakdown and later steps literally.
	assert.Equal(t, 80, port.calls[2].inputs["estimated_hours"])
	assert.Equal(t, 8, port.calls[2].inputs["timeline_weeks"])
	assert.Equal(t, 8, port.calls[3].inputs["timeline_weeks"])
	assert.Equal(t, 8, port.calls[4].inputs["timeline_weeks"])
	// Checkpoint planning sees the decoded milestone list.
	assert.Contains(t, port.calls[3].inputs["milestones"], "Core features")

	assert.Equal(t, state.TimelineInfo{EstimatedHours: 80, WeeklyCommitment: "8-10 hours", TimelineWeeks: 8}, out.Timeline)
	require.Len(t, out.Milestones, 2)
	assert.Equal(t, state.Milestone{Title: "Setup", Description: "Scaffold the app", Week: 1, Hours: 10}, out.Milestones[0])
	// Weakly typed fields decode too.
	assert.Equal(t, 3, out.Milestones[1].Week)
	assert.Equal(t, 30, out.Milestones[1].Hours)

	assert.Equal(t, []string{"Finish the Flask tutorial"}, out.LearningPath)
	assert.Equal(t, []string{"Deploy hello world"}, out.QuickWins)
	assert.Len(t, out.Checkpoints, 1)
	assert.Equal(t, []string{"Demo presentation"}, out.Deliverables)
	assert.Equal(t, []string{"Write README"}, out.CompletionPrep)
}

func TestMilestoneGenerator_EmptySkillsFallback(t *testing.T) {
	port := &scriptedPort{script: milestoneScript()}
	gen := NewMilestoneGenerator(port)

	s := classifiedState()
	s.TechnicalSkills = nil

	_, err := gen.Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "No technical skills specified", port.calls[0].inputs["technical_skills"])
}

func TestMilestoneGenerator_MalformedBreakdownFallback(t *testing.T) {
	script := milestoneScript()
	script[2] = llm.Outputs{"milestones": "not a list"}
	port := &scriptedPort{script: script}
	gen := NewMilestoneGenerator(port)

	out, err := gen.Run(context.Background(), classifiedState())
	require.NoError(t, err)
	require.Len(t, out.Milestones, 1)
	assert.Contains(t, out.Milestones[0].Title, "web-app")
	assert.Equal(t, 80, out.Milestones[0].Hours)
}

func TestMilestoneGenerator_CompletionErrorPropagates(t *testing.T) {
	port := &scriptedPort{err: types.NewRetryableError(types.COMPLETION_FAILED, "provider down")}
	gen := NewMilestoneGenerator(port)

	_, err := gen.Run(context.Background(), classifiedState())
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.COMPLETION_FAILED))
}
