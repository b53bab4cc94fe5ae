package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shravan2453/ProjectForge/internal/profile"
	"github.com/shravan2453/ProjectForge/internal/types"
)

func TestNew_Defaults(t *testing.T) {
	s, err := New("nati", "session-1")
	require.NoError(t, err)

	assert.Equal(t, 1, s.TeamSize)
	assert.False(t, s.HasTeam)
	assert.Equal(t, PhaseCollecting, s.Phase)
	assert.Empty(t, s.Messages)
}

func TestNew_MissingIdentity(t *testing.T) {
	_, err := New("", "session-1")
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.VALIDATION_FAILED))

	_, err = New("nati", "")
	assert.Error(t, err)
}

func TestNew_TeamSizeZero(t *testing.T) {
	_, err := New("nati", "session-1", WithTeam(0))
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.VALIDATION_FAILED))
}

func TestNew_TeamSizeAtLeastOneAlwaysHolds(t *testing.T) {
	for _, size := range []int{1, 2, 5} {
		s, err := New("nati", "session-1", WithTeam(size))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, s.TeamSize, 1)
	}
}

func TestValidate_CompletenessOutOfRange(t *testing.T) {
	s, err := New("nati", "session-1")
	require.NoError(t, err)

	s.ProjectCompleteness = 1.5
	assert.Error(t, s.Validate())

	s.ProjectCompleteness = -0.1
	assert.Error(t, s.Validate())

	s.ProjectCompleteness = 0.8
	assert.NoError(t, s.Validate())
}

func TestAppendMessage_Ordering(t *testing.T) {
	s, err := New("nati", "session-1")
	require.NoError(t, err)

	s.AppendMessage(RoleUser, "hello")
	s.AppendMessage(RoleAssistant, "hi there")
	s.AppendMessage(RoleUser, "build me a plan")

	require.Len(t, s.Messages, 3)
	assert.Equal(t, "hello", s.Messages[0].Content)
	assert.Equal(t, "build me a plan", s.Messages[2].Content)
	assert.Equal(t, "hi there", s.LastAssistantMessage())
	assert.Equal(t, "build me a plan", s.LastUserMessage())
}

func TestLastAssistantMessage_Empty(t *testing.T) {
	s, err := New("nati", "session-1")
	require.NoError(t, err)
	assert.Equal(t, "", s.LastAssistantMessage())
}

func TestRecordTask_EvictsOldest(t *testing.T) {
	s, err := New("nati", "session-1")
	require.NoError(t, err)

	for i := 0; i < maxCompletedTasks+3; i++ {
		s.RecordTask(PastTask{
			ProjectType: fmt.Sprintf("project-%d", i),
			Status:      "completed",
		})
	}

	require.Len(t, s.CompletedTasks, maxCompletedTasks)
	// Oldest three evicted, order preserved for the remainder.
	assert.Equal(t, "project-3", s.CompletedTasks[0].ProjectType)
	assert.Equal(t, fmt.Sprintf("project-%d", maxCompletedTasks+2), s.CompletedTasks[len(s.CompletedTasks)-1].ProjectType)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	p, err := profile.New(profile.Profile{
		UserType:             profile.UserTypeStudent,
		ExperienceLevel:      profile.ExperienceBeginner,
		SkillDomains:         []string{"programming"},
		WeeklyHoursAvailable: 12,
	})
	require.NoError(t, err)

	s, err := New("nati", "session-1",
		WithProfile(p),
		WithProjectGoal("eco-tourism route recommendation engine"),
		WithInterests("web development", "AI"),
		WithTechnicalSkills("HTML", "CSS", "JavaScript"),
		WithEndGoal("suggest routes based on preferences and impact"),
		WithTeam(2, TeamMember{Name: "sam", Role: "frontend"}),
	)
	require.NoError(t, err)

	s.AppendMessage(RoleUser, "let's start")
	s.IntentRefinementNeeded = true
	s.RefinementHints = []string{"missing end goal"}
	s.Milestones = []Milestone{{Title: "Setup", Description: "scaffold repo", Week: 1, Hours: 6}}
	s.Timeline = TimelineInfo{EstimatedHours: 80, WeeklyCommitment: "8-10 hours", TimelineWeeks: 8}
	s.WeeklySchedule = map[string]WeekPlan{"week1": {Tasks: []string{"Setup"}, Hours: 8}}
	s.Report = &Report{ExecutiveSummary: "summary", ProjectOverview: map[string]string{"type": "web-app"}}
	s.RecordTask(PastTask{ProjectType: "data-analysis", Status: "completed", CompletedAt: time.Now().UTC().Truncate(time.Second)})
	s.AppendWarning("timeline was repaired")

	data, err := s.Snapshot()
	require.NoError(t, err)

	restored, err := Restore(data)
	require.NoError(t, err)
	assert.Equal(t, s, restored)
}

func TestRestore_InvalidSnapshot(t *testing.T) {
	_, err := Restore([]byte(`{"user_id": ""}`))
	require.Error(t, err)

	_, err = Restore([]byte(`not json`))
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.STATE_INVALID))
}
