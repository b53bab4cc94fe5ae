package chat

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shravan2453/ProjectForge/internal/llm"
	"github.com/shravan2453/ProjectForge/internal/state"
	"github.com/shravan2453/ProjectForge/internal/types"
)

// scriptedPort returns canned outputs in call order and records every
// request.
type scriptedPort struct {
	script []llm.Outputs
	err    error
	inputs []map[string]any
}

func (p *scriptedPort) Complete(ctx context.Context, inputs map[string]any, outputs []llm.FieldSpec) (llm.Outputs, error) {
	p.inputs = append(p.inputs, inputs)
	if p.err != nil {
		return nil, p.err
	}
	idx := len(p.inputs) - 1
	if idx >= len(p.script) {
		return llm.Outputs{}, nil
	}
	return p.script[idx], nil
}

func seededState(t *testing.T, proposal string) *State {
	t.Helper()
	st, err := NewState("session-1")
	require.NoError(t, err)
	if proposal != "" {
		st.AppendMessage(state.RoleAssistant, proposal)
	}
	return st
}

func TestSession_RejectRecordsProposal(t *testing.T) {
	port := &scriptedPort{script: []llm.Outputs{
		{"intent": "REJECT"},
		{"reply": "How about a recipe recommender instead?"},
	}}
	session, err := NewSession(port)
	require.NoError(t, err)

	st := seededState(t, "Build a weather dashboard")
	st, err = session.Step(context.Background(), st, "No, I don't like that one")
	require.NoError(t, err)

	require.Equal(t, []string{"Build a weather dashboard"}, st.RejectedIdeas)
	assert.Nil(t, st.AcceptedIdea)
	assert.Equal(t, "How about a recipe recommender instead?", st.LastAssistantMessage())
}

func TestSession_RejectWithoutProposalSkipsSilently(t *testing.T) {
	port := &scriptedPort{script: []llm.Outputs{
		{"intent": "REJECT"},
		{"reply": "Here's a first idea."},
	}}
	session, err := NewSession(port)
	require.NoError(t, err)

	st := seededState(t, "")
	st, err = session.Step(context.Background(), st, "no")
	require.NoError(t, err)
	assert.Empty(t, st.RejectedIdeas)
}

func TestSession_PreferenceRecordsRawMessage(t *testing.T) {
	port := &scriptedPort{script: []llm.Outputs{
		{"intent": "PREFERENCE"},
		{"reply": "Noted, something with Python then."},
	}}
	session, err := NewSession(port)
	require.NoError(t, err)

	st := seededState(t, "Build a weather dashboard")
	st, err = session.Step(context.Background(), st, "I'd prefer something in Python")
	require.NoError(t, err)

	assert.Equal(t, []string{"I'd prefer something in Python"}, st.Preferences)
	assert.Empty(t, st.RejectedIdeas)
}

func TestSession_AcceptFinalizes(t *testing.T) {
	port := &scriptedPort{script: []llm.Outputs{
		{"intent": "ACCEPT"},
		{"name": "Weather Dashboard", "overview": "A dashboard showing local forecasts.",
			"difficulty": "medium", "timeline": "6 weeks"},
	}}
	session, err := NewSession(port)
	require.NoError(t, err)

	st := seededState(t, "Build a weather dashboard")
	st, err = session.Step(context.Background(), st, "Yes, let's do that!")
	require.NoError(t, err)

	require.NotNil(t, st.AcceptedIdea)
	assert.Equal(t, "Weather Dashboard", st.AcceptedIdea.Name)
	assert.Equal(t, "medium", st.AcceptedIdea.Difficulty)
	// The proposal fed to finalize is the accepted assistant message.
	assert.Equal(t, "Build a weather dashboard", port.inputs[1]["accepted_proposal"])
}

func TestSession_AcceptWithoutProposal(t *testing.T) {
	port := &scriptedPort{script: []llm.Outputs{
		{"intent": "ACCEPT"},
		{},
	}}
	session, err := NewSession(port)
	require.NoError(t, err)

	st := seededState(t, "")
	st, err = session.Step(context.Background(), st, "accept")
	require.NoError(t, err)

	require.NotNil(t, st.AcceptedIdea)
	assert.Equal(t, "Untitled project", st.AcceptedIdea.Name)
	assert.Equal(t, "No proposal available", port.inputs[1]["accepted_proposal"])
}

func TestSession_UnknownIntentTreatedAsOther(t *testing.T) {
	port := &scriptedPort{script: []llm.Outputs{
		{"intent": "maybe??"},
		{"reply": "Could you tell me more about what you enjoy?"},
	}}
	session, err := NewSession(port)
	require.NoError(t, err)

	st := seededState(t, "Build a weather dashboard")
	st, err = session.Step(context.Background(), st, "hmm")
	require.NoError(t, err)

	assert.Nil(t, st.AcceptedIdea)
	assert.Empty(t, st.RejectedIdeas)
	assert.Empty(t, st.Preferences)
	assert.Equal(t, "Could you tell me more about what you enjoy?", st.LastAssistantMessage())
}

func TestSession_AcceptedIdeaIsWriteOnce(t *testing.T) {
	port := &scriptedPort{script: []llm.Outputs{
		{"intent": "ACCEPT"},
		{"name": "First"},
	}}
	session, err := NewSession(port)
	require.NoError(t, err)

	st := seededState(t, "proposal")
	st, err = session.Step(context.Background(), st, "yes")
	require.NoError(t, err)
	require.NotNil(t, st.AcceptedIdea)

	assert.False(t, st.Accept(Idea{Name: "Second"}))
	assert.Equal(t, "First", st.AcceptedIdea.Name)

	// Further steps are no-ops once an idea is accepted.
	st, err = session.Step(context.Background(), st, "actually, another one")
	require.NoError(t, err)
	assert.Equal(t, "First", st.AcceptedIdea.Name)
	assert.Len(t, port.inputs, 2)
}

func TestSession_CapForcesHumanReview(t *testing.T) {
	var script []llm.Outputs
	for i := 0; i < 4; i++ {
		script = append(script, llm.Outputs{"intent": "REJECT"}, llm.Outputs{"reply": fmt.Sprintf("Idea %d", i)})
	}
	port := &scriptedPort{script: script}
	session, err := NewSession(port, WithMaxTurns(2))
	require.NoError(t, err)

	st := seededState(t, "Idea 0")
	for i := 0; i < 3; i++ {
		st, err = session.Step(context.Background(), st, "no")
		require.NoError(t, err)
	}

	assert.True(t, st.NeedsHumanReview)
	assert.Nil(t, st.AcceptedIdea)
	// Two full turns ran before the cap tripped.
	assert.Len(t, port.inputs, 4)
}

func TestSession_ChatbotEmbedsLastFiveConstraints(t *testing.T) {
	port := &scriptedPort{script: []llm.Outputs{
		{"intent": "OTHER"},
		{"reply": "New idea."},
	}}
	session, err := NewSession(port)
	require.NoError(t, err)

	st := seededState(t, "proposal")
	for i := 0; i < 7; i++ {
		st.RejectIdea(fmt.Sprintf("rejected-%d", i))
		st.AddPreference(fmt.Sprintf("pref-%d", i))
	}

	_, err = session.Step(context.Background(), st, "what else?")
	require.NoError(t, err)

	rejected := port.inputs[1]["rejected_ideas"].([]string)
	prefs := port.inputs[1]["preferences"].([]string)
	assert.Equal(t, []string{"rejected-2", "rejected-3", "rejected-4", "rejected-5", "rejected-6"}, rejected)
	assert.Len(t, prefs, 5)
}

func TestSession_ClassifierFailurePropagates(t *testing.T) {
	port := &scriptedPort{err: types.NewRetryableError(types.COMPLETION_FAILED, "provider down")}
	session, err := NewSession(port)
	require.NoError(t, err)

	st := seededState(t, "proposal")
	_, err = session.Step(context.Background(), st, "no")
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.COMPLETION_FAILED))
}
