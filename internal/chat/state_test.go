package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shravan2453/ProjectForge/internal/state"
	"github.com/shravan2453/ProjectForge/internal/types"
)

func TestParseIntent(t *testing.T) {
	assert.Equal(t, IntentAccept, ParseIntent("ACCEPT"))
	assert.Equal(t, IntentReject, ParseIntent("REJECT"))
	assert.Equal(t, IntentPreference, ParseIntent("PREFERENCE"))
	assert.Equal(t, IntentOther, ParseIntent("OTHER"))
	assert.Equal(t, IntentOther, ParseIntent("accepted!"))
	assert.Equal(t, IntentOther, ParseIntent(""))
}

func TestNewState_RequiresSessionID(t *testing.T) {
	_, err := NewState("")
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.VALIDATION_FAILED))
}

func TestState_AppendOnlyLists(t *testing.T) {
	st, err := NewState("session-1")
	require.NoError(t, err)

	st.RejectIdea("a")
	st.RejectIdea("b")
	st.AddPreference("p1")

	assert.Equal(t, []string{"a", "b"}, st.RejectedIdeas)
	assert.Equal(t, []string{"p1"}, st.Preferences)
}

func TestState_AcceptWriteOnce(t *testing.T) {
	st, err := NewState("session-1")
	require.NoError(t, err)

	assert.True(t, st.Accept(Idea{Name: "First"}))
	assert.False(t, st.Accept(Idea{Name: "Second"}))
	assert.Equal(t, "First", st.AcceptedIdea.Name)
}

func TestState_SnapshotRoundTrip(t *testing.T) {
	st, err := NewState("session-1")
	require.NoError(t, err)
	st.AppendMessage(state.RoleUser, "hello")
	st.AppendMessage(state.RoleAssistant, "an idea")
	st.RejectIdea("an idea")
	st.AddPreference("python")
	st.Accept(Idea{Name: "Tracker", Overview: "o", Difficulty: "easy", Timeline: "2 weeks"})

	data, err := st.Snapshot()
	require.NoError(t, err)

	restored, err := Restore(data)
	require.NoError(t, err)
	assert.Equal(t, st.SessionID, restored.SessionID)
	assert.Equal(t, st.RejectedIdeas, restored.RejectedIdeas)
	assert.Equal(t, st.Preferences, restored.Preferences)
	assert.Equal(t, st.AcceptedIdea, restored.AcceptedIdea)
	require.Len(t, restored.Messages, 2)
	assert.Equal(t, st.Messages[0].Content, restored.Messages[0].Content)
}

func TestRestore_MissingSessionID(t *testing.T) {
	_, err := Restore([]byte(`{"messages": []}`))
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.VALIDATION_FAILED))
}

func TestTail(t *testing.T) {
	items := []string{"a", "b", "c"}
	assert.Equal(t, items, tail(items, 5))
	assert.Equal(t, []string{"b", "c"}, tail(items, 2))
	assert.Empty(t, tail(nil, 3))
}
