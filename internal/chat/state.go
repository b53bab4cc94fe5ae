package chat

import (
	"encoding/json"
	"time"

	"github.com/shravan2453/ProjectForge/internal/state"
	"github.com/shravan2453/ProjectForge/internal/types"
)

func now() time.Time { return time.Now().UTC() }

// Intent is the classification of a user message in the idea loop.
type Intent string

const (
	IntentAccept     Intent = "ACCEPT"
	IntentReject     Intent = "REJECT"
	IntentPreference Intent = "PREFERENCE"
	IntentOther      Intent = "OTHER"
)

// ParseIntent normalizes a model response into an Intent. Anything
// unrecognized is OTHER, never an error.
func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentAccept, IntentReject, IntentPreference, IntentOther:
		return Intent(s)
	default:
		return IntentOther
	}
}

// Idea is the fixed four-field template an accepted proposal is distilled
// into.
type Idea struct {
	Name       string `json:"name"`
	Overview   string `json:"overview"`
	Difficulty string `json:"difficulty"`
	Timeline   string `json:"timeline"`
}

// State is the conversational sub-workflow's aggregate. The message,
// rejected-idea, and preference lists are append-only: nodes concatenate,
// never replace. AcceptedIdea is write-once within a traversal.
type State struct {
	SessionID string `json:"session_id" validate:"required"`

	Messages      []state.Message `json:"messages"`
	RejectedIdeas []string        `json:"rejected_ideas,omitempty"`
	Preferences   []string        `json:"preferences,omitempty"`

	AcceptedIdea *Idea `json:"accepted_idea,omitempty"`

	// NeedsHumanReview is set when the loop cap trips before an idea is
	// accepted.
	NeedsHumanReview bool `json:"needs_human_review"`

	// lastIntent carries the router's classification to the conditional
	// edge within a single traversal. It is not part of the snapshot.
	lastIntent Intent
}

// NewState creates a conversation state for a session.
func NewState(sessionID string) (*State, error) {
	if sessionID == "" {
		return nil, types.NewError(types.VALIDATION_FAILED, "session id must not be empty")
	}
	return &State{SessionID: sessionID, Messages: []state.Message{}}, nil
}

// AppendMessage appends an entry to the conversation log.
func (s *State) AppendMessage(role state.Role, content string) {
	s.Messages = append(s.Messages, state.Message{Role: role, Content: content, Timestamp: now()})
}

// RejectIdea appends an idea to the rejected list.
func (s *State) RejectIdea(idea string) {
	s.RejectedIdeas = append(s.RejectedIdeas, idea)
}

// AddPreference appends a preference statement.
func (s *State) AddPreference(pref string) {
	s.Preferences = append(s.Preferences, pref)
}

// Accept stores the accepted idea. The slot is write-once: once set it is
// never overwritten, and later calls report false.
func (s *State) Accept(idea Idea) bool {
	if s.AcceptedIdea != nil {
		return false
	}
	s.AcceptedIdea = &idea
	return true
}

// LastAssistantMessage returns the most recent assistant-authored entry,
// or "" when none exists.
func (s *State) LastAssistantMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == state.RoleAssistant {
			return s.Messages[i].Content
		}
	}
	return ""
}

// LastUserMessage returns the most recent user-authored entry, or "" when
// none exists.
func (s *State) LastUserMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == state.RoleUser {
			return s.Messages[i].Content
		}
	}
	return ""
}

// Snapshot serializes the state to its plain-data form.
func (s *State) Snapshot() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, types.WrapError(types.STATE_INVALID, "failed to snapshot conversation state", err)
	}
	return data, nil
}

// Restore reconstructs a conversation state from a snapshot.
func Restore(data []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, types.WrapError(types.STATE_INVALID, "failed to restore conversation state", err)
	}
	if s.SessionID == "" {
		return nil, types.NewError(types.VALIDATION_FAILED, "snapshot is missing a session id")
	}
	return &s, nil
}

// tail returns the last n entries of a list.
func tail(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}
