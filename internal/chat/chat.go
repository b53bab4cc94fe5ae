// Package chat implements the conversational idea-generation loop on top
// of the workflow engine. Each turn classifies the user's latest message
// into an intent, then either continues brainstorming or finalizes the
// accepted proposal into a fixed template.
package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shravan2453/ProjectForge/internal/llm"
	"github.com/shravan2453/ProjectForge/internal/state"
	"github.com/shravan2453/ProjectForge/internal/workflow"
)

// Node names of the chat graph.
const (
	NodeRouter   = "router"
	NodeChatbot  = "chatbot"
	NodeFinalize = "finalize"
)

// constraintWindow bounds how many rejected ideas and preferences the
// chatbot prompt embeds.
const constraintWindow = 5

// defaultMaxTurns caps the conversation loop. An endless REJECT loop is a
// failure mode, not a feature; overflow forces a needs-human-review
// terminal instead of spinning.
const defaultMaxTurns = 50

// Session drives the conversational sub-workflow. One Step is one
// traversal: router, then chatbot or finalize, then the terminal marker.
type Session struct {
	port   llm.Completer
	graph  *workflow.Graph[*State]
	logger *slog.Logger

	maxTurns int
	turns    int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the session's structured logger.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxTurns overrides the conversation loop cap.
func WithMaxTurns(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxTurns = n
		}
	}
}

// NewSession builds the chat graph around the given completion port.
func NewSession(port llm.Completer, opts ...SessionOption) (*Session, error) {
	s := &Session{
		port:     port,
		logger:   slog.Default(),
		maxTurns: defaultMaxTurns,
	}
	for _, opt := range opts {
		opt(s)
	}

	graph, err := workflow.NewBuilder[*State]("chat").
		WithLogger(s.logger).
		AddNode(NodeRouter, s.routerNode).
		AddNode(NodeChatbot, s.chatbotNode).
		AddNode(NodeFinalize, s.finalizeNode).
		SetEntry(NodeRouter).
		AddConditionalEdge(NodeRouter, routeIntent, map[string]string{
			string(IntentAccept):     NodeFinalize,
			string(IntentReject):     NodeChatbot,
			string(IntentPreference): NodeChatbot,
			string(IntentOther):      NodeChatbot,
		}).
		AddEdge(NodeChatbot, workflow.End).
		AddEdge(NodeFinalize, workflow.End).
		Compile()
	if err != nil {
		return nil, err
	}

	s.graph = graph
	return s, nil
}

// Step processes one user message: the message is appended to the log and
// the state is driven through one graph traversal. Once the loop cap is
// reached without an accepted idea, the state is marked for human review
// and further steps are no-ops.
func (s *Session) Step(ctx context.Context, st *State, userMessage string) (*State, error) {
	if st.NeedsHumanReview || st.AcceptedIdea != nil {
		return st, nil
	}
	if s.turns >= s.maxTurns {
		st.NeedsHumanReview = true
		s.logger.WarnContext(ctx, "conversation cap reached without acceptance",
			"session", st.SessionID,
			"turns", s.turns)
		return st, nil
	}
	s.turns++

	st.AppendMessage(state.RoleUser, userMessage)

	result, err := s.graph.Run(ctx, st)
	if err != nil {
		return result.State, err
	}
	return result.State, nil
}

// routeIntent selects the branch from the intent the router node stored.
func routeIntent(st *State) (string, error) {
	return string(st.lastIntent), nil
}

// routerNode classifies the latest user message with one single-word model
// call and applies the intent's list side effects: a rejection records the
// previous proposal, a preference records the raw message.
func (s *Session) routerNode(ctx context.Context, st *State) (*State, error) {
	out, err := s.port.Complete(ctx,
		map[string]any{
			"user_message":   st.LastUserMessage(),
			"prior_proposal": orNone(st.LastAssistantMessage()),
		},
		[]llm.FieldSpec{
			{Name: "intent", Shape: llm.ShapeString,
				Description: "Respond with exactly one word: ACCEPT, REJECT, PREFERENCE, or OTHER. " +
					"Answer ACCEPT only when the user clearly approved the entire prior proposal; " +
					"partial approval is not ACCEPT."},
		},
	)
	if err != nil {
		return st, err
	}

	intent := ParseIntent(strings.ToUpper(out.String("intent", string(IntentOther))))
	st.lastIntent = intent

	switch intent {
	case IntentReject:
		// Record the rejected proposal; skip silently when none exists.
		if proposal := st.LastAssistantMessage(); proposal != "" {
			st.RejectIdea(proposal)
		}
	case IntentPreference:
		st.AddPreference(st.LastUserMessage())
	}

	s.logger.DebugContext(ctx, "message classified",
		"session", st.SessionID,
		"intent", string(intent))
	return st, nil
}

// chatbotNode proposes the next idea, steering away from the recent
// rejections and toward the recent preferences.
func (s *Session) chatbotNode(ctx context.Context, st *State) (*State, error) {
	out, err := s.port.Complete(ctx,
		map[string]any{
			"user_message":   st.LastUserMessage(),
			"rejected_ideas": tail(st.RejectedIdeas, constraintWindow),
			"preferences":    tail(st.Preferences, constraintWindow),
		},
		[]llm.FieldSpec{
			{Name: "reply", Shape: llm.ShapeString,
				Description: "One concrete project idea proposal. Avoid anything resembling the rejected ideas; honor the stated preferences."},
		},
	)
	if err != nil {
		return st, err
	}

	st.AppendMessage(state.RoleAssistant, out.String("reply", ""))
	return st, nil
}

// finalizeNode distills the accepted proposal into the fixed four-field
// template. An empty proposal is tolerated; the template is filled from
// empty content. The accepted-idea slot is write-once.
func (s *Session) finalizeNode(ctx context.Context, st *State) (*State, error) {
	out, err := s.port.Complete(ctx,
		map[string]any{
			"accepted_proposal": orNone(st.LastAssistantMessage()),
		},
		[]llm.FieldSpec{
			{Name: "name", Shape: llm.ShapeString, Description: "Short project name."},
			{Name: "overview", Shape: llm.ShapeString, Description: "Two-to-three sentence project overview."},
			{Name: "difficulty", Shape: llm.ShapeString, Description: "Difficulty assessment."},
			{Name: "timeline", Shape: llm.ShapeString, Description: "Rough timeline estimate."},
		},
	)
	if err != nil {
		return st, err
	}

	st.Accept(Idea{
		Name:       out.String("name", "Untitled project"),
		Overview:   out.String("overview", ""),
		Difficulty: out.String("difficulty", ""),
		Timeline:   out.String("timeline", ""),
	})

	s.logger.InfoContext(ctx, "idea accepted",
		"session", st.SessionID,
		"name", st.AcceptedIdea.Name)
	return st, nil
}

func orNone(s string) string {
	if s == "" {
		return "No proposal available"
	}
	return s
}
