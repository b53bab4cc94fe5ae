package stage

import (
	"context"
	"strings"

	"github.com/shravan2453/ProjectForge/internal/llm"
	"github.com/shravan2453/ProjectForge/internal/profile"
	"github.com/shravan2453/ProjectForge/internal/state"
)

// RefineOutput is the result of the intent refinement stage.
type RefineOutput struct {
	ClarifiedIntent       string   `json:"clarified_intent"`
	FollowUpQuestions     []string `json:"follow_up_questions,omitempty"`
	SuggestedProjectTypes []string `json:"suggested_project_types,omitempty"`
	GeneratedIdeas        []string `json:"generated_ideas,omitempty"`
}

// IntentRefiner clarifies vague user input before classification. It turns
// statements like "I want to learn programming" into an actionable goal plus
// concrete follow-up questions and candidate project ideas.
type IntentRefiner struct {
	port llm.Completer
	opts options
}

// NewIntentRefiner creates an intent refinement stage.
func NewIntentRefiner(port llm.Completer, opts ...Option) *IntentRefiner {
	return &IntentRefiner{port: port, opts: applyOptions(opts)}
}

// Run clarifies the user's intent in two calls: clarification first, then
// idea generation seeded with the clarified intent.
func (r *IntentRefiner) Run(ctx context.Context, s *state.WorkflowState) (RefineOutput, error) {
	pc := profile.Context(s.Profile)

	constraints := notSpecified
	if cs, ok := pc["constraints"].([]string); ok && len(cs) > 0 {
		constraints = strings.Join(cs, ", ")
	}

	userInput := orFallback(s.LastUserMessage(), orFallback(s.ProjectGoal, notSpecified))

	clarifyOut, err := r.port.Complete(ctx,
		map[string]any{
			"user_input":           userInput,
			"conversation_history": conversationHistory(s.Messages, 10),
			"refinement_hints":     strings.Join(s.RefinementHints, "; "),
			"user_type":            orFallback(profileString(pc, "user_type"), notSpecified),
			"experience_level":     orFallback(profileString(pc, "experience_level"), notSpecified),
			"time_constraints":     constraints,
		},
		[]llm.FieldSpec{
			{Name: "clarified_intent", Shape: llm.ShapeString,
				Description: "The user's intent restated as one concrete, actionable project goal."},
			{Name: "follow_up_questions", Shape: llm.ShapeList,
				Description: "Specific questions to gather the missing information."},
			{Name: "suggested_project_types", Shape: llm.ShapeList,
				Description: "Potential project categories this could lead to."},
		},
	)
	if err != nil {
		return RefineOutput{}, err
	}

	clarified := clarifyOut.String("clarified_intent", userInput)

	ideaOut, err := r.port.Complete(ctx,
		map[string]any{
			"clarified_intent":        clarified,
			"suggested_project_types": clarifyOut.StringList("suggested_project_types"),
			"experience_level":        orFallback(profileString(pc, "experience_level"), notSpecified),
			"time_constraints":        constraints,
		},
		[]llm.FieldSpec{
			{Name: "generated_ideas", Shape: llm.ShapeList,
				Description: "Specific project ideas matching the clarified intent, scoped to the user's experience and time."},
		},
	)
	if err != nil {
		return RefineOutput{}, err
	}

	return RefineOutput{
		ClarifiedIntent:       clarified,
		FollowUpQuestions:     clarifyOut.StringList("follow_up_questions"),
		SuggestedProjectTypes: clarifyOut.StringList("suggested_project_types"),
		GeneratedIdeas:        ideaOut.StringList("generated_ideas"),
	}, nil
}

// conversationHistory renders the last n log entries as prompt text.
func conversationHistory(messages []state.Message, n int) string {
	if len(messages) == 0 {
		return "No conversation yet"
	}

	start := 0
	if len(messages) > n {
		start = len(messages) - n
	}

	var b strings.Builder
	for _, m := range messages[start:] {
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func profileString(pc map[string]any, key string) string {
	s, _ := pc[key].(string)
	return s
}
