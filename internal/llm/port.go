package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Shape describes the expected shape of a completion output field.
type Shape string

const (
	ShapeString Shape = "string"
	ShapeInt    Shape = "int"
	ShapeBool   Shape = "bool"
	ShapeList   Shape = "list"
	ShapeMap    Shape = "dict"
)

// FieldSpec names one output field the completion port must produce.
type FieldSpec struct {
	Name        string
	Shape       Shape
	Description string
}

// Completer is the completion-port capability stages depend on: named
// structured inputs in, named structured outputs out, populated by a
// language model. Implementations are injected, never process-wide
// singletons, so tests can substitute a deterministic stub.
type Completer interface {
	Complete(ctx context.Context, inputs map[string]any, outputs []FieldSpec) (Outputs, error)
}

// Port adapts a Provider into a Completer. It renders the named inputs into
// a deterministic prompt, requests a single JSON object with the named
// output fields, and decodes the response through the shared lenient
// decoder.
type Port struct {
	provider    Provider
	model       string
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// PortOption is a functional option for configuring a Port.
type PortOption func(*Port)

// WithModel overrides the provider's default model.
func WithModel(model string) PortOption {
	return func(p *Port) { p.model = model }
}

// WithTemperature sets the sampling temperature for port calls.
func WithTemperature(t float64) PortOption {
	return func(p *Port) { p.temperature = t }
}

// WithMaxTokens caps the response length for port calls.
func WithMaxTokens(n int) PortOption {
	return func(p *Port) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// WithLogger configures the port to use the specified structured logger.
func WithLogger(logger *slog.Logger) PortOption {
	return func(p *Port) { p.logger = logger }
}

// NewPort creates a completion port backed by the given provider.
func NewPort(provider Provider, opts ...PortOption) *Port {
	p := &Port{
		provider:    provider,
		temperature: 0.2,
		maxTokens:   2048,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

const portSystemPrompt = "You are a structured planning assistant. " +
	"Answer with a single JSON object containing exactly the requested fields and nothing else."

// Complete implements Completer. Transport failures surface as
// COMPLETION_FAILED; a response with no decodable JSON object surfaces as
// COMPLETION_PARSE_FAILED, which callers treat as a parsing failure, not a
// protocol error.
func (p *Port) Complete(ctx context.Context, inputs map[string]any, outputs []FieldSpec) (Outputs, error) {
	req := CompletionRequest{
		Model:       p.model,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
		Messages: []Message{
			NewSystemMessage(portSystemPrompt),
			NewUserMessage(renderPrompt(inputs, outputs)),
		},
	}

	resp, err := p.provider.Complete(ctx, req)
	if err != nil {
		return nil, TranslateError(p.provider.Name(), err)
	}

	p.logger.DebugContext(ctx, "completion round-trip",
		"provider", p.provider.Name(),
		"fields", len(outputs),
		"response_len", len(resp.Content),
	)

	obj, err := LenientJSON(resp.Content)
	if err != nil {
		return nil, err
	}

	return Outputs(obj), nil
}

// renderPrompt renders named inputs and the output contract into a
// deterministic prompt. Input keys are sorted so identical inputs always
// produce the identical prompt.
func renderPrompt(inputs map[string]any, outputs []FieldSpec) string {
	var b strings.Builder

	b.WriteString("Inputs:\n")
	keys := make([]string, 0, len(inputs))
	for k := range inputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, renderValue(inputs[k]))
	}

	b.WriteString("\nRespond with a JSON object containing these fields:\n")
	for _, f := range outputs {
		fmt.Fprintf(&b, "- %q (%s): %s\n", f.Name, f.Shape, f.Description)
	}

	return b.String()
}

// renderValue stringifies an input value. Lists are joined so the model
// sees them as readable text rather than Go syntax.
func renderValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		if len(val) == 0 {
			return "(none)"
		}
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}
