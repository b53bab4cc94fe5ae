package providers

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/shravan2453/ProjectForge/internal/llm"
	"github.com/shravan2453/ProjectForge/internal/types"
)

// MockCall represents a recorded call to the mock provider
type MockCall struct {
	Request llm.CompletionRequest
}

// MockProvider implements llm.Provider for testing. It replays canned
// responses in order and records every request so tests can assert on call
// counts and prompt contents.
type MockProvider struct {
	mu            sync.RWMutex
	responses     []string
	responseIndex int
	calls         []MockCall
	err           error
}

// NewMockProvider creates a new mock provider with canned responses
func NewMockProvider(responses ...string) *MockProvider {
	return &MockProvider{
		responses: responses,
		calls:     make([]MockCall, 0),
	}
}

// FailWith makes every subsequent Complete call return err.
func (p *MockProvider) FailWith(err error) *MockProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
	return p
}

// Name returns the provider name
func (p *MockProvider) Name() string {
	return "mock"
}

// Models returns mock model information
func (p *MockProvider) Models(ctx context.Context) ([]llm.ModelInfo, error) {
	return []llm.ModelInfo{
		{
			Name:          "mock-model",
			ContextWindow: 4096,
			MaxOutput:     2048,
			Features:      []string{"chat", "json_mode"},
		},
	}, nil
}

// Complete records the call and replays the next canned response. The last
// response repeats once the list is exhausted, keeping multi-call stages
// deterministic.
func (p *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, MockCall{Request: req})

	if p.err != nil {
		return nil, llm.TranslateError("mock", p.err)
	}

	if len(p.responses) == 0 {
		return nil, types.NewError(types.COMPLETION_FAILED, "mock provider has no responses configured")
	}

	idx := p.responseIndex
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	p.responseIndex++

	return &llm.CompletionResponse{
		ID:      uuid.New().String(),
		Model:   "mock-model",
		Content: p.responses[idx],
	}, nil
}

// CallCount returns the number of Complete calls recorded
func (p *MockProvider) CallCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.calls)
}

// Calls returns a copy of all recorded calls
func (p *MockProvider) Calls() []MockCall {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]MockCall{}, p.calls...)
}

// LastPrompt returns the user-message content of the most recent call, or
// "" when no calls were made.
func (p *MockProvider) LastPrompt() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.calls) == 0 {
		return ""
	}

	msgs := p.calls[len(p.calls)-1].Request.Messages
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == llm.RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}

// Reset clears recorded calls and rewinds the response sequence.
func (p *MockProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = p.calls[:0]
	p.responseIndex = 0
}
