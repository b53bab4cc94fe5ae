package providers

import (
	"context"
	"fmt"

	"github.com/shravan2453/ProjectForge/internal/llm"
	"github.com/shravan2453/ProjectForge/internal/types"
)

// New creates a provider from its configuration. The provider instance is
// meant to be constructed once and passed in explicitly wherever a
// completion capability is needed.
func New(ctx context.Context, cfg llm.ProviderConfig) (llm.Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case llm.ProviderOpenAI:
		return NewOpenAIProvider(cfg)
	case llm.ProviderAnthropic:
		return NewAnthropicProvider(cfg)
	case llm.ProviderGoogle:
		return NewGoogleProvider(ctx, cfg)
	case llm.ProviderOllama:
		return NewOllamaProvider(cfg)
	case llm.ProviderMock:
		return NewMockProvider(`{}`), nil
	default:
		return nil, types.NewError(
			types.PROVIDER_NOT_FOUND,
			fmt.Sprintf("no provider registered for type %q", cfg.Type),
		)
	}
}
