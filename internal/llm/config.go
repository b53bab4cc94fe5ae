package llm

import (
	"fmt"

	"github.com/shravan2453/ProjectForge/internal/types"
)

// ProviderType represents the type of LLM provider.
type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderGoogle    ProviderType = "google"
	ProviderOllama    ProviderType = "ollama"
	ProviderMock      ProviderType = "mock"
)

// ProviderConfig configures a single LLM provider instance.
type ProviderConfig struct {
	Type ProviderType `mapstructure:"type" yaml:"type"`

	// APIKey is the literal credential. When empty, providers fall back to
	// their conventional environment variable.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	DefaultModel string `mapstructure:"default_model" yaml:"default_model"`

	// BaseURL overrides the provider endpoint (used by ollama and
	// OpenAI-compatible gateways).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// Validate performs validation on the provider configuration.
func (c ProviderConfig) Validate() error {
	switch c.Type {
	case ProviderOpenAI, ProviderAnthropic, ProviderGoogle, ProviderOllama, ProviderMock:
		return nil
	case "":
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "provider type cannot be empty")
	default:
		return types.NewError(
			types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("unknown provider type %q", c.Type),
		)
	}
}
