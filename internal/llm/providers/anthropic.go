package providers

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/shravan2453/ProjectForge/internal/llm"
)

// AnthropicProvider implements llm.Provider for Anthropic's Claude models
type AnthropicProvider struct {
	client *anthropic.LLM
	config llm.ProviderConfig
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(cfg llm.ProviderConfig) (*AnthropicProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, llm.NewAuthError("anthropic", nil)
	}

	opts := []anthropic.Option{
		anthropic.WithToken(apiKey),
	}
	if cfg.DefaultModel != "" {
		opts = append(opts, anthropic.WithModel(cfg.DefaultModel))
	}

	client, err := anthropic.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("anthropic", err)
	}

	return &AnthropicProvider{client: client, config: cfg}, nil
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// Models returns information about available models
func (p *AnthropicProvider) Models(ctx context.Context) ([]llm.ModelInfo, error) {
	return []llm.ModelInfo{
		{
			Name:          "claude-3-5-sonnet-20241022",
			ContextWindow: 200000,
			MaxOutput:     8192,
			Features:      []string{"chat", "json_mode"},
		},
		{
			Name:          "claude-3-haiku-20240307",
			ContextWindow: 200000,
			MaxOutput:     4096,
			Features:      []string{"chat", "json_mode"},
		},
	}, nil
}

// Complete sends a completion request
func (p *AnthropicProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	messages := toLangchainMessages(req.Messages)

	resp, err := p.client.GenerateContent(ctx, messages, buildCallOptions(req)...)
	if err != nil {
		return nil, llm.TranslateError("anthropic", err)
	}

	model := req.Model
	if model == "" {
		model = p.config.DefaultModel
	}
	return fromLangchainResponse(resp, model), nil
}
