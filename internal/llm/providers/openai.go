package providers

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/llms/openai"

	"github.com/shravan2453/ProjectForge/internal/llm"
)

// OpenAIProvider implements llm.Provider for OpenAI models
type OpenAIProvider struct {
	client *openai.LLM
	config llm.ProviderConfig
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(cfg llm.ProviderConfig) (*OpenAIProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, llm.NewAuthError("openai", nil)
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
	}
	if cfg.DefaultModel != "" {
		opts = append(opts, openai.WithModel(cfg.DefaultModel))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("openai", err)
	}

	return &OpenAIProvider{client: client, config: cfg}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Models returns information about available models
func (p *OpenAIProvider) Models(ctx context.Context) ([]llm.ModelInfo, error) {
	return []llm.ModelInfo{
		{
			Name:          "gpt-4o",
			ContextWindow: 128000,
			MaxOutput:     16384,
			Features:      []string{"chat", "json_mode"},
		},
		{
			Name:          "gpt-4o-mini",
			ContextWindow: 128000,
			MaxOutput:     16384,
			Features:      []string{"chat", "json_mode"},
		},
		{
			Name:          "gpt-3.5-turbo",
			ContextWindow: 16385,
			MaxOutput:     4096,
			Features:      []string{"chat"},
		},
	}, nil
}

// Complete sends a completion request
func (p *OpenAIProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	messages := toLangchainMessages(req.Messages)

	resp, err := p.client.GenerateContent(ctx, messages, buildCallOptions(req)...)
	if err != nil {
		return nil, llm.TranslateError("openai", err)
	}

	model := req.Model
	if model == "" {
		model = p.config.DefaultModel
	}
	return fromLangchainResponse(resp, model), nil
}
