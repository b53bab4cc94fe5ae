package providers

import (
	"context"

	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/shravan2453/ProjectForge/internal/llm"
)

// OllamaProvider implements llm.Provider for local Ollama models
type OllamaProvider struct {
	client *ollama.LLM
	config llm.ProviderConfig
}

// NewOllamaProvider creates a new Ollama provider. Ollama requires no
// credentials; the model name is mandatory.
func NewOllamaProvider(cfg llm.ProviderConfig) (*OllamaProvider, error) {
	model := cfg.DefaultModel
	if model == "" {
		model = "llama3"
	}

	opts := []ollama.Option{
		ollama.WithModel(model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("ollama", err)
	}

	return &OllamaProvider{client: client, config: cfg}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Models returns information about available models
func (p *OllamaProvider) Models(ctx context.Context) ([]llm.ModelInfo, error) {
	return []llm.ModelInfo{
		{
			Name:          p.config.DefaultModel,
			ContextWindow: 8192,
			MaxOutput:     4096,
			Features:      []string{"chat"},
		},
	}, nil
}

// Complete sends a completion request
func (p *OllamaProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	messages := toLangchainMessages(req.Messages)

	resp, err := p.client.GenerateContent(ctx, messages, buildCallOptions(req)...)
	if err != nil {
		return nil, llm.TranslateError("ollama", err)
	}

	model := req.Model
	if model == "" {
		model = p.config.DefaultModel
	}
	return fromLangchainResponse(resp, model), nil
}
