package providers

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/shravan2453/ProjectForge/internal/llm"
)

// GoogleProvider implements llm.Provider for Google Gemini models
type GoogleProvider struct {
	client *googleai.GoogleAI
	config llm.ProviderConfig
}

// NewGoogleProvider creates a new Google Gemini provider
func NewGoogleProvider(ctx context.Context, cfg llm.ProviderConfig) (*GoogleProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, llm.NewAuthError("google", nil)
	}

	opts := []googleai.Option{
		googleai.WithAPIKey(apiKey),
	}
	if cfg.DefaultModel != "" {
		opts = append(opts, googleai.WithDefaultModel(cfg.DefaultModel))
	}

	client, err := googleai.New(ctx, opts...)
	if err != nil {
		return nil, llm.TranslateError("google", err)
	}

	return &GoogleProvider{client: client, config: cfg}, nil
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

// Models returns information about available models
func (p *GoogleProvider) Models(ctx context.Context) ([]llm.ModelInfo, error) {
	return []llm.ModelInfo{
		{
			Name:          "gemini-2.0-flash",
			ContextWindow: 1048576,
			MaxOutput:     8192,
			Features:      []string{"chat", "json_mode"},
		},
		{
			Name:          "gemini-1.5-pro",
			ContextWindow: 2097152,
			MaxOutput:     8192,
			Features:      []string{"chat", "json_mode"},
		},
	}, nil
}

// Complete sends a completion request
func (p *GoogleProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	messages := toLangchainMessages(req.Messages)

	resp, err := p.client.GenerateContent(ctx, messages, buildCallOptions(req)...)
	if err != nil {
		return nil, llm.TranslateError("google", err)
	}

	model := req.Model
	if model == "" {
		model = p.config.DefaultModel
	}
	return fromLangchainResponse(resp, model), nil
}
