package providers

import (
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"

	"github.com/shravan2453/ProjectForge/internal/llm"
)

// toLangchainMessages converts port messages to langchaingo MessageContent
func toLangchainMessages(messages []llm.Message) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))

	for _, msg := range messages {
		var role llms.ChatMessageType

		switch msg.Role {
		case llm.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case llm.RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			role = llms.ChatMessageTypeHuman
		}

		result = append(result, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}

	return result
}

// fromLangchainResponse converts a langchaingo response to a port response
func fromLangchainResponse(resp *llms.ContentResponse, model string) *llm.CompletionResponse {
	out := &llm.CompletionResponse{
		ID:    uuid.New().String(),
		Model: model,
	}

	if resp != nil && len(resp.Choices) > 0 {
		out.Content = resp.Choices[0].Content
	}

	return out
}

// buildCallOptions maps request parameters to langchaingo call options
func buildCallOptions(req llm.CompletionRequest) []llms.CallOption {
	opts := []llms.CallOption{}

	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(req.Temperature))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	return opts
}
