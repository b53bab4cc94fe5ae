package llm

import (
	"encoding/json"
	"fmt"
)

// Role represents the role of a message in a conversation
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the Role
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is a valid value
func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

// UnmarshalJSON implements json.Unmarshaler
func (r *Role) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	role := Role(str)
	if !role.IsValid() {
		return fmt.Errorf("invalid role: %s", str)
	}

	*r = role
	return nil
}

// Message represents a single message in a conversation with an LLM.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`
}

// NewSystemMessage creates a new system message
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a new user message
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates a new assistant message
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// CompletionRequest is a blocking completion round-trip request.
type CompletionRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Validate checks if the request is well-formed.
func (r CompletionRequest) Validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("request must contain at least one message")
	}
	for i, m := range r.Messages {
		if !m.Role.IsValid() {
			return fmt.Errorf("message %d has invalid role %q", i, m.Role)
		}
	}
	if r.Temperature < 0 || r.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2], got %v", r.Temperature)
	}
	return nil
}

// CompletionResponse is the provider's answer to a CompletionRequest.
type CompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content string `json:"content"`
}
