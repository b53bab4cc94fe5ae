// Package config loads the application configuration from a YAML file with
// environment variable interpolation for secrets.
package config

import (
	"github.com/go-playground/validator/v10"

	"github.com/shravan2453/ProjectForge/internal/llm"
	"github.com/shravan2453/ProjectForge/internal/types"
)

// Config is the full application configuration.
type Config struct {
	Provider   ProviderConfig   `mapstructure:"provider" validate:"required"`
	Workflow   WorkflowConfig   `mapstructure:"workflow"`
	Checkpoint CheckpointConfig `mapstructure:"checkpoint"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ProviderConfig selects and configures the LLM provider.
type ProviderConfig struct {
	Type        string  `mapstructure:"type" validate:"required,oneof=openai anthropic google ollama mock"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `mapstructure:"max_tokens" validate:"gte=0"`
}

// WorkflowConfig bounds the graph traversals.
type WorkflowConfig struct {
	MaxSteps int `mapstructure:"max_steps" validate:"gte=0"`
	MaxTurns int `mapstructure:"max_turns" validate:"gte=0"`
}

// CheckpointConfig selects the checkpoint store.
type CheckpointConfig struct {
	Backend string `mapstructure:"backend" validate:"omitempty,oneof=memory sqlite"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			Type:        "openai",
			APIKey:      "${OPENAI_API_KEY}",
			Temperature: 0.2,
			MaxTokens:   2048,
		},
		Workflow: WorkflowConfig{
			MaxSteps: 50,
			MaxTurns: 50,
		},
		Checkpoint: CheckpointConfig{
			Backend: "memory",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks the configuration's structural invariants.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return types.WrapError(types.CONFIG_VALIDATION_FAILED, "configuration validation failed", err)
	}
	return nil
}

// LLMConfig converts the provider section to the llm package's config.
func (c *Config) LLMConfig() llm.ProviderConfig {
	return llm.ProviderConfig{
		Type:         llm.ProviderType(c.Provider.Type),
		APIKey:       c.Provider.APIKey,
		DefaultModel: c.Provider.Model,
		BaseURL:      c.Provider.BaseURL,
	}
}
