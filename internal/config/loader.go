package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/shravan2453/ProjectForge/internal/types"
)

// envVarPattern matches ${VAR_NAME} references in config values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads the configuration from path. A missing file yields the
// defaults; a malformed file is an error. ${VAR} references in string
// values are replaced with environment variable values after parsing, so
// API keys never need to live in the file itself.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		interpolate(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to read config file", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to parse config file", err)
	}

	interpolate(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("provider.type", def.Provider.Type)
	v.SetDefault("provider.temperature", def.Provider.Temperature)
	v.SetDefault("provider.max_tokens", def.Provider.MaxTokens)
	v.SetDefault("workflow.max_steps", def.Workflow.MaxSteps)
	v.SetDefault("workflow.max_turns", def.Workflow.MaxTurns)
	v.SetDefault("checkpoint.backend", def.Checkpoint.Backend)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
}

// interpolate resolves ${VAR} references in the string-valued fields that
// may carry secrets or machine-specific paths.
func interpolate(cfg *Config) {
	cfg.Provider.APIKey = interpolateString(cfg.Provider.APIKey)
	cfg.Provider.BaseURL = interpolateString(cfg.Provider.BaseURL)
	cfg.Checkpoint.Path = interpolateString(cfg.Checkpoint.Path)
}

func interpolateString(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(name)
	})
}
