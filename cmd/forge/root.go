package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shravan2453/ProjectForge/internal/checkpoint"
	"github.com/shravan2453/ProjectForge/internal/config"
	"github.com/shravan2453/ProjectForge/internal/llm"
	"github.com/shravan2453/ProjectForge/internal/llm/providers"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "ProjectForge - AI-assisted project planning",
	Long: `ProjectForge turns loosely specified goals into a classified project
type, milestone breakdown, timeline, and final report through a workflow
of LLM-backed planning stages.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "forge.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(chatCmd)
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// setup loads the environment, configuration, and logger before any
// command runs.
func setup(cmd *cobra.Command, args []string) error {
	// A missing .env is fine; explicit environment still applies.
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	level := parseLevel(cfg.Logging.Level)
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger = slog.New(handler)
	slog.SetDefault(logger)

	return nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newPort builds the completion port from the loaded configuration.
func newPort(ctx context.Context) (*llm.Port, error) {
	provider, err := providers.New(ctx, cfg.LLMConfig())
	if err != nil {
		return nil, err
	}

	opts := []llm.PortOption{llm.WithLogger(logger)}
	if cfg.Provider.Model != "" {
		opts = append(opts, llm.WithModel(cfg.Provider.Model))
	}
	if cfg.Provider.Temperature > 0 {
		opts = append(opts, llm.WithTemperature(cfg.Provider.Temperature))
	}
	if cfg.Provider.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(cfg.Provider.MaxTokens))
	}

	return llm.NewPort(provider, opts...), nil
}

// newStore builds the checkpoint store from the loaded configuration.
func newStore() (checkpoint.Store, func(), error) {
	if cfg.Checkpoint.Backend == "sqlite" {
		path := cfg.Checkpoint.Path
		if path == "" {
			path = "forge-checkpoints.db"
		}
		store, err := checkpoint.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
	return checkpoint.NewMemoryStore(), func() {}, nil
}
