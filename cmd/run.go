package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/javelinlab/javelin/internal/app"
	"github.com/javelinlab/javelin/internal/catalog"
	"github.com/javelinlab/javelin/internal/evaluator"
	"github.com/javelinlab/javelin/internal/generator"
	"github.com/javelinlab/javelin/internal/llm"
	"github.com/javelinlab/javelin/internal/scoring"
	"github.com/javelinlab/javelin/internal/store"
	"github.com/javelinlab/javelin/internal/workflow"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	logger, closeLog, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	var events store.EventRepo = store.NopEventRepo{}
	dbPath, err := resolveDBPath(cmd)
	if err == nil {
		if st, oerr := store.Open(dbPath); oerr == nil {
			defer st.Close()
			events = st.EventRepo()
		} else {
			fmt.Fprintln(os.Stderr, "Event log unavailable:", oerr)
		}
	} else {
		fmt.Fprintln(os.Stderr, "Event log unavailable:", err)
	}

	cfg, err := resolveLLMConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Set JAVELIN_LLM_PROVIDER and its API key, or export one of")
		fmt.Fprintln(os.Stderr, "GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY.")
		return err
	}

	provider, err := llm.NewProvider(ctx, cfg, events)
	if err != nil {
		return fmt.Errorf("initialize LLM provider: %w", err)
	}

	cat := catalog.Load(catalog.NewLocator(), logger)

	wcfg := workflow.DefaultConfig()
	wcfg.OracleTimeout = cfg.Timeout

	engine := workflow.NewEngine(wcfg, workflow.Deps{
		Catalog:   cat,
		Generator: generator.New(provider, logger),
		Evaluator: evaluator.New(provider, logger),
		Scorer:    scoring.New(provider, logger, wcfg.SufficiencyThreshold),
		Provider:  provider,
		Events:    events,
		Logger:    logger,
	})

	return app.Run(app.Deps{
		Engine:  engine,
		Catalog: cat,
		Model:   provider.ModelID(),
	})
}

// resolveLLMConfig prefers explicit JAVELIN_* configuration and falls
// back to probing the standard API key env vars.
func resolveLLMConfig() (llm.Config, error) {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err == nil {
		return cfg, nil
	}
	if discovered, ok := llm.DiscoverConfig(); ok {
		return discovered, nil
	}
	return llm.Config{}, cfg.Validate()
}

// newLogger routes debug logs to a file when requested. The terminal
// belongs to the TUI, so without a log file everything is discarded.
func newLogger(cmd *cobra.Command) (*slog.Logger, func(), error) {
	path, _ := cmd.Flags().GetString("log")
	if path == "" {
		path = os.Getenv("JAVELIN_LOG")
	}
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}
