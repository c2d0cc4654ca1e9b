package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/javelinlab/javelin/internal/llm"
	"github.com/javelinlab/javelin/internal/store"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM configuration and usage",
}

var llmCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report which LLM provider would be used",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := llm.ConfigFromEnv()
		if err := cfg.Validate(); err == nil {
			fmt.Printf("Provider:  %s (from JAVELIN_* env)\n", cfg.Provider)
			printModel(cfg)
			return nil
		}

		if discovered, ok := llm.DiscoverConfig(); ok {
			fmt.Printf("Provider:  %s (discovered API key)\n", discovered.Provider)
			printModel(discovered)
			return nil
		}

		fmt.Println("No LLM provider configured.")
		fmt.Println()
		fmt.Println("Set JAVELIN_LLM_PROVIDER and its API key, or export one of:")
		fmt.Println("  GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY")
		return cfg.Validate()
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show oracle call counts by purpose",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		purposes := []string{
			llm.PurposeGeneration,
			llm.PurposeRegeneration,
			llm.PurposeVerification,
			llm.PurposeReviewAnalysis,
			llm.PurposeGuidance,
			llm.PurposeSummary,
		}

		ctx := context.Background()
		fmt.Printf("%-20s  %s\n", "Purpose", "Calls")
		fmt.Println(strings.Repeat("─", 28))

		total := 0
		for _, p := range purposes {
			n, err := s.EventRepo().LLMRequestCount(ctx, p)
			if err != nil {
				return fmt.Errorf("count events: %w", err)
			}
			fmt.Printf("%-20s  %5d\n", p, n)
			total += n
		}
		fmt.Println(strings.Repeat("─", 28))
		fmt.Printf("%-20s  %5d\n", "TOTAL", total)
		return nil
	},
}

func printModel(cfg llm.Config) {
	switch cfg.Provider {
	case "anthropic":
		fmt.Printf("Model:     %s\n", cfg.Anthropic.Model)
	case "openai":
		fmt.Printf("Model:     %s\n", cfg.OpenAI.Model)
	case "gemini":
		fmt.Printf("Model:     %s\n", cfg.Gemini.Model)
	case "openrouter":
		fmt.Printf("Model:     %s\n", cfg.OpenRouter.Model)
	}
	fmt.Printf("Timeout:   %s\n", cfg.Timeout)
}

func init() {
	llmCmd.AddCommand(llmCheckCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
