package cmd

import (
	"github.com/javelinlab/javelin/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "javelin",
	Short: "Java code review trainer",
	Long:  "Javelin — terminal trainer that generates defective Java code and scores your reviews of it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides JAVELIN_DB env var)")
	rootCmd.PersistentFlags().String("log", "", "Write debug logs to this file (overrides JAVELIN_LOG env var)")

	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then JAVELIN_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
