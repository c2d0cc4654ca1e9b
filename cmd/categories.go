package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/javelinlab/javelin/internal/catalog"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the defect catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("defects")

		cat := catalog.Load(catalog.NewLocator(), slog.New(slog.DiscardHandler))
		cats := cat.ListCategories()

		printTree(cat, "Compile-time & runtime defects", catalog.KindCompileTime, cats.CompileTime, verbose)
		fmt.Println()
		printTree(cat, "Style & convention defects", catalog.KindStyle, cats.Style, verbose)
		return nil
	},
}

func printTree(cat *catalog.Catalog, title string, kind catalog.Kind, categories []string, verbose bool) {
	fmt.Println(title)
	fmt.Println(strings.Repeat("─", 60))
	for _, c := range categories {
		defects := cat.CategoryDefects(kind, c)
		fmt.Printf("  %-28s %d defects\n", c, len(defects))
		if !verbose {
			continue
		}
		for _, d := range defects {
			fmt.Printf("    - %s\n", d.Name)
		}
	}
}

func init() {
	categoriesCmd.Flags().BoolP("defects", "d", false, "List individual defects under each category")
}
