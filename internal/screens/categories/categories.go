// Package categories is the defect catalog browser.
package categories

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/javelinlab/javelin/internal/catalog"
	"github.com/javelinlab/javelin/internal/screen"
	"github.com/javelinlab/javelin/internal/ui/theme"
)

// Screen lists every category and its defects per tree.
type Screen struct {
	cat *catalog.Catalog
}

var _ screen.Screen = (*Screen)(nil)

// New creates the catalog browser.
func New(cat *catalog.Catalog) *Screen {
	return &Screen{cat: cat}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Defect Catalog"
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return s, nil
}

func (s *Screen) View(width, height int) string {
	cats := s.cat.ListCategories()

	var b strings.Builder
	b.WriteString(theme.Selected.Render("Compile-time & runtime defects"))
	b.WriteString("\n")
	s.renderTree(&b, catalog.KindCompileTime, cats.CompileTime)

	b.WriteString("\n")
	b.WriteString(theme.Selected.Render("Style & convention defects"))
	b.WriteString("\n")
	s.renderTree(&b, catalog.KindStyle, cats.Style)

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 4).
		Render(b.String())
}

func (s *Screen) renderTree(b *strings.Builder, kind catalog.Kind, categories []string) {
	for _, c := range categories {
		defects := s.cat.CategoryDefects(kind, c)
		fmt.Fprintf(b, "  %s %s\n",
			theme.Body.Render(c),
			theme.Hint.Render(fmt.Sprintf("(%d defects)", len(defects))))
	}
}
