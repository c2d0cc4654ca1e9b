// Package home is the main menu.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/javelinlab/javelin/internal/catalog"
	"github.com/javelinlab/javelin/internal/router"
	"github.com/javelinlab/javelin/internal/screen"
	"github.com/javelinlab/javelin/internal/screens/categories"
	"github.com/javelinlab/javelin/internal/screens/configure"
	"github.com/javelinlab/javelin/internal/ui/components"
	"github.com/javelinlab/javelin/internal/ui/theme"
	"github.com/javelinlab/javelin/internal/workflow"
)

// HomeScreen is the application's entry menu.
type HomeScreen struct {
	menu  components.Menu
	cat   *catalog.Catalog
	model string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen. model names the active LLM for the
// status line.
func New(engine *workflow.Engine, cat *catalog.Catalog, model string) *HomeScreen {
	items := []components.MenuItem{
		{Label: "START SESSION", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: configure.New(engine)}
			}
		}},
		{Label: "BROWSE CATALOG", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: categories.New(cat)}
			}
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:  components.NewMenu(items),
		cat:   cat,
		model: model,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cats := h.cat.ListCategories()

	var b strings.Builder
	b.WriteString(theme.Title.Width(width - 8).Render("JAVELIN"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width - 8).Render("Java code review training"))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("%d defect categories   model: %s",
		len(cats.CompileTime)+len(cats.Style), h.model)
	b.WriteString(theme.Hint.Width(width - 8).Align(lipgloss.Center).Render(stats))
	b.WriteString("\n\n")

	b.WriteString(h.menu.View())

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(2, 4).
		Render(b.String())
}
