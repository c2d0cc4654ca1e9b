// Package configure is the session setup screen: category selection,
// difficulty, and code length.
package configure

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/javelinlab/javelin/internal/catalog"
	"github.com/javelinlab/javelin/internal/generator"
	"github.com/javelinlab/javelin/internal/router"
	"github.com/javelinlab/javelin/internal/screen"
	sessionscreen "github.com/javelinlab/javelin/internal/screens/session"
	"github.com/javelinlab/javelin/internal/ui/layout"
	"github.com/javelinlab/javelin/internal/ui/theme"
	"github.com/javelinlab/javelin/internal/workflow"
)

// row is one toggleable category line.
type row struct {
	kind     catalog.Kind
	category string
}

// Screen lets the student pick what the exercise should contain.
type Screen struct {
	engine *workflow.Engine

	rows     []row
	selected map[int]bool
	cursor   int

	difficulties []catalog.Difficulty
	diffIdx      int
	lengths      []generator.LengthTier
	lenIdx       int

	errMsg string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the setup screen with every category pre-selected.
func New(engine *workflow.Engine) *Screen {
	cats := engine.ListCategories()

	var rows []row
	for _, c := range cats.CompileTime {
		rows = append(rows, row{kind: catalog.KindCompileTime, category: c})
	}
	for _, c := range cats.Style {
		rows = append(rows, row{kind: catalog.KindStyle, category: c})
	}

	selected := make(map[int]bool, len(rows))
	for i := range rows {
		selected[i] = true
	}

	return &Screen{
		engine:       engine,
		rows:         rows,
		selected:     selected,
		difficulties: []catalog.Difficulty{catalog.DifficultyEasy, catalog.DifficultyMedium, catalog.DifficultyHard},
		diffIdx:      1,
		lengths:      []generator.LengthTier{generator.LengthShort, generator.LengthMedium, generator.LengthLong},
		lenIdx:       1,
	}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "New Session"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Space", Description: "Toggle"},
		{Key: "D", Description: "Difficulty"},
		{Key: "L", Description: "Length"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.rows)-1 {
			s.cursor++
		}
	case " ":
		s.selected[s.cursor] = !s.selected[s.cursor]
		s.errMsg = ""
	case "d":
		s.diffIdx = (s.diffIdx + 1) % len(s.difficulties)
	case "l":
		s.lenIdx = (s.lenIdx + 1) % len(s.lengths)
	case "enter":
		return s.startSession()
	}

	return s, nil
}

func (s *Screen) startSession() (screen.Screen, tea.Cmd) {
	sel := s.selection()
	if sel.Empty() {
		s.errMsg = "Select at least one defect category."
		return s, nil
	}

	state := workflow.NewState(s.lengths[s.lenIdx], s.difficulties[s.diffIdx], sel)
	return s, func() tea.Msg {
		return router.PushScreenMsg{
			Screen: sessionscreen.New(s.engine, state),
		}
	}
}

func (s *Screen) selection() catalog.Selection {
	var sel catalog.Selection
	for i, r := range s.rows {
		if !s.selected[i] {
			continue
		}
		if r.kind == catalog.KindCompileTime {
			sel.CompileTime = append(sel.CompileTime, r.category)
		} else {
			sel.Style = append(sel.Style, r.category)
		}
	}
	return sel
}

func (s *Screen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Body.Render("Defect categories:"))
	b.WriteString("\n\n")

	lastKind := catalog.Kind("")
	for i, r := range s.rows {
		if r.kind != lastKind {
			label := "Compile-time & runtime"
			if r.kind == catalog.KindStyle {
				label = "Style & conventions"
			}
			b.WriteString(theme.Hint.Render("  " + label))
			b.WriteString("\n")
			lastKind = r.kind
		}

		check := "[ ]"
		if s.selected[i] {
			check = "[x]"
		}
		line := fmt.Sprintf("  %s %s", check, r.category)
		if i == s.cursor {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s    %s %s\n",
		theme.Hint.Render("Difficulty:"),
		theme.Selected.Render(string(s.difficulties[s.diffIdx])),
		theme.Hint.Render("Length:"),
		theme.Selected.Render(string(s.lengths[s.lenIdx])))

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.Missed.Render(s.errMsg))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 4).
		Render(b.String())
}
