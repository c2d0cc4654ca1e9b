package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/javelinlab/javelin/internal/generator"
	"github.com/javelinlab/javelin/internal/ui/components"
	"github.com/javelinlab/javelin/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (s *SessionScreen) View(width, height int) string {
	if s.errMsg != "" {
		return s.renderError(width, height)
	}

	switch s.phase {
	case phaseGenerating, phaseScoring:
		return s.renderWaiting(width, height)
	case phaseFeedback:
		return s.renderFeedback(width, height)
	default:
		return s.renderReview(width, height)
	}
}

func (s *SessionScreen) renderWaiting(width, height int) string {
	frame := spinnerFrames[s.spinnerFrame%len(spinnerFrames)]
	content := theme.Selected.Render(frame) + " " + theme.Body.Render(s.statusLine)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (s *SessionScreen) renderError(width, height int) string {
	content := theme.Missed.Render("Something went wrong") + "\n\n" +
		theme.Body.Render(s.errMsg) + "\n\n" +
		theme.Hint.Render("Press any key to continue")
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (s *SessionScreen) renderReview(width, height int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n\n",
		theme.Hint.Render("Attempt"),
		theme.Selected.Render(fmt.Sprintf("%d of %d", s.state.Iteration, s.engine.Config().MaxIterations)))

	if s.state.Artifact != nil {
		b.WriteString(theme.Body.Render("Review this Java code and list every problem you find:"))
		b.WriteString("\n\n")
		b.WriteString(theme.CodeBlock.Render(generator.AddLineNumbers(s.state.Artifact.CleanSource)))
		b.WriteString("\n\n")
	}

	if g := s.lastGuidance(); g != "" {
		b.WriteString(theme.Hint.Render("Guidance: " + g))
		b.WriteString("\n\n")
	}

	b.WriteString(s.review.View())

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 4).
		Render(b.String())
}

func (s *SessionScreen) renderFeedback(width, height int) string {
	var b strings.Builder

	attempt := s.state.LatestReview()
	if attempt == nil || attempt.Analysis == nil {
		return s.renderReview(width, height)
	}
	a := attempt.Analysis

	b.WriteString(theme.Body.Render("Review scored:"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  %s\n\n", components.ProgressBar(a.IdentifiedPercentage, 30))
	fmt.Fprintf(&b, "  Found %d of %d known problems.\n\n", a.IdentifiedCount, a.TotalCount)

	if len(a.Identified) > 0 {
		b.WriteString(theme.Found.Render("  ✅ You identified:"))
		b.WriteString("\n")
		for _, p := range a.Identified {
			fmt.Fprintf(&b, "     - %s\n", p.Problem)
		}
		b.WriteString("\n")
	}
	if len(a.FalsePositives) > 0 {
		b.WriteString(theme.FalseAlarm.Render("  ⚠ Not actually defects:"))
		b.WriteString("\n")
		for _, p := range a.FalsePositives {
			fmt.Fprintf(&b, "     - %s\n", p.StudentComment)
		}
		b.WriteString("\n")
	}
	if a.Feedback != "" {
		b.WriteString(theme.Body.Render("  " + a.Feedback))
		b.WriteString("\n\n")
	}
	if attempt.Guidance != "" {
		b.WriteString(theme.Hint.Render("  Guidance: " + attempt.Guidance))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 4).
		Render(b.String())
}

func (s *SessionScreen) lastGuidance() string {
	if attempt := s.state.LatestReview(); attempt != nil {
		return attempt.Guidance
	}
	return ""
}
