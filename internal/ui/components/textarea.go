package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

// ReviewArea wraps bubbles/textarea for multi-line review entry.
type ReviewArea struct {
	Model textarea.Model
}

// NewReviewArea creates a focused review entry area.
func NewReviewArea(placeholder string) ReviewArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.Focus()
	return ReviewArea{Model: ta}
}

// Init returns the initial command.
func (r ReviewArea) Init() tea.Cmd {
	return r.Model.Focus()
}

// Update handles messages.
func (r ReviewArea) Update(msg tea.Msg) (ReviewArea, tea.Cmd) {
	var cmd tea.Cmd
	r.Model, cmd = r.Model.Update(msg)
	return r, cmd
}

// View renders the area.
func (r ReviewArea) View() string {
	return r.Model.View()
}

// Value returns the entered text.
func (r ReviewArea) Value() string {
	return r.Model.Value()
}

// Reset clears the entered text.
func (r *ReviewArea) Reset() {
	r.Model.Reset()
}

// SetSize adjusts the visible area.
func (r *ReviewArea) SetSize(width, height int) {
	r.Model.SetWidth(width)
	r.Model.SetHeight(height)
}
