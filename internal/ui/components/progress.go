package components

import (
	"fmt"
	"strings"

	"github.com/javelinlab/javelin/internal/ui/theme"
)

// ProgressBar renders a fixed-width horizontal bar for a 0-100 percent
// value, with the percentage printed after it.
func ProgressBar(percent float64, width int) string {
	if width < 4 {
		width = 4
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}

	bar := theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", width-filled))

	return fmt.Sprintf("%s %.0f%%", bar, percent)
}
