package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/polarzero/runwatch/internal/tui/theme"
)

// ViewWidth normalizes the reported terminal width, falling back to a sane
// default before the first WindowSizeMsg arrives.
func ViewWidth(width int) int {
	if width <= 0 {
		return 80
	}
	return width
}

// ContentWidth is the drawable width once global horizontal padding is
// removed, clamped so narrow terminals still render something usable.
func ContentWidth(width int) int {
	w := ViewWidth(width) - theme.ViewHorizontalPadding*2
	if w < 24 {
		return 24
	}
	return w
}

// ClampHeight truncates a rendered view to at most maxHeight lines.
func ClampHeight(view string, maxHeight int) string {
	if maxHeight <= 0 {
		return view
	}
	lines := strings.Split(view, "\n")
	if len(lines) <= maxHeight {
		return view
	}
	return strings.Join(lines[:maxHeight], "\n")
}

// PadToHeight ensures the rendered view fills at least the given height, so
// Bubble Tea doesn't leave artifacts from previous, taller frames.
func PadToHeight(view string, minHeight int) string {
	if minHeight <= 0 {
		return view
	}
	height := lipgloss.Height(view)
	if height >= minHeight {
		return view
	}
	padding := strings.Repeat("\n", minHeight-height)
	return view + padding
}
