package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/polarzero/runwatch/internal/tui/theme"
)

// NewTextInput returns a text input configured with the shared palette.
func NewTextInput() textinput.Model {
	input := textinput.New()
	ApplyTextInputStyle(&input)
	return input
}

// ApplyTextInputStyle mutates a text input with Glow-derived colors.
func ApplyTextInputStyle(input *textinput.Model) {
	if input == nil {
		return
	}
	input.PromptStyle = lipgloss.NewStyle().Foreground(theme.Colors.Highlight)
	input.Cursor.Style = lipgloss.NewStyle().Foreground(theme.Colors.Accent)
	input.TextStyle = theme.BodyStyle
	input.PlaceholderStyle = theme.HintStyle
}
