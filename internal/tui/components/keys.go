package components

import tea "github.com/charmbracelet/bubbletea"

// NormalizeKey reconciles common legacy/terminal variations so update logic
// can rely on a single set of key identifiers.
func NormalizeKey(msg tea.KeyMsg) tea.KeyMsg {
	switch msg.String() {
	case "ctrl+h", "backspace2":
		msg.Type = tea.KeyBackspace
	case "enter", "ctrl+m":
		msg.Type = tea.KeyEnter
	case "ctrl+i", "tab":
		msg.Type = tea.KeyTab
	}
	return msg
}
