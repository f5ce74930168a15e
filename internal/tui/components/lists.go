package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/polarzero/runwatch/internal/tui/theme"
)

// MenuItem describes a two-line vertical selection entry.
type MenuItem struct {
	Title       string
	Description string
}

// MenuList renders a vertically stacked list with shared cursor styling.
func MenuList(width int, items []MenuItem, selected int) string {
	if len(items) == 0 {
		return ""
	}
	bodyWidth := ContentWidth(width)
	lines := make([]string, 0, len(items)*2)
	for i, item := range items {
		cursor := "  "
		lineStyle := theme.BodyStyle
		if i == selected {
			cursor = "▶ "
			lineStyle = theme.SelectedStyle
		}
		title := fmt.Sprintf("%s%s", cursor, strings.TrimSpace(item.Title))
		lines = append(lines, lineStyle.Render(title))
		if desc := strings.TrimSpace(item.Description); desc != "" {
			lines = append(lines, theme.HintStyle.Width(bodyWidth).Render("   "+desc))
		}
	}
	return strings.Join(lines, "\n")
}

// SuiteListItemViewModel describes the data required to render a suite row.
type SuiteListItemViewModel struct {
	BadgeText  string
	BadgeStyle lipgloss.Style
	Path       string
	Message    string
	Selected   bool
}

// SuiteListItem renders a suite result row with an optional failure message.
func SuiteListItem(vm SuiteListItemViewModel) string {
	cursor := "  "
	headerStyle := theme.BodyStyle
	if vm.Selected {
		cursor = "▶ "
		headerStyle = theme.BodyStyle.Bold(true)
	}
	header := headerStyle.Render(fmt.Sprintf("%s%s %s", cursor, vm.BadgeStyle.Render(vm.BadgeText), vm.Path))
	if strings.TrimSpace(vm.Message) == "" {
		return header
	}
	message := theme.HintStyle.Render(strings.Repeat(" ", len(cursor)) + firstLine(vm.Message))
	return header + "\n" + message
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// BulletList renders lines prefixed with an accent bullet.
func BulletList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	bullet := theme.SubtitleStyle.Render("•")
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s", bullet, theme.BodyStyle.Render(item)))
	}
	return strings.Join(lines, "\n")
}
