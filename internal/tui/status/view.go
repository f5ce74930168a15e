package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/polarzero/runwatch/internal/results"
	"github.com/polarzero/runwatch/internal/tui/components"
	"github.com/polarzero/runwatch/internal/tui/theme"
)

func (m *model) View() string {
	card := components.ViewportCard(components.ViewportCardOptions{
		Width:        m.width,
		Content:      m.viewport.View(),
		Preformatted: true,
	})
	body := m.chromeView() + "\n\n" + card

	container := lipgloss.NewStyle().
		PaddingLeft(theme.ViewHorizontalPadding).
		PaddingRight(theme.ViewHorizontalPadding).
		PaddingTop(theme.ViewTopPadding).
		PaddingBottom(theme.ViewBottomPadding)
	view := container.Render(body)
	view = components.ClampHeight(view, m.height)
	return components.PadToHeight(view, m.height)
}

// chromeView renders everything above the suite card, so resize can measure it.
func (m *model) chromeView() string {
	title := components.TitleBar(components.TitleConfig{
		Title:    "runwatch results",
		Subtitle: focusLabel(m.focus),
	})
	sections := []string{
		title,
		renderSummaryLine(m.payload),
		components.HelpBar(components.ContentWidth(m.width),
			components.HelpEntry{Key: "f", Label: "toggle failed only"},
			components.HelpEntry{Key: "r", Label: "reload"},
			components.HelpEntry{Key: "↑/↓", Label: "scroll"},
			components.HelpEntry{Key: "q", Label: "back"},
		),
	}
	return strings.Join(sections, "\n")
}

func focusLabel(f focusMode) string {
	if f == focusFailed {
		return "failed suites"
	}
	return "all suites"
}

func renderSummaryLine(p *results.Payload) string {
	if p == nil {
		return theme.HintStyle.Render("No results loaded.")
	}
	parts := []string{
		theme.BadgePassed.Render(fmt.Sprintf("PASSED %d", p.NumPassedTests)),
		theme.BadgeFailed.Render(fmt.Sprintf("FAILED %d", p.NumFailedTests)),
		theme.BadgeIdle.Render(fmt.Sprintf("PENDING %d", p.NumPendingTests)),
	}
	if p.Snapshot.Unmatched > 0 {
		parts = append(parts, theme.BadgeFailed.Render(fmt.Sprintf("SNAPSHOTS %d", p.Snapshot.Unmatched)))
	}
	return strings.Join(parts, "  ")
}
