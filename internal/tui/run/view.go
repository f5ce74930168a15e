package run

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/polarzero/runwatch/internal/process"
	"github.com/polarzero/runwatch/internal/tui/components"
	"github.com/polarzero/runwatch/internal/tui/theme"
)

// stubbed in layout tests to keep rendered frames deterministic
var timeSince = time.Since

func (m *model) sessionView() string {
	sections := m.chromeSections()

	scroll := fmt.Sprintf("%d lines — %3.0f%%", len(m.logs), m.viewport.ScrollPercent()*100)
	card := components.ViewportCard(components.ViewportCardOptions{
		Width:        m.width,
		Content:      m.viewport.View(),
		Status:       scroll,
		Preformatted: true,
	})

	// Logs render between the status block and the trailing chrome.
	out := make([]string, 0, len(sections)+1)
	out = append(out, sections[0], card)
	out = append(out, sections[1:]...)

	body := strings.Join(out, "\n\n")
	container := lipgloss.NewStyle().
		PaddingLeft(theme.ViewHorizontalPadding).
		PaddingRight(theme.ViewHorizontalPadding).
		PaddingTop(theme.ViewTopPadding).
		PaddingBottom(theme.ViewBottomPadding)
	return container.Render(body)
}

// chromeSections renders everything except the log card: the leading header
// block first, then any trailing blocks (results, modals, flash, help).
func (m *model) chromeSections() []string {
	badgeText, badgeStyle := theme.PhaseBadge(m.phase)
	title := components.TitleBar(components.TitleConfig{
		Title:    "runwatch",
		Subtitle: m.opts.Settings.Workspace,
	})
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		title, "  ", badgeStyle.Render(badgeText), "  ", theme.HintStyle.Render(modeLabel(m.opts.Mode)))

	head := []string{header, m.statusLine()}
	if chip := components.CommandChip(m.runnerCommandLine()); chip != "" {
		head = append(head, chip)
	}

	var tail []string
	if block := m.resultBlock(); block != "" {
		tail = append(tail, block)
	}
	if m.files != nil {
		tail = append(tail, theme.SubtitleStyle.Render("Test files")+"\n"+components.BulletList(m.files))
	}
	if m.flash != "" {
		tail = append(tail, components.Flash(m.flashKind, m.flash))
	}
	if m.prompt != nil {
		tail = append(tail, components.Modal(components.ModalConfig{
			Width: m.width,
			Title: "Update snapshots?",
			Body: []string{
				m.prompt.message,
				"Press y to re-run with snapshot updates or n/esc to dismiss.",
			},
		}))
	}
	if m.confirmKill {
		action := "stop the runner process"
		if m.killKey == "q" {
			action = "quit runwatch"
		}
		tail = append(tail, components.Modal(components.ModalConfig{
			Width: m.width,
			Title: "Are you sure?",
			Body: []string{
				fmt.Sprintf("Press %s again within 2s to %s.", m.killKey, action),
				"Press n to cancel.",
			},
		}))
	}
	tail = append(tail, components.HelpBar(components.ContentWidth(m.width), m.helpEntries()...))

	return append([]string{strings.Join(head, "\n\n")}, tail...)
}

func (m *model) statusLine() string {
	if m.running {
		elapsed := ""
		if !m.runStarted.IsZero() {
			elapsed = fmt.Sprintf(" (%ds)", int(timeSince(m.runStarted).Seconds()))
		}
		return components.SpinnerLine(m.spinner.View(), "Tests running"+elapsed)
	}
	if m.payload != nil {
		return theme.BodyStyle.Render(m.payload.Summary())
	}
	switch m.phase {
	case theme.PhaseCrashed:
		return theme.WarningStyle.Render("Runner process is gone.")
	case theme.PhaseStopped:
		return theme.HintStyle.Render("Runner stopped.")
	default:
		if (process.Request{Type: m.opts.Mode}).IsWatch() {
			return theme.HintStyle.Render("Waiting for file changes.")
		}
		return theme.HintStyle.Render("Waiting for the runner.")
	}
}

func (m *model) resultBlock() string {
	if m.payload == nil {
		return ""
	}
	failed := m.payload.FailedSuites()
	if len(failed) == 0 {
		return ""
	}
	rows := make([]string, 0, len(failed)+1)
	rows = append(rows, theme.SubtitleStyle.Render("Failing suites"))
	for _, suite := range m.payload.TestResults {
		if suite.Status == "" || suite.Status == "passed" {
			continue
		}
		rows = append(rows, components.SuiteListItem(components.SuiteListItemViewModel{
			BadgeText:  "FAIL",
			BadgeStyle: theme.BadgeFailed,
			Path:       suite.Name,
			Message:    suite.Message,
		}))
	}
	return strings.Join(rows, "\n")
}

func (m *model) helpEntries() []components.HelpEntry {
	entries := []components.HelpEntry{
		{Key: "a", Label: "run all"},
		{Key: "w", Label: "watch"},
		{Key: "u", Label: "update snapshots"},
		{Key: "l", Label: "list files"},
		{Key: "c", Label: "copy command"},
	}
	if m.prompt != nil {
		return []components.HelpEntry{
			{Key: "y", Label: "update"},
			{Key: "n/esc", Label: "dismiss"},
		}
	}
	entries = append(entries,
		components.HelpEntry{Key: "esc×2", Label: "stop run"},
		components.HelpEntry{Key: "q×2", Label: "quit"},
	)
	return entries
}

func modeLabel(mode process.RequestType) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(string(mode), "-", " "))
}

// chromeHeight measures all non-viewport chrome at the current width.
func (m *model) chromeHeight() int {
	sections := m.chromeSections()
	rendered := strings.Join(sections, "\n\n")
	// The blank line separating the header block from the log card.
	return lipgloss.Height(rendered) + 1 +
		components.ViewportChromeHeight(m.width, theme.DefaultCardBorder, true)
}
