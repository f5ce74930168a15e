package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/polarzero/runwatch/internal/config"
	"github.com/polarzero/runwatch/internal/tui/components"
)

// ErrCanceled is returned when the user exits without saving.
var ErrCanceled = errors.New("settings canceled")

// Options configures the settings TUI.
type Options struct {
	Root    string
	Initial *config.Settings
}

// Run launches the settings editor and saves on confirmation.
func Run(opts Options) (*config.Settings, error) {
	initial := opts.Initial
	if initial == nil {
		loaded, err := config.Load(opts.Root)
		if err != nil {
			return nil, err
		}
		initial = loaded
	}
	mdl := newModel(*initial)
	prog := tea.NewProgram(mdl, tea.WithAltScreen())
	res, err := prog.Run()
	if err != nil {
		return nil, err
	}
	m, ok := res.(*model)
	if !ok {
		return nil, errors.New("unexpected program result")
	}
	if !m.saved {
		return nil, ErrCanceled
	}
	if err := config.Save(opts.Root, &m.settings); err != nil {
		return nil, err
	}
	return &m.settings, nil
}

type field int

const (
	fieldRunnerCommand field = iota
	fieldRunnerArgs
	fieldThreshold
	fieldSnapshotPrompts
	fieldSave
	fieldCount
)

type model struct {
	settings config.Settings

	focus    field
	editing  bool
	input    textinput.Model
	fieldErr string

	width int
	saved bool
}

func newModel(settings config.Settings) *model {
	input := components.NewTextInput()
	input.CharLimit = 256
	return &model{settings: settings, input: input, width: 80}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(components.NormalizeKey(msg))
	}
	return m, nil
}

func (m *model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "esc":
			m.editing = false
			m.fieldErr = ""
			return m, nil
		case "enter":
			if err := m.commitEdit(); err != nil {
				m.fieldErr = err.Error()
				return m, nil
			}
			m.editing = false
			m.fieldErr = ""
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.focus > 0 {
			m.focus--
		}
	case "down", "j":
		if m.focus < fieldCount-1 {
			m.focus++
		}
	case "enter":
		switch m.focus {
		case fieldSnapshotPrompts:
			m.settings.SnapshotUpdateMessages = !m.settings.SnapshotUpdateMessages
		case fieldSave:
			m.saved = true
			return m, tea.Quit
		default:
			m.beginEdit()
			return m, textinput.Blink
		}
	case " ":
		if m.focus == fieldSnapshotPrompts {
			m.settings.SnapshotUpdateMessages = !m.settings.SnapshotUpdateMessages
		}
	}
	return m, nil
}

func (m *model) beginEdit() {
	m.editing = true
	m.fieldErr = ""
	m.input.SetValue(m.currentValue())
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *model) currentValue() string {
	switch m.focus {
	case fieldRunnerCommand:
		return m.settings.RunnerCommand
	case fieldRunnerArgs:
		return strings.Join(m.settings.RunnerArgs, " ")
	case fieldThreshold:
		return strconv.FormatInt(m.settings.LongRunThreshold.Milliseconds(), 10)
	default:
		return ""
	}
}

func (m *model) commitEdit() error {
	value := strings.TrimSpace(m.input.Value())
	switch m.focus {
	case fieldRunnerCommand:
		if value == "" {
			return errors.New("runner command cannot be empty")
		}
		m.settings.RunnerCommand = value
	case fieldRunnerArgs:
		if value == "" {
			m.settings.RunnerArgs = nil
			return nil
		}
		m.settings.RunnerArgs = strings.Fields(value)
	case fieldThreshold:
		ms, err := strconv.ParseInt(value, 10, 64)
		if err != nil || ms < 0 {
			return errors.New("threshold must be a non-negative integer (milliseconds)")
		}
		m.settings.LongRunThreshold = time.Duration(ms) * time.Millisecond
	}
	return nil
}

func (m *model) View() string {
	fields := []components.FormField{
		{
			Label:       "Runner command",
			Value:       m.settings.RunnerCommand,
			Focused:     m.focus == fieldRunnerCommand,
			Description: "binary invoked for every test run",
		},
		{
			Label:       "Runner arguments",
			Value:       strings.Join(m.settings.RunnerArgs, " "),
			Focused:     m.focus == fieldRunnerArgs,
			Description: "always-on arguments, space separated",
		},
		{
			Label:       "Long-run threshold",
			Value:       fmt.Sprintf("%d ms", m.settings.LongRunThreshold.Milliseconds()),
			Focused:     m.focus == fieldThreshold,
			Description: "0 disables long-run warnings",
		},
		{
			Label:       "Snapshot prompts",
			Value:       onOff(m.settings.SnapshotUpdateMessages),
			Focused:     m.focus == fieldSnapshotPrompts,
			Description: "offer to update snapshots after mismatches",
		},
		{
			Label:   "Save",
			Focused: m.focus == fieldSave,
		},
	}

	blocks := make([]string, 0, len(fields)+1)
	for i, f := range fields {
		if m.editing && field(i) == m.focus {
			f.Value = m.input.View()
			f.Error = m.fieldErr
		}
		blocks = append(blocks, components.FormFieldView(f))
	}

	help := []components.HelpEntry{
		{Key: "↑/↓", Label: "move"},
		{Key: "enter", Label: "edit/toggle"},
		{Key: "q", Label: "cancel"},
	}
	if m.editing {
		help = []components.HelpEntry{
			{Key: "enter", Label: "apply"},
			{Key: "esc", Label: "discard"},
		}
	}

	return components.PageShell(components.PageShellOptions{
		Width:       m.width,
		Title:       components.TitleConfig{Title: "runwatch settings", Subtitle: m.settings.Workspace},
		Body:        strings.Join(blocks, "\n\n"),
		HelpEntries: help,
	})
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
