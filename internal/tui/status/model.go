package status

import (
	"errors"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/polarzero/runwatch/internal/results"
	"github.com/polarzero/runwatch/internal/tui/components"
	"github.com/polarzero/runwatch/internal/tui/theme"
)

// ErrQuitAll signals the caller to quit the entire CLI.
var ErrQuitAll = errors.New("status quit")

// Options configure the results browser.
type Options struct {
	// Path names the result file the runner wrote.
	Path string
}

// Run launches the result summary TUI.
func Run(opts Options) error {
	if opts.Path == "" {
		return errors.New("status: results path is required")
	}

	payload, err := results.ParseFile(opts.Path)
	if err != nil {
		return err
	}

	mdl := newModel(opts, payload)
	prog := tea.NewProgram(mdl, tea.WithAltScreen())
	res, err := prog.Run()
	if err != nil {
		return err
	}
	final, ok := res.(*model)
	if !ok {
		return errors.New("status: unexpected program result")
	}
	return final.err
}

type focusMode int

const (
	focusAll focusMode = iota
	focusFailed
)

type model struct {
	opts    Options
	payload *results.Payload

	viewport viewport.Model
	focus    focusMode

	width  int
	height int

	err error
}

func newModel(opts Options, payload *results.Payload) *model {
	m := &model{
		opts:     opts,
		payload:  payload,
		viewport: viewport.New(0, 0),
		width:    80,
		height:   24,
	}
	m.refreshContent()
	return m
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, tea.ClearScreen
	case tea.KeyMsg:
		switch components.NormalizeKey(msg).String() {
		case "q", "esc":
			return m, tea.Quit
		case "ctrl+c":
			m.err = ErrQuitAll
			return m, tea.Quit
		case "f":
			if m.focus == focusAll {
				m.focus = focusFailed
			} else {
				m.focus = focusAll
			}
			m.refreshContent()
			return m, nil
		case "r":
			if payload, err := results.ParseFile(m.opts.Path); err == nil {
				m.payload = payload
				m.refreshContent()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) refreshContent() {
	lines := buildSuiteLines(m.payload, m.focus == focusFailed)
	content := ""
	for i, line := range lines {
		if i > 0 {
			content += "\n"
		}
		content += line
	}
	m.viewport.SetContent(components.FitStyledContent(content, m.viewport.Width, true, "…"))
	m.viewport.GotoTop()
}

func (m *model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	bodyArea := components.ContentArea(m.width, m.height)
	chrome := lipgloss.Height(m.chromeView()) +
		components.ViewportChromeHeight(m.width, theme.DefaultCardBorder, false) + 1
	_, contentArea := components.SplitVertical(bodyArea, components.Fixed(chrome))
	available := contentArea.Dy()
	if available < 3 {
		available = 3
	}
	m.viewport.Width = components.ViewportInnerWidth(m.width, theme.DefaultCardBorder)
	m.viewport.Height = available
	m.refreshContent()
}
