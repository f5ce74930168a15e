package run

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/polarzero/runwatch/internal/config"
	"github.com/polarzero/runwatch/internal/process"
	"github.com/polarzero/runwatch/internal/results"
	"github.com/polarzero/runwatch/internal/runner"
	"github.com/polarzero/runwatch/internal/tui/components"
	"github.com/polarzero/runwatch/internal/tui/theme"
)

// Options configures the run TUI.
type Options struct {
	Settings *config.Settings
	Log      zerolog.Logger
	// Mode selects the initial request scheduled on startup.
	Mode process.RequestType
}

// ErrQuitAll signals the caller that the user quit the whole program.
var ErrQuitAll = errors.New("run quit")

// Run launches the interactive run TUI and blocks until the user leaves it.
func Run(opts Options) error {
	mdl, err := newModel(opts)
	if err != nil {
		return err
	}

	prog := tea.NewProgram(mdl, tea.WithAltScreen(), tea.WithMouseCellMotion())
	res, err := prog.Run()
	if err != nil {
		return err
	}
	finalModel, ok := res.(*model)
	if !ok {
		return errors.New("unexpected program result")
	}
	if finalModel.err != nil {
		return finalModel.err
	}
	return nil
}

type logEntry struct {
	text    string
	isError bool
}

type promptState struct {
	message string
	reply   chan<- bool
}

type model struct {
	opts          Options
	width, height int
	err           error

	spinner  spinner.Model
	viewport viewport.Model
	logs     []logEntry
	logLimit int

	stream <-chan tea.Msg
	stop   func()
	sup    *process.Supervisor

	phase      theme.Phase
	running    bool
	runStarted time.Time
	payload    *results.Payload
	files      []string

	prompt      *promptState
	confirmKill bool
	killKey     string
	flash       string
	flashKind   components.FlashKind
}

func newModel(opts Options) (*model, error) {
	if opts.Settings == nil {
		return nil, errors.New("run settings are required")
	}
	if opts.Mode == "" {
		opts.Mode = process.WatchTests
	}

	m := &model{
		opts:     opts,
		spinner:  components.NewSpinner(),
		viewport: viewport.New(0, 0),
		logLimit: 2000,
		phase:    theme.PhaseIdle,
		width:    80,
		height:   24,
	}
	m.viewport.MouseWheelEnabled = true
	m.resize()
	return m, nil
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		startSessionCmd(m.opts, process.Request{Type: m.opts.Mode}),
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, tea.ClearScreen

	case sessionStartedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.stream = msg.stream
		m.stop = msg.stop
		m.sup = msg.sup
		return m, listenStream(m.stream)

	case eventMsg:
		m.handleEvent(msg.ev)
		return m, listenStream(m.stream)

	case resultMsg:
		m.payload = msg.payload
		m.resize()
		return m, listenStream(m.stream)

	case promptMsg:
		m.prompt = &promptState{message: msg.message, reply: msg.reply}
		m.resize()
		return m, listenStream(m.stream)

	case listFilesMsg:
		m.handleListFiles(msg)
		return m, listenStream(m.stream)

	case streamClosedMsg:
		m.stream = nil
		return m, nil

	case killConfirmTimeoutMsg:
		m.confirmKill = false
		m.killKey = ""
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(components.NormalizeKey(msg))
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	m.viewport, cmd = m.viewport.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt != nil {
		switch msg.String() {
		case "y", "enter":
			m.answerPrompt(true)
		case "n", "esc", "q":
			m.answerPrompt(false)
		}
		return m, nil
	}

	switch msg.String() {
	case "esc", "q":
		if m.confirmKill && m.killKey == msg.String() {
			m.confirmKill = false
			m.killKey = ""
			if msg.String() == "q" {
				m.shutdown()
				return m, tea.Quit
			}
			if m.sup != nil {
				m.sup.Stop()
			}
			m.setFlash(components.FlashInfo, "Stopping the runner process.")
			return m, nil
		}
		m.confirmKill = true
		m.killKey = msg.String()
		return m, killConfirmTimeoutCmd()
	case "ctrl+c":
		m.shutdown()
		return m, tea.Quit
	case "a":
		m.schedule(process.Request{Type: process.AllTests})
		return m, nil
	case "w":
		m.schedule(process.Request{Type: process.WatchTests})
		return m, nil
	case "u":
		m.schedule(process.Request{Type: process.UpdateSnapshot})
		return m, nil
	case "l":
		m.schedule(process.Request{Type: process.ListTestFiles})
		return m, nil
	case "c":
		m.setFlash(components.FlashInfo, m.copyRunnerCommand())
		return m, nil
	case "n":
		if m.confirmKill {
			m.confirmKill = false
			m.killKey = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) handleEvent(ev runner.Event) {
	switch ev := ev.(type) {
	case runner.ProcessStart:
		m.appendLog(logEntry{text: fmt.Sprintf("process started: %s", handleID(ev.Process))})
	case runner.Start:
		m.running = true
		m.runStarted = time.Now()
		m.payload = nil
		m.phase = theme.PhaseRunning
		m.flash = ""
	case runner.Data:
		text := strings.TrimRight(ev.Text, "\n")
		if text == "" {
			return
		}
		for _, line := range strings.Split(text, "\n") {
			m.appendLog(logEntry{text: line, isError: ev.IsError})
		}
	case runner.LongRun:
		m.setFlash(components.FlashWarning,
			fmt.Sprintf("Run exceeding %s with %d suites still executing.", ev.Threshold, ev.TotalTestSuites))
	case runner.End:
		m.running = false
		m.phase = m.completedPhase()
	case runner.Exit:
		m.running = false
		if ev.Err != "" {
			m.phase = theme.PhaseCrashed
			m.setFlash(components.FlashDanger, ev.Err)
		} else if m.phase == theme.PhaseRunning {
			m.phase = theme.PhaseStopped
		}
		if ev.Code != nil {
			m.appendLog(logEntry{text: fmt.Sprintf("process %s exited with code %d", handleID(ev.Process), *ev.Code)})
		} else {
			m.appendLog(logEntry{text: fmt.Sprintf("process %s exited", handleID(ev.Process))})
		}
	}
	m.resize()
}

func handleID(h process.Handle) string {
	if h == nil {
		return "runner"
	}
	return h.ID()
}

func (m *model) completedPhase() theme.Phase {
	if m.payload == nil {
		return theme.PhaseIdle
	}
	if m.payload.Success {
		return theme.PhasePassed
	}
	return theme.PhaseFailed
}

func (m *model) handleListFiles(msg listFilesMsg) {
	if msg.errText != "" {
		code := 0
		if msg.exitCode != nil {
			code = *msg.exitCode
		}
		m.setFlash(components.FlashDanger, fmt.Sprintf("Listing failed (code %d): %s", code, msg.errText))
		return
	}
	m.files = msg.files
	m.setFlash(components.FlashInfo, fmt.Sprintf("Found %d test files.", len(msg.files)))
	m.resize()
}

func (m *model) schedule(req process.Request) {
	if m.sup == nil {
		return
	}
	m.confirmKill = false
	m.files = nil
	m.sup.Schedule(req)
	m.setFlash(components.FlashInfo, fmt.Sprintf("Scheduled %s.", req))
}

func (m *model) answerPrompt(yes bool) {
	if m.prompt == nil {
		return
	}
	m.prompt.reply <- yes
	m.prompt = nil
	m.resize()
}

func (m *model) shutdown() {
	if m.prompt != nil {
		m.answerPrompt(false)
	}
	if m.stop != nil {
		m.stop()
	}
}

func (m *model) appendLog(entry logEntry) {
	entry.text = strings.TrimRight(entry.text, "\n")
	if entry.text == "" {
		return
	}
	m.logs = append(m.logs, entry)
	if len(m.logs) > m.logLimit {
		m.logs = m.logs[len(m.logs)-m.logLimit:]
	}
	wasAtBottom := m.viewport.AtBottom()
	m.viewport.SetContent(components.FitStyledContent(buildLogContent(m.logs), m.viewport.Width, true, "…"))
	if wasAtBottom {
		m.viewport.GotoBottom()
	}
}

func (m *model) runnerCommandLine() string {
	parts := append([]string{m.opts.Settings.RunnerCommand}, m.opts.Settings.RunnerArgs...)
	parts = append(parts, process.Request{Type: m.opts.Mode}.Args()...)
	return strings.Join(parts, " ")
}

func (m *model) copyRunnerCommand() string {
	cmd := m.runnerCommandLine()
	if err := clipboard.WriteAll(cmd); err != nil {
		return fmt.Sprintf("Clipboard unavailable. Command: %s", cmd)
	}
	return fmt.Sprintf("Copied: %s", cmd)
}

func (m *model) setFlash(kind components.FlashKind, msg string) {
	m.flashKind = kind
	m.flash = msg
	m.resize()
}

func (m *model) View() string {
	view := m.sessionView()
	view = components.ClampHeight(view, m.height)
	return components.PadToHeight(view, m.height)
}

func (m *model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}

	bodyArea := components.ContentArea(m.width, m.height)
	chrome := m.chromeHeight()
	_, logsArea := components.SplitVertical(bodyArea, components.Fixed(chrome))
	available := logsArea.Dy()
	if available < 3 {
		available = 3
	}
	m.viewport.Width = components.ViewportInnerWidth(m.width, theme.DefaultCardBorder)
	m.viewport.Height = available
	if len(m.logs) > 0 {
		m.viewport.SetContent(components.FitStyledContent(buildLogContent(m.logs), m.viewport.Width, true, "…"))
	}

	// Measure the rendered view; if it still overflows the terminal, shrink
	// the viewport by the overflow amount (clamped to a small minimum).
	if rendered := m.sessionView(); rendered != "" {
		if over := lipgloss.Height(rendered) - m.height; over > 0 && m.viewport.Height > 3 {
			newHeight := m.viewport.Height - over
			if newHeight < 3 {
				newHeight = 3
			}
			if newHeight < m.viewport.Height {
				m.viewport.Height = newHeight
				if len(m.logs) > 0 {
					m.viewport.SetContent(components.FitStyledContent(buildLogContent(m.logs), m.viewport.Width, true, "…"))
				}
			}
		}
	}
}

func buildLogContent(entries []logEntry) string {
	var b strings.Builder
	for i, entry := range entries {
		if entry.isError {
			b.WriteString(theme.WarningStyle.Render(entry.text))
		} else {
			b.WriteString(entry.text)
		}
		if i < len(entries)-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

type killConfirmTimeoutMsg struct{}

func killConfirmTimeoutCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg { return killConfirmTimeoutMsg{} })
}
