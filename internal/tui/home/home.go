package home

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/polarzero/runwatch/internal/tui/components"
)

// Selection enumerates home-menu choices.
type Selection int

const (
	SelectWatch Selection = iota
	SelectRunAll
	SelectUpdateSnapshots
	SelectListFiles
	SelectStatus
	SelectSettings
	SelectQuit
)

// Result captures the chosen selection.
type Result struct {
	Selection Selection
}

// ErrCanceled indicates the user quit without making a selection.
var ErrCanceled = errors.New("home canceled")

// Run presents the home menu and returns the chosen action.
func Run() (*Result, error) {
	m := &model{}
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	finalModel, ok := final.(*model)
	if !ok {
		return nil, errors.New("unexpected program model")
	}
	if finalModel.canceled {
		return nil, ErrCanceled
	}
	return &Result{Selection: finalModel.selection}, nil
}

type model struct {
	cursor    int
	width     int
	selection Selection
	canceled  bool
}

var items = []struct {
	item components.MenuItem
	sel  Selection
}{
	{components.MenuItem{Title: "Watch", Description: "re-run tests as files change"}, SelectWatch},
	{components.MenuItem{Title: "Run all tests", Description: "one full pass, then exit"}, SelectRunAll},
	{components.MenuItem{Title: "Update snapshots", Description: "run with snapshot updates enabled"}, SelectUpdateSnapshots},
	{components.MenuItem{Title: "List test files", Description: "print the files the runner would pick up"}, SelectListFiles},
	{components.MenuItem{Title: "Last results", Description: "browse the most recent result file"}, SelectStatus},
	{components.MenuItem{Title: "Settings", Description: "edit the workspace configuration"}, SelectSettings},
	{components.MenuItem{Title: "Quit", Description: ""}, SelectQuit},
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.canceled = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(items)-1 {
				m.cursor++
			}
		case "enter":
			m.selection = items[m.cursor].sel
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *model) View() string {
	menuItems := make([]components.MenuItem, 0, len(items))
	for _, it := range items {
		menuItems = append(menuItems, it.item)
	}
	return components.PageShell(components.PageShellOptions{
		Width: m.width,
		Title: components.TitleConfig{Title: "runwatch", Subtitle: "choose an action"},
		Body:  components.MenuList(m.width, menuItems, m.cursor),
		HelpEntries: []components.HelpEntry{
			{Key: "↑/↓", Label: "move"},
			{Key: "enter", Label: "select"},
			{Key: "q", Label: "quit"},
		},
	})
}
