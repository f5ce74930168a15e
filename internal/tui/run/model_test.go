package run

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/polarzero/runwatch/internal/config"
	"github.com/polarzero/runwatch/internal/process"
	"github.com/polarzero/runwatch/internal/results"
	"github.com/polarzero/runwatch/internal/runner"
	"github.com/polarzero/runwatch/internal/tui/theme"
)

func testModel(t *testing.T) *model {
	t.Helper()
	m, err := newModel(Options{
		Settings: &config.Settings{
			RunnerCommand: "jest",
			Workspace:     "demo",
		},
		Log:  zerolog.Nop(),
		Mode: process.WatchTests,
	})
	require.NoError(t, err)
	return m
}

func testPayload(t *testing.T, raw string) *results.Payload {
	t.Helper()
	p, err := results.Parse([]byte(raw))
	require.NoError(t, err)
	return p
}

func TestHandleEventRunLifecycle(t *testing.T) {
	m := testModel(t)

	m.handleEvent(runner.Start{})
	require.True(t, m.running)
	require.Equal(t, theme.PhaseRunning, m.phase)

	m.handleEvent(runner.Data{Text: "PASS src/app.test.js\n"})
	require.Len(t, m.logs, 1)
	require.Equal(t, "PASS src/app.test.js", m.logs[0].text)

	m.payload = testPayload(t, `{"numTotalTestSuites":1,"numTotalTests":3,"numPassedTests":3,"success":true}`)
	m.handleEvent(runner.End{})
	require.False(t, m.running)
	require.Equal(t, theme.PhasePassed, m.phase)
}

func TestHandleEventFailedRun(t *testing.T) {
	m := testModel(t)
	m.handleEvent(runner.Start{})
	m.payload = testPayload(t, `{"numTotalTestSuites":1,"numTotalTests":3,"numPassedTests":2,"numFailedTests":1,"success":false}`)
	m.handleEvent(runner.End{})
	require.Equal(t, theme.PhaseFailed, m.phase)
}

func TestHandleEventWatcherCrash(t *testing.T) {
	m := testModel(t)
	m.handleEvent(runner.Start{})
	m.handleEvent(runner.Exit{Err: "test runner process ended unexpectedly"})
	require.False(t, m.running)
	require.Equal(t, theme.PhaseCrashed, m.phase)
	require.Contains(t, m.flash, "unexpectedly")
}

func TestHandleEventLongRunFlashes(t *testing.T) {
	m := testModel(t)
	m.handleEvent(runner.Start{})
	m.handleEvent(runner.LongRun{TotalTestSuites: 7, Threshold: time.Minute})
	require.Contains(t, m.flash, "7 suites")
}

func TestPromptKeysAnswerAndClear(t *testing.T) {
	m := testModel(t)
	reply := make(chan bool, 1)
	m.prompt = &promptState{message: "1 snapshot test failed.", reply: reply}

	_, _ = m.updateKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.Nil(t, m.prompt)
	require.True(t, <-reply)

	reply = make(chan bool, 1)
	m.prompt = &promptState{message: "again", reply: reply}
	_, _ = m.updateKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	require.Nil(t, m.prompt)
	require.False(t, <-reply)
}

func TestKillConfirmRequiresDoublePress(t *testing.T) {
	m := testModel(t)

	_, cmd := m.updateKey(tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, m.confirmKill)
	require.NotNil(t, cmd)

	// A different key does not count as the second press.
	_, _ = m.updateKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	require.False(t, m.confirmKill)
}

func TestListFilesFailureFlashesError(t *testing.T) {
	m := testModel(t)
	code := 2
	m.handleListFiles(listFilesMsg{errText: "boom", exitCode: &code})
	require.Nil(t, m.files)
	require.Contains(t, m.flash, "boom")

	m.handleListFiles(listFilesMsg{files: []string{"/a.test.js"}})
	require.Equal(t, []string{"/a.test.js"}, m.files)
}

func TestPayloadTapSurfacesResults(t *testing.T) {
	var pushed []tea.Msg
	var seen []process.Event
	tap := &payloadTap{
		inner: listenerFunc(func(_ process.Handle, ev process.Event) { seen = append(seen, ev) }),
		push:  func(msg tea.Msg) { pushed = append(pushed, msg) },
	}

	payload := testPayload(t, `{"numTotalTestSuites":1,"success":true}`)
	tap.OnEvent(nil, process.JSONData{Result: payload})
	tap.OnEvent(nil, process.StderrData{Chunk: []byte("noise")})

	require.Len(t, seen, 2, "every event reaches the wrapped listener")
	require.Len(t, pushed, 1)
	res, ok := pushed[0].(resultMsg)
	require.True(t, ok)
	require.Same(t, payload, res.payload)
}

type listenerFunc func(process.Handle, process.Event)

func (f listenerFunc) OnEvent(h process.Handle, ev process.Event) { f(h, ev) }
