package process

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/polarzero/runwatch/internal/config"
)

// recordingListener captures the serialized event stream of one handle.
type recordingListener struct {
	mu     sync.Mutex
	events []Event
	closed chan struct{}
}

func newRecordingListener() *recordingListener {
	return &recordingListener{closed: make(chan struct{})}
}

func (l *recordingListener) OnEvent(_ Handle, ev Event) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
	if _, ok := ev.(Closed); ok {
		close(l.closed)
	}
}

func (l *recordingListener) waitClosed(t *testing.T) []Event {
	t.Helper()
	select {
	case <-l.closed:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Closed event")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

func shellSettings(script string) *config.Settings {
	return &config.Settings{
		RunnerCommand: "/bin/sh",
		RunnerArgs:    []string{"-c", script},
		Workspace:     "test",
	}
}

func TestExecHandleDeliversLifecycleInOrder(t *testing.T) {
	listener := newRecordingListener()
	h := Start(context.Background(), shellSettings(`echo out; echo err >&2`), Request{Type: AllTests}, listener, zerolog.Nop())

	events := listener.waitClosed(t)
	require.IsType(t, Starting{}, events[0])

	var sawStdout, sawStderr bool
	for _, ev := range events {
		switch ev := ev.(type) {
		case StdoutData:
			sawStdout = sawStdout || strings.Contains(string(ev.Chunk), "out")
		case StderrData:
			sawStderr = sawStderr || strings.Contains(string(ev.Chunk), "err")
		}
	}
	require.True(t, sawStdout)
	require.True(t, sawStderr)

	exited, ok := events[len(events)-2].(Exited)
	require.True(t, ok, "second to last event must be Exited, got %T", events[len(events)-2])
	require.NotNil(t, exited.Code)
	require.Zero(t, *exited.Code)

	closed, ok := events[len(events)-1].(Closed)
	require.True(t, ok)
	require.NotNil(t, closed.Code)
	require.Empty(t, h.StopReason())
}

func TestExecHandleReportsNonZeroExit(t *testing.T) {
	listener := newRecordingListener()
	Start(context.Background(), shellSettings(`exit 2`), Request{Type: AllTests}, listener, zerolog.Nop())

	events := listener.waitClosed(t)
	closed := events[len(events)-1].(Closed)
	require.NotNil(t, closed.Code)
	require.Equal(t, 2, *closed.Code)
}

func TestExecHandleParsesResultPayloadOnStdout(t *testing.T) {
	payload := `{"numTotalTestSuites": 2, "numTotalTests": 4, "numPassedTests": 4, "success": true}`
	listener := newRecordingListener()
	Start(context.Background(), shellSettings(`echo 'plain'; echo '`+payload+`'`), Request{Type: AllTests}, listener, zerolog.Nop())

	events := listener.waitClosed(t)
	var json *JSONData
	for _, ev := range events {
		if j, ok := ev.(JSONData); ok {
			json = &j
		}
	}
	require.NotNil(t, json, "expected a JSONData event")
	require.Equal(t, 2, json.Result.NumTotalTestSuites)
	require.True(t, json.Result.Success)
}

func TestExecHandleSpawnFailure(t *testing.T) {
	settings := &config.Settings{RunnerCommand: "/nonexistent-runner-binary", Workspace: "test"}
	listener := newRecordingListener()
	Start(context.Background(), settings, Request{Type: AllTests}, listener, zerolog.Nop())

	events := listener.waitClosed(t)
	require.IsType(t, Starting{}, events[0])
	require.IsType(t, TerminalError{}, events[1])
	closed := events[len(events)-1].(Closed)
	require.Nil(t, closed.Code)
}

func TestExecHandleStopRecordsOnDemand(t *testing.T) {
	listener := newRecordingListener()
	h := Start(context.Background(), shellSettings(`sleep 30`), Request{Type: WatchTests}, listener, zerolog.Nop())

	// Give the shell a moment to spawn before signalling.
	time.Sleep(100 * time.Millisecond)
	h.Stop()
	h.Stop() // idempotent

	listener.waitClosed(t)
	require.Equal(t, StopOnDemand, h.StopReason())
}
