package runner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/polarzero/runwatch/internal/config"
	"github.com/polarzero/runwatch/internal/process"
)

func watchSettings(threshold time.Duration) *config.Settings {
	return &config.Settings{
		Workspace:              "ws",
		SnapshotUpdateMessages: true,
		LongRunThreshold:       threshold,
	}
}

func TestRunStartEmitsStartBeforeData(t *testing.T) {
	session, rec := newTestSession(nil)
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.WatchTests})

	l.OnEvent(h, process.StderrData{Chunk: []byte("onRunStart: numTotalTestSuites: 5\nRUNS src/a.test.js\n")})

	events := rec.snapshot()
	require.NotEmpty(t, events)
	require.IsType(t, Start{}, events[0], "start must precede data derived from the same chunk")

	data := rec.eventsOf(isData)
	require.Len(t, data, 1)
	require.Equal(t, "RUNS src/a.test.js\n", data[0].(Data).Text)
}

func TestRunCompleteEmitsExactlyOneEnd(t *testing.T) {
	session, rec := newTestSession(nil)
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.WatchTests})

	l.OnEvent(h, process.StderrData{Chunk: []byte("onRunStart: numTotalTestSuites: 2\n")})
	l.OnEvent(h, process.StderrData{Chunk: []byte("onRunComplete\n")})

	require.Len(t, rec.eventsOf(isStart), 1)
	require.Len(t, rec.eventsOf(isEnd), 1)

	events := rec.snapshot()
	require.IsType(t, Start{}, events[0])
	require.IsType(t, End{}, events[1])
}

func TestExecErrorSurfacesAsErrorDataBeforeEnd(t *testing.T) {
	session, rec := newTestSession(nil)
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.AllTests})

	l.OnEvent(h, process.StderrData{Chunk: []byte("onRunStart: numTotalTestSuites: 1\n")})
	l.OnEvent(h, process.StderrData{Chunk: []byte("onRunComplete: execError: worker crashed\n")})

	events := rec.snapshot()
	require.Len(t, events, 3)
	require.IsType(t, Start{}, events[0])
	data, ok := events[1].(Data)
	require.True(t, ok)
	require.True(t, data.IsError)
	require.Equal(t, "worker crashed", data.Text)
	require.IsType(t, End{}, events[2])
}

func TestLongRunFiresOnceWithCapturedSuiteCount(t *testing.T) {
	session, rec := newTestSession(watchSettings(25 * time.Millisecond))
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.WatchTests})

	l.OnEvent(h, process.StderrData{Chunk: []byte("onRunStart: numTotalTestSuites: 5\n")})

	require.Eventually(t, func() bool {
		return len(rec.eventsOf(isLongRun)) == 1
	}, time.Second, 5*time.Millisecond)

	long := rec.eventsOf(isLongRun)[0].(LongRun)
	require.Equal(t, 5, long.TotalTestSuites)
	require.Equal(t, 25*time.Millisecond, long.Threshold)

	// Single-shot: no second long-run without a new start/end cycle.
	time.Sleep(70 * time.Millisecond)
	require.Len(t, rec.eventsOf(isLongRun), 1)
}

func TestRunCompleteDisarmsLongRunMonitor(t *testing.T) {
	session, rec := newTestSession(watchSettings(30 * time.Millisecond))
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.WatchTests})

	l.OnEvent(h, process.StderrData{Chunk: []byte("onRunStart: numTotalTestSuites: 2\n")})
	l.OnEvent(h, process.StderrData{Chunk: []byte("onRunComplete\n")})

	time.Sleep(80 * time.Millisecond)
	require.Empty(t, rec.eventsOf(isLongRun))
}

func TestSplitMarkersAcrossChunks(t *testing.T) {
	session, rec := newTestSession(nil)
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.WatchTests})

	l.OnEvent(h, process.StderrData{Chunk: []byte("onRunStart: numTotalTestSuites: 5\n")})
	l.OnEvent(h, process.StderrData{Chunk: []byte("PASS src/a.test.js\n")})
	l.OnEvent(h, process.StderrData{Chunk: []byte("onRunComplete\n")})

	require.Len(t, rec.eventsOf(isStart), 1)
	require.Len(t, rec.eventsOf(isEnd), 1)

	events := rec.snapshot()
	require.IsType(t, Start{}, events[0])
	require.IsType(t, End{}, events[len(events)-1])
}

func TestWatchUsageChunksAreSuppressed(t *testing.T) {
	session, rec := newTestSession(nil)
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.WatchTests})

	l.OnEvent(h, process.StderrData{Chunk: []byte("Watch Usage: Press w to show more.\n")})
	l.OnEvent(h, process.StderrData{Chunk: []byte("   \n")})

	require.Empty(t, rec.snapshot())
}

func TestControlMarkersNeverReachDataEvents(t *testing.T) {
	session, rec := newTestSession(nil)
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.WatchTests})

	chunk := "onRunStart: numTotalTestSuites: 1\nPASS src/a.test.js\nTest results written to x.json\nonRunComplete\n"
	l.OnEvent(h, process.StderrData{Chunk: []byte(chunk)})

	for _, ev := range rec.eventsOf(isData) {
		require.NotContains(t, ev.(Data).Text, "onRunStart")
		require.NotContains(t, ev.(Data).Text, "onRunComplete")
		require.NotContains(t, ev.(Data).Text, "Test results written to")
	}
}

func TestSnapshotFailurePromptAccepted(t *testing.T) {
	session, rec := newTestSession(nil)
	rec.answerPrompts(true)
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.WatchTests})

	l.OnEvent(h, process.StderrData{Chunk: []byte("› 2 snapshots failed.\n")})

	require.Equal(t, 1, rec.promptCount())
	scheduled := rec.scheduledRequests()
	require.Len(t, scheduled, 1)
	require.Equal(t, process.UpdateSnapshot, scheduled[0].Type)
	require.NotNil(t, scheduled[0].BaseRequest)
	require.Equal(t, process.WatchTests, scheduled[0].BaseRequest.Type)

	data := rec.eventsOf(isData)
	require.Len(t, data, 2, "informational event plus the forwarded chunk")
}

func TestSnapshotFailurePromptDeclined(t *testing.T) {
	session, rec := newTestSession(nil)
	rec.answerPrompts(false)
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.WatchTests})

	l.OnEvent(h, process.StderrData{Chunk: []byte("› 2 snapshots failed.\n")})

	require.Equal(t, 1, rec.promptCount())
	require.Empty(t, rec.scheduledRequests())
}

func TestSnapshotFailureNoPromptForUpdateSnapshotProcess(t *testing.T) {
	session, rec := newTestSession(nil)
	rec.answerPrompts(true)
	l := NewRunTestListener(session)
	base := process.Request{Type: process.WatchTests}
	h := newFakeProc(process.Request{Type: process.UpdateSnapshot, BaseRequest: &base})

	l.OnEvent(h, process.StderrData{Chunk: []byte("› 2 snapshots failed.\n")})

	require.Zero(t, rec.promptCount())
	require.Empty(t, rec.scheduledRequests())
}

func TestSnapshotFailureNoPromptWhenMessagesDisabled(t *testing.T) {
	settings := watchSettings(time.Minute)
	settings.SnapshotUpdateMessages = false
	session, rec := newTestSession(settings)
	rec.answerPrompts(true)
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.WatchTests})

	l.OnEvent(h, process.StderrData{Chunk: []byte("› 2 snapshots failed.\n")})

	require.Zero(t, rec.promptCount())
}

func TestWatchNotSupportedReschedulesWatchAllOnce(t *testing.T) {
	session, rec := newTestSession(nil)
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.WatchTests})

	crash := []byte("--watch is not supported without git/hg, please use --watchAll\n")
	l.OnEvent(h, process.StderrData{Chunk: crash})
	l.OnEvent(h, process.StderrData{Chunk: crash})

	scheduled := rec.scheduledRequests()
	require.Len(t, scheduled, 1)
	require.Equal(t, process.WatchAllTests, scheduled[0].Type)
	require.Equal(t, 1, h.stopCount())
}

func TestWatchNotSupportedIgnoredForNonWatcher(t *testing.T) {
	session, rec := newTestSession(nil)
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.AllTests})

	l.OnEvent(h, process.StderrData{Chunk: []byte("--watch is not supported without git/hg, please use --watchAll\n")})

	require.Empty(t, rec.scheduledRequests())
	require.Zero(t, h.stopCount())
}

func TestWatcherCrashAttachesErrorToExit(t *testing.T) {
	session, rec := newTestSession(nil)
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.WatchTests})

	l.OnEvent(h, process.Exited{Code: intPtr(1)})
	l.OnEvent(h, process.Closed{Code: intPtr(1)})

	exits := rec.eventsOf(isExit)
	require.Len(t, exits, 1)
	exit := exits[0].(Exit)
	require.NotEmpty(t, exit.Err)
	require.Equal(t, 1, *exit.Code)
}

func TestOnDemandStopKeepsExitSilent(t *testing.T) {
	session, rec := newTestSession(nil)
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.WatchTests})
	h.Stop()

	l.OnEvent(h, process.Exited{Code: intPtr(0)})
	l.OnEvent(h, process.Closed{Code: intPtr(0)})

	exits := rec.eventsOf(isExit)
	require.Len(t, exits, 1)
	require.Empty(t, exits[0].(Exit).Err)
}

func TestNonWatchExitCarriesNoError(t *testing.T) {
	session, rec := newTestSession(nil)
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.AllTests})

	l.OnEvent(h, process.Exited{Code: intPtr(2)})
	l.OnEvent(h, process.Closed{Code: intPtr(2)})

	exits := rec.eventsOf(isExit)
	require.Len(t, exits, 1)
	exit := exits[0].(Exit)
	require.Empty(t, exit.Err)
	require.Equal(t, 2, *exit.Code)
}

func TestExitEmittedExactlyOnce(t *testing.T) {
	session, rec := newTestSession(nil)
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.WatchTests})

	l.OnEvent(h, process.Exited{Code: intPtr(0)})
	l.OnEvent(h, process.Closed{Code: intPtr(0)})
	l.OnEvent(h, process.Closed{Code: intPtr(0)})

	require.Len(t, rec.eventsOf(isExit), 1)
}

func TestExitTearsDownLiveRun(t *testing.T) {
	session, rec := newTestSession(watchSettings(25 * time.Millisecond))
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.WatchTests})

	l.OnEvent(h, process.StderrData{Chunk: []byte("onRunStart: numTotalTestSuites: 3\n")})
	l.OnEvent(h, process.Exited{Code: intPtr(0)})

	// No end event is synthesized on exit and the monitor is disarmed.
	require.Empty(t, rec.eventsOf(isEnd))
	time.Sleep(70 * time.Millisecond)
	require.Empty(t, rec.eventsOf(isLongRun))
}

func TestResultPayloadBecomesSummaryData(t *testing.T) {
	session, rec := newTestSession(nil)
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.AllTests})

	l.OnEvent(h, process.StderrData{Chunk: []byte("onRunStart: numTotalTestSuites: 1\n")})
	l.OnEvent(h, jsonEvent(t, `{"numTotalTestSuites": 1, "numTotalTests": 3, "numPassedTests": 2, "numFailedTests": 1, "success": false}`))

	data := rec.eventsOf(isData)
	require.Len(t, data, 1)
	require.Contains(t, data[0].(Data).Text, "1 failed")
	require.True(t, data[0].(Data).IsError)
}

func TestProcessStartingEmitsProcessStart(t *testing.T) {
	session, rec := newTestSession(nil)
	l := NewRunTestListener(session)
	h := newFakeProc(process.Request{Type: process.WatchTests})

	l.OnEvent(h, process.Starting{})

	events := rec.snapshot()
	require.Len(t, events, 1)
	require.IsType(t, ProcessStart{}, events[0])
}
