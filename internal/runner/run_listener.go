package runner

import (
	"sync"

	"github.com/polarzero/runwatch/internal/process"
)

// watcherDiedMessage is attached to the exit event when a persistent watcher
// terminates without having been stopped on demand.
const watcherDiedMessage = "test runner process ended unexpectedly"

// runInfo tracks the single live run inside one process lifetime.
type runInfo struct {
	process         process.Handle
	totalTestSuites int
}

// RunTestListener interprets the interleaved stderr/JSON stream of a test
// process: it derives run start/end boundaries from embedded markers, drives
// the long-run monitor, detects snapshot failures and crashed watch modes,
// and emits the externally consumed run-event stream.
type RunTestListener struct {
	baseListener
	monitor *LongRunMonitor

	// mu guards run against the monitor's timer goroutine; everything else
	// arrives on the serialized event path.
	mu  sync.Mutex
	run *runInfo

	exitCode      *int
	exitEmitted   bool
	watchFallback bool
}

// NewRunTestListener wires a listener to its session; one listener serves
// exactly one process handle.
func NewRunTestListener(session *Session) *RunTestListener {
	l := &RunTestListener{baseListener: newBaseListener(session)}
	l.monitor = NewLongRunMonitor(session.Settings.LongRunThreshold, session.Log, l.longRunExpired)
	return l
}

// OnEvent dispatches the raw event stream, specializing the stderr, JSON,
// stdout, exit, and close paths and delegating the rest to the defaults.
func (l *RunTestListener) OnEvent(h process.Handle, ev process.Event) {
	switch ev := ev.(type) {
	case process.StderrData:
		l.onStderr(h, ev.Chunk)
	case process.StdoutData:
		l.onStdout(h, ev.Chunk)
	case process.JSONData:
		l.onResult(h, ev)
	case process.Exited:
		l.onExited(h, ev)
	case process.Closed:
		l.onClosed(h, ev)
	default:
		l.baseListener.OnEvent(h, ev)
	}
}

// onStderr is the marker path: the runner emits its machine-readable run
// markers on stderr, mixed with human-readable diagnostics.
func (l *RunTestListener) onStderr(h process.Handle, chunk []byte) {
	raw := string(chunk)
	text := CleanANSI(raw)

	// Side-effect detection runs on every chunk, before suppression, in a
	// fixed order; the checks are independent and may both fire.
	l.checkSnapshotFailure(h, text)
	l.checkWatchSupport(h, text)

	if total, ok := ParseRunStart(text); ok {
		l.startRun(h, total)
	}
	if HasRunComplete(text) {
		if msg, ok := ExecError(text); ok {
			l.session.emit(Data{Process: h, Text: msg, NewLine: true, IsError: true})
		}
		l.endRun(h)
	}

	out := StripControlNoise(text)
	if IsIgnorable(out) {
		return
	}
	l.session.emit(Data{Process: h, Text: out, Raw: raw, NewLine: true})
}

func (l *RunTestListener) onStdout(h process.Handle, chunk []byte) {
	raw := string(chunk)
	out := StripControlNoise(CleanANSI(raw))
	if IsIgnorable(out) {
		return
	}
	l.session.emit(Data{Process: h, Text: out, Raw: raw, NewLine: true})
}

func (l *RunTestListener) onResult(h process.Handle, ev process.JSONData) {
	if ev.Result == nil {
		return
	}
	l.session.emit(Data{
		Process: h,
		Text:    ev.Result.Summary(),
		NewLine: true,
		IsError: !ev.Result.Success,
	})
}

// onExited records the exit code and tears down the live run. The exit is
// reported separately on close; no end event is synthesized here.
func (l *RunTestListener) onExited(h process.Handle, ev process.Exited) {
	l.monitor.Cancel()
	l.mu.Lock()
	l.run = nil
	l.mu.Unlock()
	l.exitCode = ev.Code
	l.baseListener.handleExited(h, ev)
}

// onClosed emits the exit event exactly once per process lifetime,
// distinguishing "we stopped it" from "it died" for persistent watchers.
func (l *RunTestListener) onClosed(h process.Handle, ev process.Closed) {
	if l.exitEmitted {
		return
	}
	l.exitEmitted = true

	if l.exitCode == nil {
		l.exitCode = ev.Code
	}
	var errMsg string
	if h.Request().IsWatch() && h.StopReason() != process.StopOnDemand {
		errMsg = watcherDiedMessage
		l.session.Log.Error().Str("process", h.ID()).Msg(watcherDiedMessage)
	}
	l.session.emit(Exit{Process: h, Err: errMsg, Code: l.exitCode})
}

func (l *RunTestListener) startRun(h process.Handle, totalTestSuites int) {
	l.mu.Lock()
	if l.run != nil {
		l.session.Log.Warn().Str("process", h.ID()).Msg("run started while another run is active, replacing it")
	}
	l.run = &runInfo{process: h, totalTestSuites: totalTestSuites}
	l.mu.Unlock()

	l.monitor.Start()
	l.session.emit(Start{Process: h})
}

func (l *RunTestListener) endRun(h process.Handle) {
	l.monitor.Cancel()
	l.mu.Lock()
	l.run = nil
	l.mu.Unlock()
	l.session.emit(End{Process: h})
}

// longRunExpired runs on the monitor's timer goroutine.
func (l *RunTestListener) longRunExpired() {
	l.mu.Lock()
	run := l.run
	l.mu.Unlock()
	if run == nil {
		// The run ended between arming and firing.
		return
	}
	l.session.emit(LongRun{
		Process:         run.process,
		TotalTestSuites: run.totalTestSuites,
		Threshold:       l.monitor.Threshold(),
	})
}

// checkSnapshotFailure prompts the user to update snapshots. Processes that
// are themselves snapshot updates never prompt, which also breaks the
// recursion when the scheduled update run fails again.
func (l *RunTestListener) checkSnapshotFailure(h process.Handle, text string) {
	if h.Request().Type == process.UpdateSnapshot {
		return
	}
	if !l.session.Settings.SnapshotUpdateMessages {
		return
	}
	if !HasSnapshotFailure(text) {
		return
	}
	if !l.session.prompt("Snapshot tests failed. Update snapshots?") {
		return
	}
	base := h.Request()
	l.session.schedule(process.Request{Type: process.UpdateSnapshot, BaseRequest: &base})
	l.session.emit(Data{Process: h, Text: "Updating snapshots...", NewLine: true})
}

// checkWatchSupport recovers from a watch mode that cannot run in this tree
// by swapping the watcher for a watch-all process. Only actionable for a
// watch-tests request; fires at most once per process.
func (l *RunTestListener) checkWatchSupport(h process.Handle, text string) {
	if l.watchFallback || !IsWatchNotSupported(text) {
		return
	}
	if h.Request().Type != process.WatchTests {
		l.session.Log.Warn().Str("process", h.ID()).Msg("watch mode unavailable but process is not a watcher, ignoring")
		return
	}
	l.watchFallback = true
	l.session.Log.Info().Str("process", h.ID()).Msg("VCS-based watch unavailable, switching to watch-all")
	l.session.schedule(process.Request{Type: process.WatchAllTests})
	h.Stop()
}
