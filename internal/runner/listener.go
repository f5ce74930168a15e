package runner

import (
	"strings"

	"github.com/polarzero/runwatch/internal/process"
)

// exitCodeErrorThreshold separates the runner's ordinary "tests failed" exit
// (code 1, already reported through the result/marker paths) from
// environment-level failures. The convention is the wrapped runner's, not a
// protocol guarantee; keep it in one place so a runner that shifts it needs a
// one-line change.
const exitCodeErrorThreshold = 1

// baseListener supplies default handling for every raw event tag plus the
// shared exit-code classification. Concrete listeners embed it and override
// dispatch for the tags they specialize, delegating the rest here.
type baseListener struct {
	session *Session
}

func newBaseListener(session *Session) baseListener {
	return baseListener{session: session}
}

// OnEvent routes every known raw event to its default handler. Unknown
// variants are logged and dropped, never fatal, to tolerate protocol drift.
func (l *baseListener) OnEvent(h process.Handle, ev process.Event) {
	switch ev := ev.(type) {
	case process.Starting:
		l.handleStarting(h)
	case process.StderrData:
		l.logChunk(h, "stderr", ev.Chunk)
	case process.StdoutData:
		l.logChunk(h, "stdout", ev.Chunk)
	case process.JSONData:
		l.session.Log.Debug().Str("process", h.ID()).Msg("result payload received")
	case process.TerminalError:
		l.logChunk(h, "terminal-error", ev.Chunk)
	case process.Exited:
		l.handleExited(h, ev)
	case process.Closed:
		// No default behavior; specialized listeners own close semantics.
	default:
		l.session.Log.Warn().Str("process", h.ID()).Msgf("unexpected process event %T, dropping", ev)
	}
}

func (l *baseListener) handleStarting(h process.Handle) {
	l.session.emit(ProcessStart{Process: h})
}

func (l *baseListener) handleExited(h process.Handle, ev process.Exited) {
	if IsInfraExit(ev.Code) {
		l.session.Log.Error().Str("process", h.ID()).Int("code", *ev.Code).Msg("runner exited with environment failure")
		return
	}
	log := l.session.Log.Debug().Str("process", h.ID())
	if ev.Code != nil {
		log = log.Int("code", *ev.Code)
	}
	if ev.Signal != "" {
		log = log.Str("signal", ev.Signal)
	}
	log.Msg("runner exited")
}

// logChunk debug-logs a control-stripped copy of the text while keeping the
// raw original available to the caller.
func (l *baseListener) logChunk(h process.Handle, stream string, chunk []byte) (clean, raw string) {
	raw = string(chunk)
	clean = CleanANSI(raw)
	l.session.Log.Debug().
		Str("process", h.ID()).
		Str("stream", stream).
		Msg(strings.TrimRight(clean, "\n"))
	return clean, raw
}

// IsInfraExit classifies an exit code as an environment-level failure rather
// than an ordinary tests-failed signal.
func IsInfraExit(code *int) bool {
	return code != nil && *code > exitCodeErrorThreshold
}
