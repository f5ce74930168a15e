package runner

import (
	"time"

	"github.com/polarzero/runwatch/internal/process"
)

// Event is the normalized run-lifecycle stream listeners publish outward.
// Values are immutable once emitted; ordering guarantees are the listener's
// contract, not the sink's.
type Event interface {
	runEvent()
}

// ProcessStart announces that a runner process has been spawned, before any
// run boundary is known.
type ProcessStart struct {
	Process process.Handle
}

// Start marks the beginning of one test run within the process lifetime.
// Watch-mode processes produce many Start/End cycles.
type Start struct {
	Process process.Handle
}

// Data carries forwardable runner output. Text is control-stripped; Raw
// preserves the original chunk for consumers that render ANSI themselves.
type Data struct {
	Process process.Handle
	Text    string
	Raw     string
	NewLine bool
	IsError bool
}

// LongRun fires once per run when no End arrived within Threshold.
type LongRun struct {
	Process         process.Handle
	TotalTestSuites int
	Threshold       time.Duration
}

// End marks the completion of the run opened by the matching Start.
type End struct {
	Process process.Handle
}

// Exit is the final event for a process. Err is non-empty only when a
// persistent watcher died without being stopped on demand.
type Exit struct {
	Process process.Handle
	Err     string
	Code    *int
}

func (ProcessStart) runEvent() {}
func (Start) runEvent()        {}
func (Data) runEvent()         {}
func (LongRun) runEvent()      {}
func (End) runEvent()          {}
func (Exit) runEvent()         {}
