package process

import "github.com/polarzero/runwatch/internal/results"

// Event is the closed set of raw lifecycle events a Handle delivers to its
// Listener. Each variant carries its own payload; consumers dispatch with a
// type switch and treat any unknown variant as droppable noise.
type Event interface {
	rawEvent()
}

// Starting fires once before any output, as soon as the process is spawned.
type Starting struct{}

// StderrData carries one stderr chunk, always ending on a line boundary.
type StderrData struct {
	Chunk []byte
}

// StdoutData carries one stdout chunk, always ending on a line boundary.
type StdoutData struct {
	Chunk []byte
}

// JSONData carries a parsed result payload detected on stdout.
type JSONData struct {
	Result *results.Payload
}

// TerminalError carries spawn/pipe failures surfaced outside the streams.
type TerminalError struct {
	Chunk []byte
}

// Exited fires when the process terminates. Code is nil when the process was
// killed by a signal instead of exiting.
type Exited struct {
	Code   *int
	Signal string
}

// Closed fires after Exited, once both pipes have drained. It is the final
// event a Handle ever delivers.
type Closed struct {
	Code   *int
	Signal string
}

func (Starting) rawEvent()      {}
func (StderrData) rawEvent()    {}
func (StdoutData) rawEvent()    {}
func (JSONData) rawEvent()      {}
func (TerminalError) rawEvent() {}
func (Exited) rawEvent()        {}
func (Closed) rawEvent()        {}

// Listener consumes the serialized event stream of a single Handle. OnEvent
// is never called concurrently for the same Handle.
type Listener interface {
	OnEvent(h Handle, ev Event)
}
