package process

// StopReason records why a process was terminated.
type StopReason string

// StopOnDemand marks a deliberate stop requested through the supervisor or a
// listener recovery action, as opposed to the process dying on its own.
const StopOnDemand StopReason = "on-demand"

// Handle is the listener-facing identity of one spawned runner invocation.
// Listeners reference it during the event stream and must not retain it past
// the Closed event.
type Handle interface {
	// ID is a stable identifier for logs and event correlation.
	ID() string
	// Request returns the immutable reason this process was started.
	Request() Request
	// StopReason is empty until Stop has been called.
	StopReason() StopReason
	// Stop terminates the process and records StopOnDemand. Idempotent.
	Stop()
	// String renders a short human-readable identity.
	String() string
}
