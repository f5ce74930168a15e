package process

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/polarzero/runwatch/internal/config"
)

// runningHandle is what the supervisor tracks internally: a Handle plus
// completion signalling.
type runningHandle interface {
	Handle
	Done() <-chan struct{}
}

// Supervisor owns at most one live runner process and serializes scheduling:
// a new request stops the current process and waits for its event stream to
// close before the replacement spawns, so listeners never interleave.
type Supervisor struct {
	settings    *config.Settings
	log         zerolog.Logger
	newListener func(Request) Listener
	start       func(context.Context, *config.Settings, Request, Listener, zerolog.Logger) runningHandle

	requests chan Request
	stops    chan struct{}
	closed   chan struct{}
}

// NewSupervisor builds a supervisor; newListener is invoked once per
// scheduled request to produce the listener that consumes its events.
func NewSupervisor(settings *config.Settings, log zerolog.Logger, newListener func(Request) Listener) *Supervisor {
	return &Supervisor{
		settings:    settings,
		log:         log,
		newListener: newListener,
		start: func(ctx context.Context, s *config.Settings, req Request, l Listener, lg zerolog.Logger) runningHandle {
			return Start(ctx, s, req, l, lg)
		},
		requests: make(chan Request, 8),
		stops:    make(chan struct{}, 1),
		closed:   make(chan struct{}),
	}
}

// Run processes schedule/stop calls until ctx is cancelled. It owns the
// current handle; no other goroutine touches it.
func (s *Supervisor) Run(ctx context.Context) {
	defer close(s.closed)
	var current runningHandle
	stopCurrent := func() {
		if current == nil {
			return
		}
		current.Stop()
		<-current.Done()
		current = nil
	}

	for {
		select {
		case <-ctx.Done():
			stopCurrent()
			return
		case <-s.stops:
			stopCurrent()
		case req := <-s.requests:
			stopCurrent()
			s.log.Info().Stringer("request", req).Msg("scheduling runner process")
			current = s.start(ctx, s.settings, req, s.newListener(req), s.log)
		}
	}
}

// Schedule queues a request; it never blocks the caller. A full queue drops
// the request with a warning since recovery actions must not deadlock the
// event path.
func (s *Supervisor) Schedule(req Request) {
	select {
	case s.requests <- req:
	default:
		s.log.Warn().Stringer("request", req).Msg("schedule queue full, dropping request")
	}
}

// Stop terminates the current process without scheduling a replacement.
func (s *Supervisor) Stop() {
	select {
	case s.stops <- struct{}{}:
	default:
	}
}

// Closed is closed once Run has returned and the final process is gone.
func (s *Supervisor) Closed() <-chan struct{} { return s.closed }
