package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/polarzero/runwatch/internal/config"
	"github.com/polarzero/runwatch/internal/results"
)

// stopGracePeriod bounds how long a SIGTERM may go unanswered before the
// process is killed outright.
const stopGracePeriod = 3 * time.Second

// execHandle spawns the runner and delivers its lifecycle as a serialized
// event stream. All events, including spawn failures, flow through one pump
// goroutine so the listener never sees concurrent calls.
type execHandle struct {
	id  string
	req Request
	log zerolog.Logger

	cmd    *exec.Cmd
	events chan Event
	done   chan struct{}

	mu         sync.Mutex
	proc       *os.Process
	stopReason StopReason
}

// Start spawns the runner for the request and streams events to the listener.
// Spawn failures surface as TerminalError followed by Closed, never a panic
// or a lost process.
func Start(ctx context.Context, settings *config.Settings, req Request, listener Listener, log zerolog.Logger) *execHandle {
	args := append(append([]string{}, settings.RunnerArgs...), req.Args()...)
	h := &execHandle{
		id:     uuid.NewString()[:8],
		req:    req,
		cmd:    exec.CommandContext(ctx, settings.RunnerCommand, args...),
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
	h.log = log.With().Str("process", h.id).Str("request", req.String()).Logger()

	go h.pump(listener)
	go h.run()
	return h
}

func (h *execHandle) ID() string      { return h.id }
func (h *execHandle) Request() Request { return h.req }

func (h *execHandle) StopReason() StopReason {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopReason
}

func (h *execHandle) String() string {
	return fmt.Sprintf("%s [%s]", h.req, h.id)
}

// Done is closed once the final Closed event has been delivered.
func (h *execHandle) Done() <-chan struct{} { return h.done }

// Stop terminates the process deliberately. The first call wins; later calls
// are no-ops.
func (h *execHandle) Stop() {
	h.mu.Lock()
	if h.stopReason != "" {
		h.mu.Unlock()
		return
	}
	h.stopReason = StopOnDemand
	proc := h.proc
	h.mu.Unlock()

	if proc == nil {
		// Not spawned yet; run() checks the stop reason after spawning.
		return
	}
	h.log.Debug().Msg("stopping process")
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return
	}
	go func() {
		select {
		case <-h.done:
		case <-time.After(stopGracePeriod):
			_ = proc.Kill()
		}
	}()
}

// pump serializes event delivery; it is the only goroutine that calls the
// listener.
func (h *execHandle) pump(listener Listener) {
	for ev := range h.events {
		listener.OnEvent(h, ev)
	}
	close(h.done)
}

func (h *execHandle) run() {
	defer close(h.events)

	h.events <- Starting{}

	stdout, err := h.cmd.StdoutPipe()
	if err != nil {
		h.terminalError(fmt.Errorf("stdout pipe: %w", err))
		return
	}
	stderr, err := h.cmd.StderrPipe()
	if err != nil {
		h.terminalError(fmt.Errorf("stderr pipe: %w", err))
		return
	}

	if err := h.cmd.Start(); err != nil {
		h.terminalError(fmt.Errorf("spawn %s: %w", h.cmd.Path, err))
		return
	}
	h.mu.Lock()
	h.proc = h.cmd.Process
	stopped := h.stopReason != ""
	h.mu.Unlock()
	if stopped {
		_ = h.cmd.Process.Signal(syscall.SIGTERM)
	}
	h.log.Debug().Int("pid", h.cmd.Process.Pid).Msg("process started")

	outEmitter := newChunkEmitter(h.emitStdout)
	errEmitter := newChunkEmitter(func(chunk []byte) { h.events <- StderrData{Chunk: chunk} })

	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		_, _ = io.Copy(outEmitter, stdout)
		outEmitter.flush()
	}()
	go func() {
		defer readers.Done()
		_, _ = io.Copy(errEmitter, stderr)
		errEmitter.flush()
	}()
	readers.Wait()

	code, signal := h.wait()
	h.events <- Exited{Code: code, Signal: signal}
	h.events <- Closed{Code: code, Signal: signal}
}

func (h *execHandle) wait() (*int, string) {
	err := h.cmd.Wait()
	if err == nil {
		zero := 0
		return &zero, ""
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return nil, ws.Signal().String()
		}
		code := ee.ExitCode()
		return &code, ""
	}
	h.log.Warn().Err(err).Msg("process wait failed")
	return nil, ""
}

func (h *execHandle) terminalError(err error) {
	h.log.Error().Err(err).Msg("process failed to start")
	h.events <- TerminalError{Chunk: []byte(err.Error())}
	h.events <- Closed{}
}

// emitStdout splits a stdout chunk into result payloads and plain output.
// Result payload lines become JSONData events; contiguous plain lines are
// forwarded together as one StdoutData chunk.
func (h *execHandle) emitStdout(chunk []byte) {
	var plain bytes.Buffer
	flushPlain := func() {
		if plain.Len() == 0 {
			return
		}
		out := make([]byte, plain.Len())
		copy(out, plain.Bytes())
		plain.Reset()
		h.events <- StdoutData{Chunk: out}
	}

	for _, line := range bytes.SplitAfter(chunk, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if !results.LooksLikeResult(line) {
			plain.Write(line)
			continue
		}
		payload, err := results.Parse(bytes.TrimSpace(line))
		if err != nil {
			h.log.Debug().Err(err).Msg("result-shaped line failed to parse, forwarding as output")
			plain.Write(line)
			continue
		}
		flushPlain()
		h.events <- JSONData{Result: payload}
	}
	flushPlain()
}
