package runner

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/polarzero/runwatch/internal/config"
	"github.com/polarzero/runwatch/internal/process"
	"github.com/polarzero/runwatch/internal/results"
)

// fakeProc satisfies process.Handle without spawning anything.
type fakeProc struct {
	id  string
	req process.Request

	mu         sync.Mutex
	stopReason process.StopReason
	stops      int
}

func newFakeProc(req process.Request) *fakeProc {
	return &fakeProc{id: "proc-1", req: req}
}

func (f *fakeProc) ID() string       { return f.id }
func (f *fakeProc) Request() process.Request { return f.req }
func (f *fakeProc) String() string   { return f.req.String() }

func (f *fakeProc) StopReason() process.StopReason {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopReason
}

func (f *fakeProc) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.stopReason = process.StopOnDemand
}

func (f *fakeProc) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

// sessionRecorder captures everything a listener pushes through its session.
type sessionRecorder struct {
	mu        sync.Mutex
	events    []Event
	scheduled []process.Request
	prompts   []string

	promptAnswer bool
}

func newTestSession(settings *config.Settings) (*Session, *sessionRecorder) {
	rec := &sessionRecorder{}
	if settings == nil {
		settings = &config.Settings{
			Workspace:              "ws",
			SnapshotUpdateMessages: true,
			LongRunThreshold:       time.Minute,
		}
	}
	session := &Session{
		Workspace: settings.Workspace,
		Settings:  settings,
		Log:       zerolog.Nop(),
		Emit: func(ev Event) {
			rec.mu.Lock()
			defer rec.mu.Unlock()
			rec.events = append(rec.events, ev)
		},
		Schedule: func(req process.Request) {
			rec.mu.Lock()
			defer rec.mu.Unlock()
			rec.scheduled = append(rec.scheduled, req)
		},
		Prompt: func(message string) bool {
			rec.mu.Lock()
			defer rec.mu.Unlock()
			rec.prompts = append(rec.prompts, message)
			return rec.promptAnswer
		},
	}
	return session, rec
}

func (r *sessionRecorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *sessionRecorder) scheduledRequests() []process.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]process.Request(nil), r.scheduled...)
}

func (r *sessionRecorder) promptCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.prompts)
}

func (r *sessionRecorder) answerPrompts(yes bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.promptAnswer = yes
}

func (r *sessionRecorder) eventsOf(kind func(Event) bool) []Event {
	var out []Event
	for _, ev := range r.snapshot() {
		if kind(ev) {
			out = append(out, ev)
		}
	}
	return out
}

func isStart(ev Event) bool   { _, ok := ev.(Start); return ok }
func isEnd(ev Event) bool     { _, ok := ev.(End); return ok }
func isLongRun(ev Event) bool { _, ok := ev.(LongRun); return ok }
func isExit(ev Event) bool    { _, ok := ev.(Exit); return ok }
func isData(ev Event) bool    { _, ok := ev.(Data); return ok }

func intPtr(v int) *int { return &v }

func jsonEvent(t *testing.T, payload string) process.JSONData {
	t.Helper()
	p, err := results.Parse([]byte(payload))
	require.NoError(t, err)
	return process.JSONData{Result: p}
}
