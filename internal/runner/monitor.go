package runner

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LongRunMonitor is a single-shot, restartable timer: armed at run start,
// disarmed at run end, firing its callback once if the run outlives the
// threshold. It knows nothing about what "long" means; the caller decides.
type LongRunMonitor struct {
	threshold time.Duration
	log       zerolog.Logger
	expired   func()

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewLongRunMonitor builds a monitor; a threshold <= 0 disables it entirely.
func NewLongRunMonitor(threshold time.Duration, log zerolog.Logger, expired func()) *LongRunMonitor {
	return &LongRunMonitor{threshold: threshold, log: log, expired: expired}
}

// Threshold returns the armed duration, zero when disabled.
func (m *LongRunMonitor) Threshold() time.Duration { return m.threshold }

// Start arms the timer. Arming while already armed logs a warning and
// re-arms; two timers never stack. A no-op when disabled.
func (m *LongRunMonitor) Start() {
	if m.threshold <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer != nil {
		m.log.Warn().Msg("long-run monitor armed while already running, re-arming")
		m.timer.Stop()
	}
	m.gen++
	gen := m.gen
	m.timer = time.AfterFunc(m.threshold, func() { m.fire(gen) })
}

// Cancel disarms unconditionally; safe to call in any state, repeatedly.
func (m *LongRunMonitor) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *LongRunMonitor) fire(gen uint64) {
	m.mu.Lock()
	// A cancel or re-arm that raced the timer wins; the stale callback must
	// not consume the current arm cycle.
	if m.timer == nil || gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.mu.Unlock()
	m.expired()
}
