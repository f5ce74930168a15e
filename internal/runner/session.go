package runner

import (
	"github.com/rs/zerolog"

	"github.com/polarzero/runwatch/internal/config"
	"github.com/polarzero/runwatch/internal/process"
)

// Session is the listener's read-only view of its surroundings: workspace
// identity, resolved settings, the logging sink, the outbound event sink, and
// the recovery capabilities. It is constructor-injected into every listener;
// the Emit sink must never block.
type Session struct {
	Workspace string
	Settings  *config.Settings
	Log       zerolog.Logger

	// Emit publishes a run event to the consuming UI/state layer.
	Emit func(Event)
	// Schedule requests a replacement or follow-up runner process.
	Schedule func(process.Request)
	// Prompt asks the user a yes/no question; nil means prompting is
	// unavailable and prompts resolve to no.
	Prompt func(message string) bool
}

func (s *Session) emit(ev Event) {
	if s.Emit != nil {
		s.Emit(ev)
	}
}

func (s *Session) schedule(req process.Request) {
	if s.Schedule != nil {
		s.Schedule(req)
	}
}

func (s *Session) prompt(message string) bool {
	if s.Prompt == nil {
		return false
	}
	return s.Prompt(message)
}
