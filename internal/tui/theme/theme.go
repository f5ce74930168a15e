package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette exposes the semantic color tokens derived from the Glow reference theme.
type Palette struct {
	Primary   lipgloss.TerminalColor
	Accent    lipgloss.TerminalColor
	Muted     lipgloss.TerminalColor
	Warning   lipgloss.TerminalColor
	Success   lipgloss.TerminalColor
	Surface   lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
	Highlight lipgloss.TerminalColor
}

var Colors = Palette{
	Primary:   lipgloss.AdaptiveColor{Light: "#FFFDF5", Dark: "#FFFDF5"},
	Accent:    lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"},
	Muted:     lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"},
	Warning:   lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"},
	Success:   lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#35D79C"},
	Surface:   lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"},
	Border:    lipgloss.AdaptiveColor{Light: "#DDDADA", Dark: "#3C3C3C"},
	Highlight: lipgloss.AdaptiveColor{Light: "#ECFD65", Dark: "#ECFD65"},
}

const (
	ViewHorizontalPadding = 4
	ViewTopPadding        = 2
	ViewBottomPadding     = 1
	SectionSpacing        = 1
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(Colors.Primary)
	SubtitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Colors.Accent)
	BodyStyle     = lipgloss.NewStyle().Foreground(Colors.Primary)
	HintStyle     = lipgloss.NewStyle().Foreground(Colors.Muted)
	WarningStyle  = lipgloss.NewStyle().Foreground(Colors.Warning).Bold(true)
	SuccessStyle  = lipgloss.NewStyle().Foreground(Colors.Success).Bold(true)
	SelectedStyle = lipgloss.NewStyle().Foreground(Colors.Surface).Background(Colors.Accent).Bold(true)
	BorderStyle   = lipgloss.NewStyle().BorderForeground(Colors.Border)
)

// Phase is the coarse state of the supervised runner as shown in the header.
type Phase string

const (
	PhaseIdle    Phase = "IDLE"
	PhaseRunning Phase = "RUNNING"
	PhasePassed  Phase = "PASSED"
	PhaseFailed  Phase = "FAILED"
	PhaseCrashed Phase = "CRASHED"
	PhaseStopped Phase = "STOPPED"
)

var (
	badgeBase    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	BadgeIdle    = badgeBase.Foreground(Colors.Primary).Background(Colors.Border)
	BadgeRunning = badgeBase.Foreground(Colors.Surface).Background(Colors.Accent)
	BadgePassed  = badgeBase.Foreground(Colors.Surface).Background(Colors.Success)
	BadgeFailed  = badgeBase.Foreground(Colors.Surface).Background(Colors.Warning)
	BadgeStopped = badgeBase.Foreground(Colors.Surface).Background(Colors.Muted)
)

// PhaseBadge renders the label/style pair for a run phase.
func PhaseBadge(phase Phase) (string, lipgloss.Style) {
	switch phase {
	case PhaseRunning:
		return string(phase), BadgeRunning
	case PhasePassed:
		return string(phase), BadgePassed
	case PhaseFailed, PhaseCrashed:
		return string(phase), BadgeFailed
	case PhaseStopped:
		return string(phase), BadgeStopped
	default:
		return string(PhaseIdle), BadgeIdle
	}
}
