package theme

import "github.com/charmbracelet/lipgloss"

// BorderVariant enumerates the reusable border shapes.
type BorderVariant string

const (
	BorderNormal       BorderVariant = "normal"
	BorderRounded      BorderVariant = "rounded"
	BorderThick        BorderVariant = "thick"
	BorderHidden       BorderVariant = "hidden"
	BorderASCII        BorderVariant = "ascii"
	DefaultCardBorder                = BorderNormal
	DefaultModalBorder               = BorderRounded
)

// BorderFor returns the lipgloss border definition for the variant.
func BorderFor(variant BorderVariant) lipgloss.Border {
	switch variant {
	case BorderRounded:
		return lipgloss.RoundedBorder()
	case BorderThick:
		return lipgloss.Border{
			Top:         "━",
			Bottom:      "━",
			Left:        "┃",
			Right:       "┃",
			TopLeft:     "┏",
			TopRight:    "┓",
			BottomLeft:  "┗",
			BottomRight: "┛",
		}
	case BorderHidden:
		return lipgloss.HiddenBorder()
	case BorderASCII:
		return lipgloss.Border{
			Top:         "-",
			Bottom:      "-",
			Left:        "|",
			Right:       "|",
			TopLeft:     "+",
			TopRight:    "+",
			BottomLeft:  "+",
			BottomRight: "+",
		}
	default:
		return lipgloss.NormalBorder()
	}
}
