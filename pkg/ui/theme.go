package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI magenta (color 5) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(5)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor

	// Styles
	Base          lipgloss.Style
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Tagline       lipgloss.Style
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	Card          lipgloss.Style
	CardFocused   lipgloss.Style
	Reaction      lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
}

// DefaultTheme returns the rose theme (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#BE123C", Dark: "#FB7185"}, // Rose
		Secondary: lipgloss.AdaptiveColor{Light: "#9D174D", Dark: "#F472B6"}, // Pink
		Subtext:   lipgloss.AdaptiveColor{Light: "#4C0519", Dark: "#FECDD3"},
		Muted:     lipgloss.AdaptiveColor{Light: "#6B5B63", Dark: "#A8879A"},
		Border:    lipgloss.AdaptiveColor{Light: "#FDA4AF", Dark: "#881337"},
		Highlight: lipgloss.AdaptiveColor{Light: "#FFE4E6", Dark: "#4C0519"},
		Success:   lipgloss.AdaptiveColor{Light: "#047857", Dark: "#6EE7B7"},
		Danger:    lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#FCA5A5"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#FFF1F2"})

	t.Title = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Subtitle = r.NewStyle().Foreground(t.Subtext).Bold(true)
	t.Tagline = r.NewStyle().Foreground(t.Muted).Italic(true)

	t.Button = r.NewStyle().
		Foreground(t.Subtext).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 2)

	t.ButtonFocused = t.Button.
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}).
		Background(ThemeBg("#E11D48")).
		BorderForeground(t.Primary).
		Bold(true)

	t.Card = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	t.CardFocused = t.Card.BorderForeground(t.Primary)

	t.Reaction = r.NewStyle().Foreground(ThemeFg("#F472B6"))
	t.Status = r.NewStyle().Foreground(t.Success)
	t.StatusError = r.NewStyle().Foreground(t.Danger).Bold(true)

	return t
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
