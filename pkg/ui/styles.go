package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/valentine/pkg/decline"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - Consistent spacing and visual language
// ══════════════════════════════════════════════════════════════════════════════

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
	SpaceLG = 4
	SpaceXL = 6
)

// Default dimensions used until the terminal reports its size.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// ══════════════════════════════════════════════════════════════════════════════
// BUTTONS - The proposal controls grow and shrink with the press count
// ══════════════════════════════════════════════════════════════════════════════

// buttonPadding maps an emphasis scale to horizontal and vertical padding.
// Scale 1 is the resting size.
func buttonPadding(scale float64) (h, v int) {
	h = int(math.Round(float64(SpaceSM) * scale))
	if scale >= 1.3 {
		v = 1
	}
	return max(h, 0), v
}

// RenderYesButton renders the positive control at the given emphasis.
func RenderYesButton(t Theme, label string, scale float64, focused bool) string {
	style := t.Button
	if focused {
		style = t.ButtonFocused
	}
	h, v := buttonPadding(scale)
	return style.Padding(v, h).Render(label)
}

// RenderNoButton renders the decline control shrunk and faded by o.
func RenderNoButton(t Theme, label string, o decline.Offset, focused bool) string {
	style := t.Button
	if focused {
		style = t.ButtonFocused
	}
	h, _ := buttonPadding(o.Scale)
	style = style.Padding(0, h)
	if o.Faded {
		style = style.Faint(true).BorderForeground(t.Muted)
	}
	return style.Render(label)
}

// Decline control placement inside the button area. Offsets are applied
// relative to the resting position and clamped to the area.
const (
	noRestX    = 16
	noRestY    = 3
	buttonRows = 7
)

// PlaceNoButton shifts the rendered decline control by o's offset.
func PlaceNoButton(btn string, o decline.Offset) string {
	x := max(noRestX+o.X, 1)
	y := min(max(noRestY+o.Y, 0), buttonRows-lipgloss.Height(btn))
	return lipgloss.NewStyle().MarginLeft(x).MarginTop(max(y, 0)).Render(btn)
}

// ══════════════════════════════════════════════════════════════════════════════
// TEXT HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// centerLines joins non-empty blocks vertically, centered, separated by gap
// blank lines.
func centerLines(gap int, blocks ...string) string {
	var kept []string
	for _, b := range blocks {
		if b == "" {
			continue
		}
		if len(kept) > 0 && gap > 0 {
			// A block of gap-1 newlines is gap lines tall.
			kept = append(kept, strings.Repeat("\n", gap-1))
		}
		kept = append(kept, b)
	}
	return lipgloss.JoinVertical(lipgloss.Center, kept...)
}
