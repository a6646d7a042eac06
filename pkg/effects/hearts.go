package effects

import (
	"math"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Timing for the floating hearts layer.
const (
	HeartSpawnInterval = 800 * time.Millisecond
	FrameInterval      = 80 * time.Millisecond
	DefaultMaxHearts   = 14
)

// Palette is the shared decoration palette.
var Palette = []lipgloss.TerminalColor{
	lipgloss.Color("#E11D48"),
	lipgloss.Color("#F472B6"),
	lipgloss.Color("#FB7185"),
	lipgloss.Color("#FDA4AF"),
	lipgloss.Color("#FECDD3"),
}

// HeartGlyphs are the single-cell glyphs used for floating hearts.
var HeartGlyphs = []string{"♥", "♡", "❥", "✿", "·"}

// Heart is one floating decoration.
type Heart struct {
	X     int
	Y     float64
	Speed float64 // rows per frame
	Drift float64 // horizontal sway amplitude
	Glyph string
	Color lipgloss.TerminalColor
	Age   time.Duration
	Life  time.Duration
}

// Hearts is a field of hearts rising from the bottom edge. At most Max are
// alive at once; spawns beyond that are skipped.
type Hearts struct {
	gen   Generator
	items []Heart
	Max   int
}

// NewHearts returns an empty field capped at max hearts.
func NewHearts(gen Generator, max int) Hearts {
	if max <= 0 {
		max = DefaultMaxHearts
	}
	return Hearts{gen: gen, Max: max}
}

// Len returns the number of live hearts.
func (h *Hearts) Len() int { return len(h.items) }

// Items returns the live hearts.
func (h *Hearts) Items() []Heart { return h.items }

// Spawn adds one heart at the bottom of a w×ht area. It reports whether a
// heart was added.
func (h *Hearts) Spawn(w, ht int) bool {
	if h.gen == nil || w <= 0 || ht <= 0 || len(h.items) >= h.Max {
		return false
	}
	life := time.Duration(Between(h.gen, 4, 8) * float64(time.Second))
	frames := float64(life / FrameInterval)
	h.items = append(h.items, Heart{
		X:     h.gen.Intn(w),
		Y:     float64(ht - 1),
		Speed: float64(ht) / max(frames, 1),
		Drift: Between(h.gen, 0, 2),
		Glyph: Pick(h.gen, HeartGlyphs),
		Color: Pick(h.gen, Palette),
		Life:  life,
	})
	return true
}

// Step advances every heart by one frame and drops the expired ones.
func (h *Hearts) Step() {
	kept := h.items[:0]
	for _, ht := range h.items {
		ht.Age += FrameInterval
		ht.Y -= ht.Speed
		if ht.Age >= ht.Life || ht.Y < 0 {
			continue
		}
		kept = append(kept, ht)
	}
	h.items = kept
}

// Clear removes every heart.
func (h *Hearts) Clear() {
	h.items = nil
}

// Draw paints the hearts onto c.
func (h *Hearts) Draw(c *Canvas) {
	for _, ht := range h.items {
		sway := ht.Drift * math.Sin(ht.Age.Seconds()*2)
		c.Set(ht.X+int(math.Round(sway)), int(ht.Y), ht.Glyph, ht.Color)
	}
}
