package effects

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

const (
	gravity      = 0.12
	particleTTL  = 40
	maxParticles = 600
	// Terminal cells are roughly twice as tall as wide.
	cellAspect = 2.0
)

// ConfettiGlyphs are the particle shapes.
var ConfettiGlyphs = []string{"•", "*", "✦", "+", "♥", "▪"}

// Particle is one confetti piece, in cell coordinates.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Glyph  string
	Color  lipgloss.TerminalColor
	TTL    int
}

// Burst describes one emission. Origin is a fraction of the canvas (0..1 on
// each axis). Angle is in degrees with 90 pointing straight up, like the
// browser confetti library it mimics.
type Burst struct {
	Count   int
	OriginX float64
	OriginY float64
	Angle   float64
	Spread  float64
}

// Confetti is a set of particles falling under gravity.
type Confetti struct {
	gen   Generator
	parts []Particle
}

// NewConfetti returns an empty particle set.
func NewConfetti(gen Generator) Confetti {
	return Confetti{gen: gen}
}

// Len returns the number of live particles.
func (c *Confetti) Len() int { return len(c.parts) }

// Particles returns the live particles.
func (c *Confetti) Particles() []Particle { return c.parts }

// Emit launches b into a w×h area.
func (c *Confetti) Emit(b Burst, w, h int) {
	if c.gen == nil || w <= 0 || h <= 0 {
		return
	}
	if b.Angle == 0 {
		b.Angle = 90
	}
	ox := b.OriginX * float64(w-1)
	oy := b.OriginY * float64(h-1)
	for i := 0; i < b.Count && len(c.parts) < maxParticles; i++ {
		angle := (b.Angle + (c.gen.Float64()-0.5)*b.Spread) * math.Pi / 180
		speed := Between(c.gen, 0.6, 1.6)
		c.parts = append(c.parts, Particle{
			X:     ox,
			Y:     oy,
			VX:    math.Cos(angle) * speed * cellAspect,
			VY:    -math.Sin(angle) * speed,
			Glyph: Pick(c.gen, ConfettiGlyphs),
			Color: Pick(c.gen, Palette),
			TTL:   particleTTL,
		})
	}
}

// Step moves every particle one frame and drops those that left the area or
// expired.
func (c *Confetti) Step(w, h int) {
	kept := c.parts[:0]
	for _, p := range c.parts {
		p.VY += gravity
		p.VX *= 0.96
		p.X += p.VX
		p.Y += p.VY
		p.TTL--
		if p.TTL <= 0 || p.X < 0 || p.X >= float64(w) || p.Y >= float64(h) {
			continue
		}
		kept = append(kept, p)
	}
	c.parts = kept
}

// Clear removes every particle.
func (c *Confetti) Clear() {
	c.parts = nil
}

// Draw paints the particles onto cv. Particles above the top edge are kept
// alive (they may fall back) but not drawn.
func (c *Confetti) Draw(cv *Canvas) {
	for _, p := range c.parts {
		cv.Set(int(p.X), int(p.Y), p.Glyph, p.Color)
	}
}

// Cannons returns the pair of side bursts used for streaming celebrations:
// one from the left edge aimed up-right, one from the right aimed up-left.
func Cannons(perSide int) []Burst {
	return []Burst{
		{Count: perSide, OriginX: 0, OriginY: 0.9, Angle: 60, Spread: 55},
		{Count: perSide, OriginX: 1, OriginY: 0.9, Angle: 120, Spread: 55},
	}
}
