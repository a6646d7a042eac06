package effects

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// fallbackSeed is used when the system random source is unavailable.
const fallbackSeed int64 = 0x14_02_2026

// Generator is the source of randomness for decorations. It is seeded apart
// from application state; tests only need values to land in range.
type Generator interface {
	// Intn returns a value in [0, n). It returns 0 when n <= 0.
	Intn(n int) int
	// Float64 returns a value in [0, 1).
	Float64() float64
}

type pcgGenerator struct {
	r *rand.Rand
}

// NewGenerator returns a deterministic generator for seed.
func NewGenerator(seed int64) Generator {
	s := uint64(seed)
	return &pcgGenerator{r: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// SeededGenerator returns a generator from NewSeed, or from a fixed seed if
// the system source fails. A non-zero seed is used as given.
func SeededGenerator(seed int64) Generator {
	if seed != 0 {
		return NewGenerator(seed)
	}
	s, err := NewSeed()
	if err != nil {
		s = fallbackSeed
	}
	return NewGenerator(s)
}

func (g *pcgGenerator) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return g.r.IntN(n)
}

func (g *pcgGenerator) Float64() float64 {
	return g.r.Float64()
}

// Between returns a float in [lo, hi).
func Between(g Generator, lo, hi float64) float64 {
	return lo + g.Float64()*(hi-lo)
}

// Pick returns a random element of list, or the zero value for an empty one.
func Pick[T any](g Generator, list []T) T {
	var zero T
	if len(list) == 0 {
		return zero
	}
	return list[g.Intn(len(list))]
}
