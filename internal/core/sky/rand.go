package sky

import "math/rand/v2"

// Rand is the random source augmentation draws from
// *rand.Rand from math/rand/v2 satisfies it
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// NewRand returns a deterministic source for the given seed
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SystemRand returns the process-wide source, safe for concurrent use
func SystemRand() Rand { return systemRand{} }

type systemRand struct{}

func (systemRand) IntN(n int) int   { return rand.IntN(n) }
func (systemRand) Float64() float64 { return rand.Float64() }
