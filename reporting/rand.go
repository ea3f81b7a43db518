package reporting

import "math/rand/v2"

// Rand is the source of randomness used for weighted endpoint
// selection and report sampling.  *rand.Rand from math/rand/v2
// satisfies it, so tests can pass a seeded generator.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// orDefault returns r, or the process-wide generator if r is nil.
func orDefault(r Rand) Rand {
	if r == nil {
		return globalRand{}
	}
	return r
}
