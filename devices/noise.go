package devices

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultSeed seeds the error generator when repeatable errors are requested.
const DefaultSeed = 5489

// Noise injects normally distributed percentage error into measurements and
// commands. A nil *Noise adds no error.
type Noise struct {
	normal distuv.Normal
}

// NewNoise returns a generator seeded with seed.
func NewNoise(seed uint64) *Noise {
	return &Noise{normal: distuv.Normal{
		Mu:    0,
		Sigma: 1,
		Src:   rand.NewPCG(seed, seed),
	}}
}

// Apply returns value + N(0,1)*pct*value.
func (n *Noise) Apply(value, pct float64) float64 {
	if n == nil || pct == 0 {
		return value
	}
	return value + n.normal.Rand()*pct*value
}

// ApplyClamped is Apply limited to [lo, hi].
func (n *Noise) ApplyClamped(value, pct, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, n.Apply(value, pct)))
}
