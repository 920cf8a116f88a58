/*
Package game
File: mechanics.go
Description:
    Contains the randomness and geometry helpers shared by the rules engine.
    All gameplay randomness (lucky rolls, event selection, target placement,
    event intervals) flows through the injected Rand so runs can be replayed
    from a seed.
*/

package game

import "math/rand"

// Rand is the only source of non-determinism the core uses.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64 // uniform in [0, 1)
	Intn(n int) int   // uniform in [0, n)
}

// NewRand returns a seeded source.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// uniform draws a real number in [lo, hi].
func uniform(r Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Float64()*(hi-lo)
}

// intBetween draws an integer in [lo, hi], both inclusive.
func intBetween(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// distanceSq is the squared Euclidean distance between two points.
// Hit tests compare against radius^2 to avoid the square root.
func distanceSq(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
