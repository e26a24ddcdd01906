// Package random wraps a seeded PRNG with the helpers sketches reach for:
// ranges, signs, chances and picks. The same seed gives the same sequence.
package random

import "math/rand"

// Random is not safe for concurrent use.
type Random struct {
	seed int64
	rng  *rand.Rand
}

func New(seed int64) *Random {
	return &Random{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Seed() int64 { return r.seed }

// Reseed restarts the sequence from seed.
func (r *Random) Reseed(seed int64) {
	r.seed = seed
	r.rng.Seed(seed)
}

// Float is in [0,1).
func (r *Random) Float() float64 { return r.rng.Float64() }

// Number is in [lo,hi).
func (r *Random) Number(lo, hi float64) float64 { return lo + r.rng.Float64()*(hi-lo) }

// Integer is in [lo,hi], both inclusive.
func (r *Random) Integer(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + r.rng.Intn(hi-lo+1)
}

// Noise is in [-1,1).
func (r *Random) Noise() float64 { return r.Number(-1, 1) }

func (r *Random) Bool() bool { return r.rng.Float64() < 0.5 }

func (r *Random) Chance(p float64) bool { return r.rng.Float64() < p }

// Sign returns 1 with probability bias, else -1.
func (r *Random) Sign(bias float64) float64 {
	if r.Chance(bias) {
		return 1
	}
	return -1
}

// Int63 draws a seed for another generator.
func (r *Random) Int63() int64 { return r.rng.Int63() }

// Item picks one element; the zero value when items is empty.
func Item[T any](r *Random, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[r.rng.Intn(len(items))]
}
