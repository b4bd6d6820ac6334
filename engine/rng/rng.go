// Package rng provides the engine's random sources: a deterministic,
// position-tracked generator for play and a scripted source for tests.
package rng

import (
	"math"
	"math/rand"
)

// Source is the randomness every resolver draws from.
type Source interface {
	// Float64 returns a number in [0, 1).
	Float64() float64
	// Intn returns a number in [0, n).
	Intn(n int) int
}

// countingSource counts every Int63 drawn from the underlying source,
// including rejection-sampling retries inside rand.Rand.
type countingSource struct {
	src rand.Source
	n   int64
}

func (c *countingSource) Int63() int64 {
	c.n++
	return c.src.Int63()
}

func (c *countingSource) Seed(seed int64) {
	c.src.Seed(seed)
	c.n = 0
}

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position counts raw draws, enabling exact save/restore.
type RNG struct {
	seed int64
	cs   *countingSource
	src  *rand.Rand
}

// New creates a new deterministic RNG from a seed.
func New(seed int64) *RNG {
	cs := &countingSource{src: rand.NewSource(seed)}
	return &RNG{
		seed: seed,
		cs:   cs,
		src:  rand.New(cs),
	}
}

// Float64 returns a number in [0, 1).
func (r *RNG) Float64() float64 {
	return r.src.Float64()
}

// Intn returns a number in [0, n). n <= 0 returns 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.src.Intn(n)
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of raw draws made since creation.
func (r *RNG) Position() int64 {
	return r.cs.n
}

// Restore creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func Restore(seed int64, position int64) *RNG {
	r := New(seed)
	for i := int64(0); i < position; i++ {
		r.cs.Int63()
	}
	return r
}

// Chance reports whether a draw lands under p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

const thresholdPrecision = 1e9

// Bucket picks an index by cumulative threshold over one Float64 draw.
// chances should sum to 1; any remainder falls into the last bucket.
// Running totals are rounded to thresholdPrecision so 0.01+0.05 is exactly 0.06.
func Bucket(src Source, chances []float64) int {
	roll := src.Float64()
	cumulative := 0.0
	for i, c := range chances {
		cumulative = math.Round((cumulative+c)*thresholdPrecision) / thresholdPrecision
		if roll < cumulative {
			return i
		}
	}
	return len(chances) - 1
}
