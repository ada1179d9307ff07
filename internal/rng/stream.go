// Package rng provides the single seeded random stream every icon draws from.
//
// Output depends only on the seed and on the order of calls. Callers must not
// reorder draws: the images produced for existing inputs would change.
package rng

import "math/rand/v2"

const golden = 0x9e3779b97f4a7c15

// source is a counter-based SplitMix64 generator. The i-th output is the
// SplitMix64 finalizer applied to seed + i*golden.
type source struct {
	seed    uint64
	counter uint64
}

func (s *source) Uint64() uint64 {
	s.counter++
	return mix64(s.seed + s.counter*golden)
}

func mix64(z uint64) uint64 {
	z ^= z >> 30
	z *= 0xbf58476d1ce4e5b9
	z ^= z >> 27
	z *= 0x94d049bb133111eb
	z ^= z >> 31
	return z
}

// Stream wraps math/rand/v2 around the counter source.
type Stream struct {
	src *source
	r   *rand.Rand
}

// New creates a stream seeded from a 32-bit input hash.
func New(seed uint32) *Stream {
	src := &source{seed: uint64(seed)}
	return &Stream{src: src, r: rand.New(src)}
}

// Uint64 returns the next raw 64-bit output.
func (s *Stream) Uint64() uint64 {
	return s.r.Uint64()
}

// Uint32 returns the high 32 bits of the next output.
func (s *Stream) Uint32() uint32 {
	return s.r.Uint32()
}

// Bool returns true with probability p.
func (s *Stream) Bool(p float64) bool {
	return s.r.Float64() < p
}

// IntN returns a uniform int in [0, n).
func (s *Stream) IntN(n int) int {
	return s.r.IntN(n)
}

// Draws reports how many raw outputs have been consumed.
func (s *Stream) Draws() uint64 {
	return s.src.counter
}

// Choose returns a uniformly chosen element of items.
func Choose[T any](s *Stream, items []T) T {
	return items[s.IntN(len(items))]
}
