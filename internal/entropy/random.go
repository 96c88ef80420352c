// Package entropy provides the seeded random source behind every roll in a
// game. The source state is serialized into saves so that a loaded game
// continues exactly as the original would have.
package entropy

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	mrand "math/rand/v2"
)

// Rand is the subset of the source the subsystems draw from.
type Rand interface {
	Float() float64
	IntN(n int) int
	Range(lo, hi int) int
	Uniform(lo, hi float64) float64
	Chance(p float64) bool
}

// Source is a deterministic PCG stream.
type Source struct {
	pcg *mrand.PCG
	r   *mrand.Rand
}

// New seeds a source. The same seed always yields the same stream.
func New(seed uint64) *Source {
	pcg := mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Source{pcg: pcg, r: mrand.New(pcg)} // #nosec G404 -- game rolls, not secrets
}

// SeedFromString hashes a textual seed (e.g. a province name) into a numeric one.
func SeedFromString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// Float returns a value in [0, 1).
func (s *Source) Float() float64 {
	return s.r.Float64()
}

// IntN returns a value in [0, n). Non-positive n yields 0.
func (s *Source) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.IntN(n)
}

// Range returns a value in [lo, hi], inclusive on both ends.
func (s *Source) Range(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + s.r.IntN(hi-lo+1)
}

// Uniform returns a value in [lo, hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.r.Float64()
}

// Chance returns true with probability p.
func (s *Source) Chance(p float64) bool {
	return s.r.Float64() < p
}

// Weighted picks an index with probability proportional to its weight.
// Returns -1 when every weight is zero.
func Weighted(r Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return -1
	}
	roll := r.IntN(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if roll < w {
			return i
		}
		roll -= w
	}
	return len(weights) - 1
}

// MarshalText encodes the generator state.
func (s *Source) MarshalText() ([]byte, error) {
	raw, err := s.pcg.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal pcg: %w", err)
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(out, raw)
	return out, nil
}

// UnmarshalText restores a state written by MarshalText.
func (s *Source) UnmarshalText(text []byte) error {
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(raw, text)
	if err != nil {
		return fmt.Errorf("decode rng state: %w", err)
	}
	pcg := &mrand.PCG{}
	if err := pcg.UnmarshalBinary(raw[:n]); err != nil {
		return fmt.Errorf("restore pcg: %w", err)
	}
	s.pcg = pcg
	s.r = mrand.New(pcg) // #nosec G404 -- game rolls, not secrets
	return nil
}

// CryptoSeed returns a seed from crypto/rand for games started without one.
func CryptoSeed() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0x5eed
	}
	return binary.LittleEndian.Uint64(buf[:])
}
