// Package set is a small generic bitset keyed by any ~int identifier type,
// sized for one specific job in this module: tmc's ambiguity check asks
// "how many of a Makeblock's arguments have TMC calls", a question
// answered by setting one bit per argument position that has them and
// checking Size() > 1.
package set

import "math/bits"

// Key is any identifier-like type a Bits can be keyed by.
type Key interface {
	~int
}

// Bits is a growable bitset over small non-negative K values (argument
// positions, block tags — never a full identifier space, which belongs in
// occur.Table instead).
type Bits[K Key] struct {
	w []uint64
}

// Set marks k present.
func (s *Bits[K]) Set(k K) {
	i, j := s.index(k)
	s.grow(i)
	s.w[i] |= 1 << j
}

// IsSet reports whether k is present.
func (s *Bits[K]) IsSet(k K) bool {
	i, j := s.index(k)
	if i >= len(s.w) {
		return false
	}
	return s.w[i]&(1<<j) != 0
}

// Size returns the number of set bits.
func (s *Bits[K]) Size() (n int) {
	for _, w := range s.w {
		n += bits.OnesCount64(w)
	}
	return n
}

// Only returns the sole set bit and true if Size() == 1, else the zero
// value and false — the exact question tmc's ambiguity check asks.
func (s *Bits[K]) Only() (K, bool) {
	if s.Size() != 1 {
		var zero K
		return zero, false
	}

	for i, w := range s.w {
		if w == 0 {
			continue
		}

		j := bits.TrailingZeros64(w)

		return K(i*64 + j), true
	}

	var zero K
	return zero, false
}

func (s *Bits[K]) index(k K) (i, j int) {
	p := int(k)
	return p / 64, p % 64
}

func (s *Bits[K]) grow(i int) {
	for i >= len(s.w) {
		s.w = append(s.w, 0)
	}
}
