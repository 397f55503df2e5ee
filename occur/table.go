// Package occur is a generic bitset-flavored counter keyed by any ~int
// identifier type, generalized from pure set membership to weighted
// occurrence counting. No pass in this module imports it: exitsimpl and
// letsimpl keep their Phase A counts in plain Go maps, and lift records
// call-site facts on its own candidate structs.
package occur

// Key is any identifier-like type a Table can be keyed by.
type Key interface {
	~int
}

// Table counts occurrences per key, incrementing by an arbitrary weight
// (e.g. weighted by the dynamic-try depth stack at the occurrence site).
type Table[K Key] struct {
	counts map[K]int
}

// New returns an empty Table.
func New[K Key]() *Table[K] {
	return &Table[K]{counts: make(map[K]int)}
}

// Inc adds by to k's count (by may be negative to undo a speculative count).
func (t *Table[K]) Inc(k K, by int) {
	t.counts[k] += by
}

// Count returns k's current count, 0 if k was never touched.
func (t *Table[K]) Count(k K) int {
	return t.counts[k]
}

// Delete removes k's entry entirely, distinguishing "never seen" from
// "seen, count dropped to 0" for callers that care (neither exitsimpl nor
// letsimpl do, but a Table used as a plain visited-set does via Has).
func (t *Table[K]) Delete(k K) {
	delete(t.counts, k)
}

// Has reports whether k has ever been counted.
func (t *Table[K]) Has(k K) bool {
	_, ok := t.counts[k]
	return ok
}

// Range calls f for every key with a nonzero count, in unspecified order.
// No pass may depend on the order Range delivers keys in.
func (t *Table[K]) Range(f func(k K, count int)) {
	for k, c := range t.counts {
		if c == 0 {
			continue
		}
		f(k, c)
	}
}
