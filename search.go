package cowbtree

import "bytes"

// lookup returns the largest index i such that key(i) <= key
// (spec.md §4.C). In an Internal node this is the child to descend
// into; in a Leaf it is the exact slot (if key(i) == key) or the
// predecessor slot otherwise.
//
// Comparison is Go's native byte-slice ordering (bytes.Compare), which
// already implements "unsigned lexicographic, ties broken by shorter
// string < longer string" — exactly the rule spec.md §4.C asks for, so
// no custom comparator is needed.
//
// Every tree contains the empty sentinel as the first key of the
// root's leftmost path (spec.md §3.3 invariant 1), so "key smaller than
// every stored key" cannot occur; lookup does not special-case it.
func lookup(p Page, key []byte) uint16 {
	n := p.Nkeys()
	assertf(n > 0, "lookup: empty node")

	// Binary search for the largest i with key(i) <= key.
	lo, hi := uint16(0), n-1
	for lo < hi {
		// +1 to bias the midpoint up, since we're looking for the
		// largest index satisfying the predicate.
		mid := lo + (hi-lo+1)/2
		if bytes.Compare(p.GetKey(mid), key) <= 0 {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
