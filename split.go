package cowbtree

// Split/Merge (spec.md §4.D). These operate on in-memory work buffers
// that may transiently hold up to 2·PageSize bytes before being
// reshaped back under PageSize — see the note in spec.md §9 on
// oversize transient buffers.

// split2 breaks an overflowing work page into (left, right) such that
// right fits in one page and left holds the remainder. The split
// point is the largest suffix of entries whose encoded size fits in
// PageSize; everything before that boundary becomes left.
func split2(old Page) (left, right Page) {
	n := old.Nkeys()
	assertf(n >= 2, "split2: cannot split a node with %d entries", n)

	// Scan from the high end, accumulating encoded size, until the
	// next entry would overflow PageSize.
	size := headerSize
	boundary := n
	for boundary > 0 {
		key := old.GetKey(boundary - 1)
		val := old.GetVal(boundary - 1)
		next := size + entrySize(key, val)
		if next > PageSize && boundary < n {
			break
		}
		size = next
		boundary--
	}
	assertf(boundary < n, "split2: no entry boundary found in a %d-byte page", old.Nbytes())

	rightN := n - boundary
	right = newPage(PageSize)
	buildRange(right, old, 0, boundary, rightN)

	left = newPage(2 * PageSize)
	buildRange(left, old, 0, 0, boundary)

	return left, right
}

// buildRange is a small wrapper used by split2/split3 to build a
// standalone page out of a contiguous slice of another page's entries.
func buildRange(dst, src Page, dstStart, srcStart, count uint16) {
	dst.SetHeader(src.NodeType(), count)
	appendRange(dst, src, count, dstStart, srcStart, count, 0)
}

// split3 returns 1 to 3 page-sized pages for old (spec.md §4.D.2).
func split3(old Page) []Page {
	if old.Nbytes() <= PageSize {
		return []Page{trim(old)}
	}

	left, right := split2(old)
	if left.Nbytes() <= PageSize {
		return []Page{trim(left), trim(right)}
	}

	leftleft, middle := split2(left)
	return []Page{trim(leftleft), trim(middle), trim(right)}
}

// trim returns a page's content sized exactly to PageSize, copying
// down if the work buffer was allocated larger.
func trim(p Page) Page {
	assertf(int(p.Nbytes()) <= PageSize, "trim: page of %d bytes exceeds PageSize", p.Nbytes())
	if len(p) == PageSize {
		return p
	}
	out := newPage(PageSize)
	copy(out, p[:p.Nbytes()])
	return out
}

// mergeDirection is the outcome of shouldMerge: which sibling (if any)
// a freshly rebuilt child should be combined with.
type mergeDirection int

const (
	mergeNone  mergeDirection = 0
	mergeLeft  mergeDirection = -1
	mergeRight mergeDirection = 1
)

// shouldMerge decides whether a rebuilt child at idx should be merged
// with a sibling (spec.md §4.D.3). The left sibling is preferred
// whenever it fits, which is a deliberate, deterministic choice
// (spec.md §9: "sibling selection preference").
//
// This implements the "eager" variant spec.md §9's open question
// recommends: merge whenever a sibling fits in one page, rather than
// only below a PageSize/4 underflow threshold.
//
// get loads a sibling's page content by its slot index in parent; the
// tree mutator supplies one backed by the store (mutate.go).
func shouldMerge(parent Page, idx uint16, updated Page, get func(siblingIdx uint16) Page) (mergeDirection, uint16) {
	if idx > 0 {
		sibling := get(idx - 1)
		if mergedSize(updated, sibling) <= PageSize {
			return mergeLeft, idx - 1
		}
	}
	if idx+1 < parent.Nkeys() {
		sibling := get(idx + 1)
		if mergedSize(updated, sibling) <= PageSize {
			return mergeRight, idx + 1
		}
	}
	return mergeNone, 0
}

// mergedSize is the byte count of the page that would result from
// merging a and b: their live bytes minus one shared header.
func mergedSize(a, b Page) int {
	return int(a.Nbytes()) + int(b.Nbytes()) - headerSize
}
