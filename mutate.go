package cowbtree

import (
	"bytes"

	"github.com/copybtree/cowbtree/store"
)

// Tree mutator (spec.md §4.E): recursive insert/delete along the
// root-to-leaf path. Every rebuilt page is handed to tx, which owns
// allocation/retirement bookkeeping for the in-progress mutation
// (spec.md §5: "within one mutation, all child allocate calls complete
// before the parent is allocated; the root is allocated last").

// tx bundles the store together with the running mutation so
// treeInsert/treeDelete don't have to pass both separately through
// every recursive call.
type tx struct {
	store store.Store
}

func (x *tx) load(ptr PagePtr) Page {
	p := Page(x.store.Get(ptr))
	p.Validate()
	return p
}

func (x *tx) allocate(p Page) PagePtr {
	return x.store.Allocate(p)
}

func (x *tx) retire(ptr PagePtr) {
	x.store.Del(ptr)
}

// treeInsert implements spec.md §4.E.1. The returned node may be
// oversized up to 2·PageSize; split3 is applied by the caller (either
// the recursive Internal case below, or the root coordinator).
func (x *tx) treeInsert(node Page, key, val []byte) Page {
	idx := lookup(node, key)

	if node.NodeType() == NodeLeaf {
		newp := newPage(2 * PageSize)
		if bytes.Equal(node.GetKey(idx), key) {
			leafUpdate(newp, node, idx, key, val)
		} else {
			// lookup returned the predecessor slot; by invariant a
			// strictly-smaller predecessor always exists (the
			// sentinel, if nothing else), so idx+1 is always valid.
			leafInsert(newp, node, idx+1, key, val)
		}
		return newp
	}

	childPtr := node.PtrAt(idx)
	child := x.load(childPtr)
	x.retire(childPtr)

	newChild := x.treeInsert(child, key, val)
	pieces := split3(newChild)

	return x.nodeReplaceKidN(node, idx, pieces)
}

// nodeReplaceKidN rebuilds an Internal node, replacing the single
// child at idx with one entry per piece (spec.md §4.E.1's
// node_replace_kid_n, and reused by §4.E.2's dir==0 case).
func (x *tx) nodeReplaceKidN(node Page, idx uint16, pieces []Page) Page {
	oldN := node.Nkeys()
	n := oldN - 1 + uint16(len(pieces))
	// An Internal work buffer only ever grows by a bounded separator
	// key per extra piece (at most 2 extra pieces from one split3), so
	// 2·PageSize is always enough headroom without measuring exactly —
	// the same "allocate big, trim later" idiom spec.md §9 recommends.
	newp := newPage(2 * PageSize)
	newp.SetHeader(NodeInternal, n)

	var pos uint16
	pos = appendRange(newp, node, n, 0, 0, idx, pos)
	for i, piece := range pieces {
		ptr := x.allocate(piece)
		key := piece.GetKey(0)
		pos = internalPut(newp, n, idx+uint16(i), pos, ptr, key)
	}
	appendRange(newp, node, n, idx+uint16(len(pieces)), idx+1, oldN-idx-1, pos)

	return newp
}

// treeDelete implements spec.md §4.E.2. The bool return is false iff
// key was not found ("⊥" in the spec's notation); in that case the
// Page return value is nil and must not be used.
func (x *tx) treeDelete(node Page, key []byte) (Page, bool) {
	idx := lookup(node, key)

	if node.NodeType() == NodeLeaf {
		if !bytes.Equal(node.GetKey(idx), key) {
			return nil, false
		}
		newp := newPage(PageSize)
		leafDelete(newp, node, idx)
		return newp, true
	}

	childPtr := node.PtrAt(idx)
	child := x.load(childPtr)
	updated, found := x.treeDelete(child, key)
	if !found {
		return nil, false
	}
	x.retire(childPtr)

	// updated may have been emptied to zero entries (its last non-
	// sentinel key was the one just deleted); that's not itself a ⊥
	// case (the key WAS found and removed), it just means this slot
	// merges with a sibling or, lacking one, drops out of node
	// entirely (spec.md §9: "when a child becomes entirely empty, the
	// parent drops the slot"). mergedSize(updated, sibling) reduces to
	// sibling.Nbytes() whenever updated is empty, which is always
	// <= PageSize, so this merges with any existing sibling
	// unconditionally; mergeNone only arises when idx has no sibling
	// at all, i.e. node itself has exactly one child.
	var loadedSibling Page
	dir, siblingIdx := shouldMerge(node, idx, updated, func(i uint16) Page {
		loadedSibling = x.load(node.PtrAt(i))
		return loadedSibling
	})

	switch dir {
	case mergeLeft:
		leftPtr := node.PtrAt(siblingIdx)
		merged := newPage(PageSize)
		nodeMerge(merged, loadedSibling, updated)
		x.retire(leftPtr)
		mergedPtr := x.allocate(merged)
		return x.nodeReplace2Kid(node, siblingIdx, mergedPtr, merged.GetKey(0)), true

	case mergeRight:
		rightPtr := node.PtrAt(siblingIdx)
		merged := newPage(PageSize)
		nodeMerge(merged, updated, loadedSibling)
		x.retire(rightPtr)
		mergedPtr := x.allocate(merged)
		return x.nodeReplace2Kid(node, idx, mergedPtr, merged.GetKey(0)), true

	default:
		var pieces []Page
		if updated.Nkeys() > 0 {
			pieces = []Page{updated}
		}
		// If node had exactly one child (split2 can leave a one-entry
		// left piece, so this occurs below the root too) and that
		// child emptied with no sibling to absorb it, the rebuilt node
		// is itself Internal
		// with zero keys. That is spec.md §9's "internal node with
		// nkeys==0" case: it is not a failed delete, it is the same
		// empty-slot signal one level further up, and Tree.Delete's
		// root handling collapses it the rest of the way.
		//
		// nodeReplaceKidN's work buffer is sized 2·PageSize for its
		// insert-path reuse above; a delete only ever shrinks or
		// replaces one child in place, so the result always fits in
		// one page — trim it back down before it is persisted or
		// handed up another level, the same way split3's pieces are
		// trimmed on the insert path.
		return trim(x.nodeReplaceKidN(node, idx, pieces)), true
	}
}

// nodeReplace2Kid implements spec.md §4.E.3: nkeys = nkeys(old)-1,
// replacing the two entries [idx, idx+1] with a single merged child.
func (x *tx) nodeReplace2Kid(old Page, idx uint16, mergedPtr PagePtr, mergedFirstKey []byte) Page {
	oldN := old.Nkeys()
	n := oldN - 1
	newp := newPage(PageSize)
	newp.SetHeader(NodeInternal, n)

	var pos uint16
	pos = appendRange(newp, old, n, 0, 0, idx, pos)
	pos = internalPut(newp, n, idx, pos, mergedPtr, mergedFirstKey)
	appendRange(newp, old, n, idx+1, idx+2, oldN-idx-2, pos)

	return newp
}

