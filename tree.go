package cowbtree

import (
	"bytes"

	"github.com/copybtree/cowbtree/store"
)

// Tree is a copy-on-write B+-tree (spec.md §3.1). Its only mutable
// state is Root; Store is the page-store collaborator supplied by the
// host. The zero value (Root == 0, Store == nil) is an empty tree that
// becomes usable once Store is set.
type Tree struct {
	Root  PagePtr
	Store store.Store
}

// New returns an empty Tree backed by s.
func New(s store.Store) *Tree {
	return &Tree{Store: s}
}

func checkKey(key []byte) {
	assertf(len(key) > 0 && len(key) <= MaxKeySize, "key length %d out of bounds (1..%d)", len(key), MaxKeySize)
}

func checkVal(val []byte) {
	assertf(len(val) <= MaxValSize, "value length %d exceeds MaxValSize %d", len(val), MaxValSize)
}

// Insert inserts or overwrites (key, val) (spec.md §6.1, §4.F
// "Insert"). Idempotent on (key, val) pairs; overwrites on duplicate
// key.
func (t *Tree) Insert(key, val []byte) {
	checkKey(key)
	checkVal(val)

	x := &tx{store: t.Store}

	if t.Root == 0 {
		root := newPage(PageSize)
		root.SetHeader(NodeLeaf, 2)
		var pos uint16
		pos = appendKV(root, 2, 0, pos, 0, nil, nil)
		appendKV(root, 2, 1, pos, 0, key, val)
		t.Root = x.allocate(root)
		return
	}

	oldRoot := x.load(t.Root)
	x.retire(t.Root)

	newRoot := x.treeInsert(oldRoot, key, val)
	pieces := split3(newRoot)

	if len(pieces) == 1 {
		t.Root = x.allocate(pieces[0])
		return
	}

	root := newPage(PageSize)
	root.SetHeader(NodeInternal, uint16(len(pieces)))
	var pos uint16
	for i, piece := range pieces {
		ptr := x.allocate(piece)
		pos = internalPut(root, uint16(len(pieces)), uint16(i), pos, ptr, piece.GetKey(0))
	}
	t.Root = x.allocate(root)
}

// Delete removes key, returning true iff it existed (spec.md §6.1,
// §4.F "Delete").
func (t *Tree) Delete(key []byte) bool {
	checkKey(key)

	if t.Root == 0 {
		return false
	}

	x := &tx{store: t.Store}
	oldRoot := x.load(t.Root)

	newRoot, found := x.treeDelete(oldRoot, key)
	if !found {
		return false
	}
	x.retire(t.Root)

	// Root collapse: an Internal root left with exactly one child
	// becomes that child (spec.md §4.F "Delete"), decreasing tree
	// depth by one. The child's leftmost leaf already carries the
	// sentinel — it was always the tree's leftmost leaf — so no
	// further fix-up is required (spec.md §9).
	if newRoot.NodeType() == NodeInternal && newRoot.Nkeys() == 1 {
		childPtr := newRoot.PtrAt(0)
		t.Root = childPtr
		return true
	}

	// Defensive: an Internal root can only reach zero children if it
	// held exactly one to begin with and that child also emptied out
	// with nothing to merge into (spec.md §9's "internal node with
	// nkeys==0"). Eager merging and the collapse above keep this from
	// arising in steady state, but nothing is left to allocate either
	// way, so treat the tree as empty rather than persist a husk page.
	if newRoot.NodeType() == NodeInternal && newRoot.Nkeys() == 0 {
		t.Root = 0
		return true
	}

	t.Root = x.allocate(newRoot)
	return true
}

// Get returns the value stored for key, or (nil, false) if absent
// (spec.md §6.1, §4.F "Get").
func (t *Tree) Get(key []byte) ([]byte, bool) {
	checkKey(key)

	if t.Root == 0 {
		return nil, false
	}

	x := &tx{store: t.Store}
	node := x.load(t.Root)
	for node.NodeType() == NodeInternal {
		idx := lookup(node, key)
		node = x.load(node.PtrAt(idx))
	}

	idx := lookup(node, key)
	if !bytes.Equal(node.GetKey(idx), key) {
		return nil, false
	}
	return node.GetValCopy(idx), true
}
