package cowbtree

import (
	"bytes"
	"testing"
)

func newRootTx(t *testing.T) (*tx, PagePtr) {
	t.Helper()
	s := newStubStore()
	x := &tx{store: s}

	root := newPage(PageSize)
	root.SetHeader(NodeLeaf, 1)
	appendKV(root, 1, 0, 0, 0, nil, nil)
	return x, x.allocate(root)
}

func TestTreeInsertStaysOnePieceUnderPageSize(t *testing.T) {
	x, rootPtr := newRootTx(t)
	root := x.load(rootPtr)

	// 40 entries of ~81 bytes plus the sentinel comfortably fit under
	// one PageSize (4096), so every insert should fold back to a
	// single piece.
	for i := 0; i < 40; i++ {
		key := []byte{byte(i / 256), byte(i % 256), 'k'}
		val := bytes.Repeat([]byte{byte(i)}, 64)
		grown := x.treeInsert(root, key, val)
		pieces := split3(grown)
		if len(pieces) != 1 {
			t.Fatalf("insert %d: split3 returned %d pieces, want 1", i, len(pieces))
		}
		root = pieces[0]
	}
	if root.NodeType() != NodeLeaf {
		t.Fatalf("root node type = %d, want NodeLeaf", root.NodeType())
	}
	if got := root.Nkeys(); got != 41 { // 40 inserts + sentinel
		t.Fatalf("Nkeys() = %d, want 41", got)
	}
}

func TestTreeInsertSplitsPastPageSize(t *testing.T) {
	x, rootPtr := newRootTx(t)
	root := x.load(rootPtr)

	sawSplit := false
	for i := 0; i < 80; i++ {
		key := []byte{byte(i / 256), byte(i % 256), 'k'}
		val := bytes.Repeat([]byte{byte(i)}, 64)
		grown := x.treeInsert(root, key, val)
		pieces := split3(grown)
		for j, piece := range pieces {
			if got := piece.Nbytes(); int(got) > PageSize {
				t.Errorf("insert %d piece %d: Nbytes() = %d, exceeds PageSize", i, j, got)
			}
		}
		if len(pieces) >= 2 {
			sawSplit = true
		}
		root = pieces[0]
	}
	if !sawSplit {
		t.Fatal("80 inserts of ~81 bytes each never triggered a split3 with >=2 pieces")
	}
}

func TestTreeDeleteOfOnlyRealKeyLeavesSentinel(t *testing.T) {
	x, rootPtr := newRootTx(t)
	root := x.load(rootPtr)

	inserted := x.treeInsert(root, []byte("a"), []byte("1"))
	pieces := split3(inserted)
	if len(pieces) != 1 {
		t.Fatalf("split3 returned %d pieces, want 1", len(pieces))
	}
	leaf := pieces[0]

	updated, found := x.treeDelete(leaf, []byte("a"))
	if !found {
		t.Fatal("treeDelete(\"a\") = false, want true")
	}
	if got := updated.Nkeys(); got != 1 {
		t.Fatalf("Nkeys() after deleting the only real key = %d, want 1 (sentinel)", got)
	}
	if got := string(updated.GetKey(0)); got != "" {
		t.Fatalf("remaining key = %q, want empty sentinel", got)
	}
}

func TestTreeDeleteOfAbsentKeyReturnsFalse(t *testing.T) {
	x, rootPtr := newRootTx(t)
	root := x.load(rootPtr)

	_, found := x.treeDelete(root, []byte("nope"))
	if found {
		t.Fatal("treeDelete of an absent key returned true")
	}
}
