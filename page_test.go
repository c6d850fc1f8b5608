package cowbtree

import (
	"bytes"
	"testing"
)

func buildLeaf(t *testing.T, entries [][2]string) Page {
	t.Helper()
	p := newPage(PageSize)
	p.SetHeader(NodeLeaf, uint16(len(entries)))
	var pos uint16
	for i, e := range entries {
		pos = appendKV(p, uint16(len(entries)), uint16(i), pos, 0, []byte(e[0]), []byte(e[1]))
	}
	return p
}

func TestPageCodecRoundTrip(t *testing.T) {
	entries := [][2]string{
		{"", ""},
		{"apple", "1"},
		{"banana", "2"},
		{"cherry", "3"},
	}
	p := buildLeaf(t, entries)

	if got := p.NodeType(); got != NodeLeaf {
		t.Fatalf("NodeType() = %d, want %d", got, NodeLeaf)
	}
	if got := p.Nkeys(); got != uint16(len(entries)) {
		t.Fatalf("Nkeys() = %d, want %d", got, len(entries))
	}
	for i, e := range entries {
		if got := string(p.GetKey(uint16(i))); got != e[0] {
			t.Errorf("GetKey(%d) = %q, want %q", i, got, e[0])
		}
		if got := string(p.GetVal(uint16(i))); got != e[1] {
			t.Errorf("GetVal(%d) = %q, want %q", i, got, e[1])
		}
	}

	// entrySize already counts each entry's pointer and offset slots.
	wantBytes := headerSize
	for _, e := range entries {
		wantBytes += entrySize([]byte(e[0]), []byte(e[1]))
	}
	if got := int(p.Nbytes()); got != wantBytes {
		t.Errorf("Nbytes() = %d, want %d", got, wantBytes)
	}
}

func TestGetKeyCopyIsIndependent(t *testing.T) {
	p := buildLeaf(t, [][2]string{{"", ""}, {"k", "v"}})
	cp := p.GetKeyCopy(1)
	cp[0] = 'z'
	if got := string(p.GetKey(1)); got != "k" {
		t.Fatalf("mutating a copy changed the page's backing array: %q", got)
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	p := buildLeaf(t, [][2]string{{"", ""}, {"k", "v"}})
	truncated := p[:kvAreaStart(2)+1]
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Validate on a truncated page did not panic")
		}
	}()
	truncated.Validate()
}

func TestPtrAtOutOfRangePanics(t *testing.T) {
	p := buildLeaf(t, [][2]string{{"", ""}})
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("PtrAt past nkeys did not panic")
		}
	}()
	_ = p.PtrAt(5)
}

func TestInternalEntriesCarryPointers(t *testing.T) {
	p := newPage(PageSize)
	p.SetHeader(NodeInternal, 2)
	var pos uint16
	pos = appendKV(p, 2, 0, pos, 10, []byte(""), nil)
	appendKV(p, 2, 1, pos, 20, []byte("m"), nil)

	if got := p.PtrAt(0); got != 10 {
		t.Errorf("PtrAt(0) = %d, want 10", got)
	}
	if got := p.PtrAt(1); got != 20 {
		t.Errorf("PtrAt(1) = %d, want 20", got)
	}
	if got := p.GetVal(1); !bytes.Equal(got, nil) {
		t.Errorf("GetVal(1) = %v, want empty", got)
	}
}
