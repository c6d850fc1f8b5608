package cowbtree

import (
	"encoding/binary"

	"github.com/copybtree/cowbtree/store"
)

// PagePtr is the core's alias for the store's opaque page identifier,
// so callers never need to import both packages just to spell the type.
type PagePtr = store.PagePtr

// Page is a decoded view over a page buffer (spec.md §3.2):
//
//	offset  size   field
//	 0       2     node_type            (1 = Internal, 2 = Leaf)
//	 2       2     nkeys                (number of entries n)
//	 4       8·n   pointers[n]          (child PagePtrs; 0 for Leaf slots)
//	 4+8n    2·n   offsets[n]           (end offset of each KV payload,
//	                                    relative to the start of kv_area)
//	 kv_area n·(2+2+klen+vlen)          (key_len u16, val_len u16, key, val)
//
// Page is just a []byte; a work buffer may transiently be sized up to
// 2·PageSize before split.go reshapes it back under PageSize.
type Page []byte

// newPage allocates a work buffer of the given capacity, zeroed.
func newPage(size int) Page {
	return make(Page, size)
}

// NodeType returns the node_type field.
func (p Page) NodeType() uint16 {
	return binary.LittleEndian.Uint16(p[0:2])
}

// Nkeys returns the number of entries in the page.
func (p Page) Nkeys() uint16 {
	return binary.LittleEndian.Uint16(p[2:4])
}

// SetHeader writes node_type and nkeys. Callers must fill the
// pointer/offset/kv areas via the node editor primitives before the
// page is considered finalised.
func (p Page) SetHeader(nodeType, nkeys uint16) {
	binary.LittleEndian.PutUint16(p[0:2], nodeType)
	binary.LittleEndian.PutUint16(p[2:4], nkeys)
}

func (p Page) ptrPos(i uint16) int {
	return headerSize + int(i)*pointerSize
}

func (p Page) offsetPos(n, i uint16) int {
	return headerSize + int(n)*pointerSize + int(i)*offsetSize
}

// PtrAt returns the child PagePtr stored at slot i (zero for leaf
// slots). Indexing past Nkeys is a programming error.
func (p Page) PtrAt(i uint16) PagePtr {
	assertf(i < p.Nkeys(), "PtrAt: index %d out of range (nkeys=%d)", i, p.Nkeys())
	return PagePtr(binary.LittleEndian.Uint64(p[p.ptrPos(i):]))
}

// setPtrAt writes the child PagePtr at slot i. Used only by the node
// editor while building a page; i may index up to the page's declared
// nkeys (not yet validated against any prior content).
func (p Page) setPtrAt(i uint16, ptr PagePtr) {
	binary.LittleEndian.PutUint64(p[p.ptrPos(i):], uint64(ptr))
}

func (p Page) offsetAt(n, i uint16) uint16 {
	return binary.LittleEndian.Uint16(p[p.offsetPos(n, i):])
}

func (p Page) setOffsetAt(n, i uint16, off uint16) {
	binary.LittleEndian.PutUint16(p[p.offsetPos(n, i):], off)
}

// kvAreaStart returns the byte offset at which the kv_area begins,
// for a page declaring n entries.
func kvAreaStart(n uint16) int {
	return headerSize + int(n)*(pointerSize+offsetSize)
}

// KVPos returns the start offset of entry i within the page (i.e.
// kv_area start plus the running offset of the previous entry).
func (p Page) KVPos(i uint16) uint16 {
	n := p.Nkeys()
	assertf(i < n, "KVPos: index %d out of range (nkeys=%d)", i, n)
	start := kvAreaStart(n)
	if i == 0 {
		return uint16(start)
	}
	return uint16(start) + p.offsetAt(n, i-1)
}

// Nbytes returns the total encoded byte length of the page's live
// content (spec.md §3.2: "4 + 10·n + offsets[n-1]").
func (p Page) Nbytes() uint16 {
	n := p.Nkeys()
	if n == 0 {
		return uint16(kvAreaStart(0))
	}
	return uint16(kvAreaStart(n)) + p.offsetAt(n, n-1)
}

// entryHeader decodes the key_len/val_len prefix at kv-area offset pos.
func (p Page) entryHeader(pos uint16) (klen, vlen uint16) {
	if int(pos)+entryOverhead > len(p) {
		corruptf("entry header at %d exceeds buffer length %d", pos, len(p))
	}
	klen = binary.LittleEndian.Uint16(p[pos : pos+2])
	vlen = binary.LittleEndian.Uint16(p[pos+2 : pos+4])
	return
}

// GetKey returns a view of the key at slot i, borrowed from the page's
// backing array. The view is only valid while the page's owning
// snapshot is held; GetKeyCopy must be used for anything that outlives
// the current traversal.
func (p Page) GetKey(i uint16) []byte {
	pos := p.KVPos(i)
	klen, _ := p.entryHeader(pos)
	start := pos + entryOverhead
	return p[start : start+klen]
}

// GetKeyCopy returns an owned copy of the key at slot i.
func (p Page) GetKeyCopy(i uint16) []byte {
	view := p.GetKey(i)
	out := make([]byte, len(view))
	copy(out, view)
	return out
}

// GetVal returns a view of the value at slot i, borrowed from the
// page's backing array (empty for Internal node slots).
func (p Page) GetVal(i uint16) []byte {
	pos := p.KVPos(i)
	klen, vlen := p.entryHeader(pos)
	start := pos + entryOverhead + klen
	return p[start : start+vlen]
}

// GetValCopy returns an owned copy of the value at slot i.
func (p Page) GetValCopy(i uint16) []byte {
	view := p.GetVal(i)
	out := make([]byte, len(view))
	copy(out, view)
	return out
}

// Validate checks that p decodes to a structurally sound page: its
// declared node_type is known and its declared Nbytes fits within the
// buffer (spec.md §4.A: "decoding a page whose declared nbytes exceeds
// its buffer length is a corruption error (fatal)").
func (p Page) Validate() {
	if len(p) < headerSize {
		corruptf("page of %d bytes is shorter than the header", len(p))
	}
	switch p.NodeType() {
	case NodeInternal, NodeLeaf:
	default:
		corruptf("unknown node_type %d", p.NodeType())
	}
	if int(p.Nbytes()) > len(p) {
		corruptf("declared nbytes %d exceeds buffer length %d", p.Nbytes(), len(p))
	}
}

// entrySize is the encoded byte length of one (ptr, key, val) entry,
// including its pointer slot, offset slot, and length prefixes.
func entrySize(key, val []byte) int {
	return perEntryOverhead + len(key) + len(val)
}
