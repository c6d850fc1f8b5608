// Package store defines the page-store contract the B+-tree core is
// built against (spec.md §6.2). It deliberately knows nothing about
// node layout: pages cross this boundary as plain bytes, the same way
// interfaces.ParentBufMgr in the teacher repo hands back
// interfaces.ParentPage.DataAsSlice() rather than a typed node.
package store

// PagePtr is an opaque, non-zero identifier for a page a Store has
// allocated. Zero is reserved for "null/empty".
type PagePtr uint64

// Store is the sole external collaborator of the B+-tree core.
// Implementations are expected to be supplied by the host: an
// in-memory map for tests (storage/memstore), a real page file for
// production use (storage/filestore), or a caller's own mmap/WAL-backed
// allocator. The core calls Get/Allocate/Del and nothing else.
type Store interface {
	// Get returns an immutable view of a previously allocated page.
	// ptr must be non-zero; Get of an unknown or zero ptr is a
	// programming error and implementations should panic rather than
	// return a zero value.
	Get(ptr PagePtr) []byte

	// Allocate installs a finalised page (already trimmed to
	// PageSize) and returns a fresh non-zero PagePtr.
	Allocate(page []byte) PagePtr

	// Del signals that ptr is superseded. Reclamation timing is up to
	// the Store; Del must not block the caller.
	Del(ptr PagePtr)
}
