package cowbtree

import "github.com/copybtree/cowbtree/store"

// stubStore is a minimal in-memory store.Store used by this package's
// own tests, independent of the reference implementations under
// storage/ (which get their own tests against the public API).
type stubStore struct {
	pages   map[store.PagePtr][]byte
	next    store.PagePtr
	allocs  int
	deletes int
}

func newStubStore() *stubStore {
	return &stubStore{pages: make(map[store.PagePtr][]byte)}
}

func (s *stubStore) Get(ptr store.PagePtr) []byte {
	p, ok := s.pages[ptr]
	if !ok {
		panic("stubStore: unknown ptr")
	}
	return p
}

func (s *stubStore) Allocate(page []byte) store.PagePtr {
	s.next++
	cp := make([]byte, len(page))
	copy(cp, page)
	s.pages[s.next] = cp
	s.allocs++
	return s.next
}

func (s *stubStore) Del(ptr store.PagePtr) {
	if _, ok := s.pages[ptr]; !ok {
		panic("stubStore: Del of unknown ptr")
	}
	delete(s.pages, ptr)
	s.deletes++
}

func (s *stubStore) liveCount() int {
	return len(s.pages)
}
