// Package memstore is an in-memory store.Store reference implementation,
// adapted from the teacher's ParentBufMgrDummy (a sync.Map-backed,
// no-eviction page map used for its own in-process tests).
package memstore

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/devlights/gomy/structure"

	"github.com/copybtree/cowbtree/store"
)

// Store is a map-backed store.Store with no eviction and no persistence,
// for use in tests and short-lived in-process trees. It additionally
// tracks the live set of allocated-but-not-yet-deleted pointers so
// tests can assert the no-leaks property (spec.md §8, invariant 7)
// without walking the tree themselves.
type Store struct {
	pages  sync.Map // store.PagePtr -> []byte
	nextID int64
	live   *structure.Set[store.PagePtr]
	mu     sync.Mutex // guards live; sync.Map itself needs no external lock
}

// New returns an empty Store.
func New() *Store {
	return &Store{live: structure.NewSet[store.PagePtr]()}
}

func (s *Store) Get(ptr store.PagePtr) []byte {
	val, ok := s.pages.Load(ptr)
	if !ok {
		panic(fmt.Sprintf("memstore: unknown ptr %d", ptr))
	}
	return val.([]byte)
}

func (s *Store) Allocate(page []byte) store.PagePtr {
	id := store.PagePtr(atomic.AddInt64(&s.nextID, 1))
	cp := make([]byte, len(page))
	copy(cp, page)
	s.pages.Store(id, cp)

	s.mu.Lock()
	s.live.Add(id)
	s.mu.Unlock()
	return id
}

func (s *Store) Del(ptr store.PagePtr) {
	if _, ok := s.pages.Load(ptr); !ok {
		panic(fmt.Sprintf("memstore: Del of unknown ptr %d", ptr))
	}
	s.pages.Delete(ptr)

	s.mu.Lock()
	s.live.Remove(ptr)
	s.mu.Unlock()
}

// LiveCount returns the number of pages currently allocated and not yet
// deleted. A tree with no in-flight mutation should have LiveCount
// equal to the number of reachable pages in its current Root — any
// excess is a leak (spec.md §8, invariant 7).
func (s *Store) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live.Len()
}

// LivePointers returns a snapshot of the currently live pointer set.
func (s *Store) LivePointers() []store.PagePtr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live.Values()
}
