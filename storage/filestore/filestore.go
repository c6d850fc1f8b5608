// Package filestore is a disk-backed store.Store reference
// implementation. Where the teacher's BufMgr (bufmgr.go) pages data in
// and out of a pinned, latched buffer pool, filestore's single-writer,
// no-cache contract lets it skip pinning and latching entirely and
// talk straight to a block device: PageIn/PageOut's "read/write a
// fixed-size block at a page offset" idiom survives, the pinning
// machinery around it does not.
package filestore

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/dsnet/golib/memfile"
	"github.com/ncw/directio"

	"github.com/copybtree/cowbtree/store"
)

// blockDevice is the narrow interface both a real, O_DIRECT-opened
// *os.File and an in-memory *memfile.File satisfy, letting Store run
// unmodified against either.
type blockDevice interface {
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
}

const pageSize = 4096

// Store persists pages as fixed-size, offset-indexed blocks on a
// blockDevice. Block 0 is never issued (store.PagePtr's zero value
// means "no page" throughout cowbtree), so the first allocation lands
// at block 1.
type Store struct {
	dev    blockDevice
	closer func() error

	mu       sync.Mutex
	nextBlk  uint64
	freeBlks []uint64
}

func newStore(dev blockDevice, closer func() error) *Store {
	return &Store{dev: dev, closer: closer, nextBlk: 1}
}

// Open opens (creating if necessary) a real file for aligned, direct
// I/O via github.com/ncw/directio. pageSize must match directio's
// required alignment on the host, which holds for the common 4096.
//
// Reopening a file that already holds blocks resumes allocation past
// the highest block the file's size accounts for, rather than
// restarting at block 1 — this store keeps no on-disk free list to
// recover, so blocks freed in a prior run are not reclaimed, but a
// live page from a prior run is never silently overwritten either.
func Open(path string) (*Store, error) {
	info, statErr := os.Stat(path)
	f, err := directio.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("filestore: open %s: %w", path, err)
	}
	s := newStore(f, f.Close)
	if statErr != nil {
		log.Printf("filestore: created new page file %s", path)
	} else if info.Size() >= pageSize {
		s.nextBlk = uint64(info.Size())/pageSize + 1
		log.Printf("filestore: reopened %s with %d existing block(s); resuming allocation at block %d", path, info.Size()/pageSize, s.nextBlk)
	}
	return s, nil
}

// OpenMem returns a Store backed by an in-memory file
// (github.com/dsnet/golib/memfile), for tests that want the real
// blockDevice codepath without touching disk.
func OpenMem() *Store {
	f := memfile.New(nil)
	return newStore(f, f.Close)
}

func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

func (s *Store) Get(ptr store.PagePtr) []byte {
	blk := directio.AlignedBlock(pageSize)
	off := int64(ptr) * pageSize
	if _, err := s.dev.ReadAt(blk, off); err != nil {
		corruptf("filestore: read block %d: %v", ptr, err)
	}
	out := make([]byte, pageSize)
	copy(out, blk)
	return out
}

func (s *Store) Allocate(page []byte) store.PagePtr {
	if len(page) != pageSize {
		panic(fmt.Sprintf("filestore: Allocate of %d-byte page, want %d", len(page), pageSize))
	}

	s.mu.Lock()
	var blk uint64
	if n := len(s.freeBlks); n > 0 {
		blk = s.freeBlks[n-1]
		s.freeBlks = s.freeBlks[:n-1]
	} else {
		blk = s.nextBlk
		s.nextBlk++
	}
	s.mu.Unlock()

	aligned := directio.AlignedBlock(pageSize)
	copy(aligned, page)
	if _, err := s.dev.WriteAt(aligned, int64(blk)*pageSize); err != nil {
		panic(fmt.Sprintf("filestore: write block %d: %v", blk, err))
	}
	return store.PagePtr(blk)
}

func (s *Store) Del(ptr store.PagePtr) {
	s.mu.Lock()
	s.freeBlks = append(s.freeBlks, uint64(ptr))
	s.mu.Unlock()
}

// corruptf panics on a store-level I/O failure that indicates the
// backing file no longer holds what Allocate wrote, mirroring
// cowbtree's own corruptf contract for unrecoverable page state.
func corruptf(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}
