// Package cowbtree implements an immutable, copy-on-write B+-tree keyed
// by variable-length byte strings.
//
// On every mutation the affected root-to-leaf path is rebuilt into
// freshly allocated pages; the tree exposes a single monotonically
// changing root pointer (Tree.Root) so readers holding an old root see
// a consistent historical snapshot. Pages are never mutated in place,
// which is what makes the tree safe to expose over a memory-mapped
// page store with concurrent readers — the core itself does no
// locking and assumes exactly one writer drives Insert/Delete at a
// time (see the package-level concurrency note below).
//
// The tree's only collaborator is a github.com/copybtree/cowbtree/store.Store,
// supplied by the host. This package never touches a disk, a lock, or
// a logger directly; the storage/ subpackages ship reference Store
// implementations for tests and standalone use.
//
// Concurrency: a single Tree value must not be driven by two
// goroutines concurrently. A writer is expected to hold an external
// exclusive lock spanning its entire Insert/Delete call; readers
// holding a copy of an old Tree.Root value may call Get concurrently
// with a writer mutating a *different* Tree value (or the same Tree
// after the writer has moved Root forward), since the core never
// rewrites a superseded page. Whether such a page stays readable after
// Del depends on the Store: storage/memstore drops it immediately and
// storage/filestore reuses its block on a later Allocate.
package cowbtree
