package cowbtree

import "encoding/binary"

// Node editor (spec.md §4.B): structural primitives that write into a
// destination work buffer `new` from a source `old`. Every primitive
// here leaves `new` fully self-consistent before returning — the same
// contract the teacher's insertSlot/splitPage hold to ("page must
// already be checked for adequate space", "leave it locked" — i.e. the
// buffer is always in a state the codec can re-read).
//
// Because each page's pointer/offset arrays are sized up front from the
// final nkeys, every builder below takes the running kv-area write
// cursor explicitly and threads it through, rather than hiding it as
// mutable state on a builder struct.

// appendKV writes one entry at slot dstIdx of newp: the pointer, and
// the key/value payload at kvPos in the kv_area. newp must already have
// its header set (via SetHeader) with a final nkeys that covers dstIdx.
// Returns the kv-area cursor advanced past this entry.
func appendKV(newp Page, n, dstIdx uint16, kvPos uint16, ptr PagePtr, key, val []byte) uint16 {
	newp.setPtrAt(dstIdx, ptr)

	writeAt := kvAreaStart(n) + int(kvPos)
	encodeEntry(newp, writeAt, key, val)

	newKvPos := kvPos + uint16(entryOverhead+len(key)+len(val))
	newp.setOffsetAt(n, dstIdx, newKvPos)
	return newKvPos
}

// encodeEntry writes the key_len/val_len prefix followed by the raw
// key and value bytes at byte offset pos within newp.
func encodeEntry(newp Page, pos int, key, val []byte) {
	binary.LittleEndian.PutUint16(newp[pos:], uint16(len(key)))
	binary.LittleEndian.PutUint16(newp[pos+2:], uint16(len(val)))
	copy(newp[pos+4:], key)
	copy(newp[pos+4+len(key):], val)
}

// appendRange copies `count` consecutive entries (pointer, key, value)
// from oldp starting at srcStart into newp starting at dstStart, in
// order, maintaining the offsets table. newp must already have its
// header set with a final nkeys covering [dstStart, dstStart+count).
// Returns the kv-area cursor advanced past the copied entries.
func appendRange(newp, oldp Page, n, dstStart, srcStart, count uint16, kvPos uint16) uint16 {
	for j := uint16(0); j < count; j++ {
		srcIdx := srcStart + j
		dstIdx := dstStart + j
		var ptr PagePtr
		if oldp.NodeType() == NodeInternal {
			ptr = oldp.PtrAt(srcIdx)
		}
		key := oldp.GetKey(srcIdx)
		val := oldp.GetVal(srcIdx)
		kvPos = appendKV(newp, n, dstIdx, kvPos, ptr, key, val)
	}
	return kvPos
}

// leafInsert produces newp with nkeys = nkeys(oldp)+1: entries
// [0,idx) copied from oldp, then the new (key,val) at idx, then
// [idx, end) copied from oldp shifted up by one.
func leafInsert(newp, oldp Page, idx uint16, key, val []byte) {
	oldN := oldp.Nkeys()
	n := oldN + 1
	newp.SetHeader(NodeLeaf, n)

	var pos uint16
	pos = appendRange(newp, oldp, n, 0, 0, idx, pos)
	pos = appendKV(newp, n, idx, pos, 0, key, val)
	appendRange(newp, oldp, n, idx+1, idx, oldN-idx, pos)
}

// leafUpdate produces newp with the same nkeys as oldp, replacing the
// entry at idx with (key, val).
func leafUpdate(newp, oldp Page, idx uint16, key, val []byte) {
	n := oldp.Nkeys()
	newp.SetHeader(NodeLeaf, n)

	var pos uint16
	pos = appendRange(newp, oldp, n, 0, 0, idx, pos)
	pos = appendKV(newp, n, idx, pos, 0, key, val)
	appendRange(newp, oldp, n, idx+1, idx+1, n-idx-1, pos)
}

// leafDelete produces newp with nkeys = nkeys(oldp)-1, omitting idx.
func leafDelete(newp, oldp Page, idx uint16) {
	oldN := oldp.Nkeys()
	n := oldN - 1
	newp.SetHeader(NodeLeaf, n)

	var pos uint16
	pos = appendRange(newp, oldp, n, 0, 0, idx, pos)
	appendRange(newp, oldp, n, idx, idx+1, oldN-idx-1, pos)
}

// nodeMerge concatenates the entries of two same-type nodes, left then
// right, into newp.
func nodeMerge(newp, left, right Page) {
	assertf(left.NodeType() == right.NodeType(), "nodeMerge: mismatched node types %d, %d", left.NodeType(), right.NodeType())

	leftN, rightN := left.Nkeys(), right.Nkeys()
	n := leftN + rightN
	newp.SetHeader(left.NodeType(), n)

	var pos uint16
	pos = appendRange(newp, left, n, 0, 0, leftN, pos)
	appendRange(newp, right, n, leftN, 0, rightN, pos)
}

// internalPut writes one internal entry (pointer + separator key, empty
// value) at slot dstIdx of newp, analogous to appendKV but for the
// common "one piece per child" case in the tree mutator.
func internalPut(newp Page, n, dstIdx uint16, kvPos uint16, ptr PagePtr, key []byte) uint16 {
	return appendKV(newp, n, dstIdx, kvPos, ptr, key, nil)
}
