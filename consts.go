package cowbtree

// Page layout constants (spec.md §3.2, §6.4).
const (
	// PageSize is the maximum encoded size of a finalised page.
	PageSize = 4096

	// MaxKeySize and MaxValSize bound caller-supplied keys and values.
	// Both stay well under PageSize minus header overhead so a single
	// entry can never itself need more than one split.
	MaxKeySize = 1000
	MaxValSize = 3000
)

// Node type tags, stored in the first two bytes of every page.
const (
	NodeInternal uint16 = 1
	NodeLeaf     uint16 = 2
)

const (
	// headerSize is the byte length of node_type+nkeys.
	headerSize = 4

	// pointerSize is the byte width of one pointers[] slot.
	pointerSize = 8

	// offsetSize is the byte width of one offsets[] slot.
	offsetSize = 2

	// entryOverhead is the key_len+val_len prefix on every kv entry.
	entryOverhead = 4

	// perEntryOverhead is what one entry costs outside its raw key/value
	// bytes: a pointer slot, an offset slot, and the length prefixes.
	// Used by split.go to decide how many entries fit in PageSize.
	perEntryOverhead = pointerSize + offsetSize + entryOverhead
)
