package cowbtree

import "fmt"

// Programming-error and corruption guards. Both classes are fatal per
// spec.md §7: the core asserts and terminates rather than returning an
// error value, the same way the teacher's bltree.go panics on a broken
// page ("splitPage: page broken!") instead of threading an error back
// through the recursive walk.

// assertf panics with a formatted message if cond is false. Used for
// caller-contract violations (empty/oversized keys, bad indices).
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

// corruptf panics unconditionally, for pages whose decoded structure
// contradicts the layout in spec.md §3.2 (truncated buffer, declared
// nbytes past the end of the buffer, ...).
func corruptf(format string, args ...any) {
	panic(fmt.Sprintf("cowbtree: corrupt page: "+format, args...))
}
