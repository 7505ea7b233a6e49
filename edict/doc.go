// Package edict implements a size-bounded map that keeps the best
// entries.
//
// A Map holds key/value pairs ordered by an injected comparator over
// the values. When full, setting a new key either evicts the entry
// with the smallest value or rejects the newcomer, so a map bounded to
// K entries always holds the K largest values seen so far.
//
// The Map is a thin adapter: membership, ordering and eviction are
// delegated to an indexed heap of keys (package eheapq) whose
// comparator dereferences the value table, which keeps arbitrary-key
// deletion at O(log N).
package edict
