// Package eheapq implements an indexed, size-bounded binary min-heap.
//
// The heap extends the textbook structure in two ways: a key→position
// index makes removal of an arbitrary member an O(log N) operation, and
// an optional size bound turns the heap into a "keep the K best"
// collection — when full, Push sacrifices the current minimum to admit
// a larger newcomer and rejects smaller ones outright.
//
// Members double as lookup keys: T must be comparable, and no two
// members that compare equal with == may be stored at once. Callers
// that need to store duplicate values should wrap each value in a
// small struct carrying a monotonic sequence number for identity; the
// comparator is free to ignore that field.
//
// The comparator itself may fail (for example when two values are not
// mutually orderable). Every mutating operation restores its pre-call
// state when that happens, so a failed comparison never leaves the
// heap order or the position index corrupted.
//
// A Heap is not safe for concurrent use; wrap it in a SyncHeap or
// serialize access externally.
package eheapq
