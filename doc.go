// Package fext provides extended versions of two everyday collections.
//
// Package eheapq implements an indexed, size-bounded binary min-heap:
// a heap queue extended with O(log N) removal of arbitrary members,
// "keep the K best" eviction, and cached extrema.
//
// Package edict implements a size-bounded map layered on that heap: it
// keeps the entries with the largest values under an injected
// comparator and evicts the smallest first.
//
// This root package carries no code; import the subpackages directly.
package fext
