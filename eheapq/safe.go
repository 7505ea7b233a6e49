package eheapq

import (
	"io"
	"sync"
)

// SyncHeap serializes every operation of a Heap behind a single mutex.
// It is the canonical way to share a heap across goroutines; the heap
// itself provides no internal concurrency control.
type SyncHeap[T comparable] struct {
	mu   sync.Mutex
	heap *Heap[T]
}

// NewSync creates a mutex-serialized heap ordered by cmp.
func NewSync[T comparable](cmp Comparator[T], opts ...Option) *SyncHeap[T] {
	return &SyncHeap[T]{heap: New(cmp, opts...)}
}

// Len returns the number of elements currently stored.
func (s *SyncHeap[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heap.Len()
}

// Size returns the capacity bound.
func (s *SyncHeap[T]) Size() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heap.Size()
}

// Items returns a copy of the backing sequence in heap order.
func (s *SyncHeap[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heap.Items()
}

// Push inserts item. See Heap.Push.
func (s *SyncHeap[T]) Push(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heap.Push(item)
}

// PushPop inserts item or discards it. See Heap.PushPop.
func (s *SyncHeap[T]) PushPop(item T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heap.PushPop(item)
}

// Pop removes and returns the minimum. See Heap.Pop.
func (s *SyncHeap[T]) Pop() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heap.Pop()
}

// Replace atomically pops the minimum and pushes item. See
// Heap.Replace.
func (s *SyncHeap[T]) Replace(item T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heap.Replace(item)
}

// Remove deletes an arbitrary member. See Heap.Remove.
func (s *SyncHeap[T]) Remove(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heap.Remove(item)
}

// Top returns the minimum without removing it.
func (s *SyncHeap[T]) Top() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heap.Top()
}

// Max returns the maximum under the comparator.
func (s *SyncHeap[T]) Max() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heap.Max()
}

// Last returns the most recently inserted or swapped-in element.
func (s *SyncHeap[T]) Last() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heap.Last()
}

// SetSize updates the capacity bound. See Heap.SetSize.
func (s *SyncHeap[T]) SetSize(n uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heap.SetSize(n)
}

// Snapshot writes the heap state to w. See Heap.Snapshot.
func (s *SyncHeap[T]) Snapshot(w io.Writer, opts ...SnapshotOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heap.Snapshot(w, opts...)
}

// Restore replaces the heap state with one read from r. See
// Heap.Restore.
func (s *SyncHeap[T]) Restore(r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heap.Restore(r)
}
