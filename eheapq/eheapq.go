package eheapq

import (
	"cmp"
	"io"
	"log/slog"
	"maps"
	"slices"
)

// Heap is an array-backed binary min-heap augmented with a
// key→position index. The index keeps removal of an arbitrary member
// at O(log N), and the size bound turns the heap into a "keep the K
// best" collection: a full heap evicts its minimum to admit a larger
// newcomer and discards smaller ones.
//
// The heap additionally caches the most recently inserted element and
// the maximum under the comparator; both caches are invalidated when
// the cached element leaves the heap.
type Heap[T comparable] struct {
	cmp   Comparator[T]
	items []T
	index map[T]int
	size  uint64

	last    T
	lastSet bool
	max     T
	maxSet  bool

	logger *slog.Logger
}

// New creates an empty heap ordered by cmp. Without WithSize the heap
// is effectively unbounded.
func New[T comparable](cmp Comparator[T], opts ...Option) *Heap[T] {
	o := options{
		size:   DefaultSize,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Heap[T]{
		cmp:    cmp,
		index:  make(map[T]int),
		size:   o.size,
		logger: o.logger,
	}
}

// NewOrdered creates an empty heap using the natural ordering of T.
func NewOrdered[T cmp.Ordered](opts ...Option) *Heap[T] {
	return New(Ordered[T](), opts...)
}

// Len returns the number of elements currently stored.
func (h *Heap[T]) Len() int { return len(h.items) }

// Size returns the capacity bound.
func (h *Heap[T]) Size() uint64 { return h.size }

// Items returns a copy of the backing sequence in heap order.
func (h *Heap[T]) Items() []T { return slices.Clone(h.items) }

// Push inserts item. It returns ErrAlreadyPresent, without mutating
// the heap, when an equal-keyed member is already stored. When the
// heap is at capacity the eviction path of PushPop is taken instead of
// growing and the evicted element is discarded.
func (h *Heap[T]) Push(item T) error {
	if _, ok := h.index[item]; ok {
		return ErrAlreadyPresent
	}

	if uint64(len(h.items)) >= h.size {
		_, err := h.pushPop(item)
		return err
	}

	pos := len(h.items)
	h.items = append(h.items, item)
	h.index[item] = pos

	var journal []swapRec
	if _, err := h.up(pos, &journal); err != nil {
		h.unwind(journal)
		delete(h.index, item)
		var zero T
		h.items[len(h.items)-1] = zero
		h.items = h.items[:len(h.items)-1]

		return err
	}

	h.setLast(item)

	if len(h.items) == 1 {
		h.setMax(item)
	} else {
		h.adjustMax(item)
	}

	return nil
}

// PushPop inserts item or discards it, keeping the size unchanged: if
// the current minimum orders strictly before item, the minimum is
// evicted and returned with item installed in its place; otherwise the
// heap is left untouched and item itself is returned. An equal-keyed
// member causes ErrAlreadyPresent even on the path where item would
// have been rejected anyway.
func (h *Heap[T]) PushPop(item T) (T, error) {
	if _, ok := h.index[item]; ok {
		var zero T
		return zero, ErrAlreadyPresent
	}

	return h.pushPop(item)
}

// pushPop assumes the duplicate check already happened.
func (h *Heap[T]) pushPop(item T) (T, error) {
	var zero T

	if len(h.items) == 0 {
		return item, nil
	}

	less, err := h.cmp(h.items[0], item)
	if err != nil {
		return zero, err
	}
	if !less {
		return item, nil
	}

	evicted := h.items[0]
	h.items[0] = item
	delete(h.index, evicted)
	h.index[item] = 0

	var journal []swapRec
	if _, err := h.down(0, &journal); err != nil {
		h.unwind(journal)
		h.items[0] = evicted
		delete(h.index, item)
		h.index[evicted] = 0

		return zero, err
	}

	h.setLast(item)
	h.dropMaxIf(evicted)
	h.adjustMax(item)

	return evicted, nil
}

// Pop removes and returns the minimum. It returns ErrEmpty when no
// elements are stored.
func (h *Heap[T]) Pop() (T, error) {
	var zero T

	n := len(h.items)
	if n == 0 {
		return zero, ErrEmpty
	}

	result := h.items[0]
	moved := h.items[n-1]
	if n > 1 {
		h.items[0] = moved
		h.index[moved] = 0
	}
	h.items[n-1] = zero
	h.items = h.items[:n-1]
	delete(h.index, result)

	if n > 1 {
		var journal []swapRec
		if _, err := h.down(0, &journal); err != nil {
			h.unwind(journal)
			h.items = h.items[:n]
			h.items[n-1] = moved
			h.items[0] = result
			h.index[moved] = n - 1
			h.index[result] = 0

			return zero, err
		}
	}

	h.dropLastIf(result)
	h.dropMaxIf(result)

	return result, nil
}

// Replace atomically pops the minimum and pushes item, keeping the
// size unchanged. It returns ErrEmpty on an empty heap and
// ErrAlreadyPresent when item's key collides with a member other than
// the displaced root.
func (h *Heap[T]) Replace(item T) (T, error) {
	var zero T

	if len(h.items) == 0 {
		return zero, ErrEmpty
	}
	if pos, ok := h.index[item]; ok && pos != 0 {
		return zero, ErrAlreadyPresent
	}

	evicted := h.items[0]
	h.items[0] = item
	delete(h.index, evicted)
	h.index[item] = 0

	var journal []swapRec
	if _, err := h.down(0, &journal); err != nil {
		h.unwind(journal)
		h.items[0] = evicted
		delete(h.index, item)
		h.index[evicted] = 0

		return zero, err
	}

	h.setLast(item)
	h.dropMaxIf(evicted)
	h.adjustMax(item)

	return evicted, nil
}

// Remove deletes an arbitrary member in O(log N) using the position
// index. It returns ErrNotFound when item is not stored.
func (h *Heap[T]) Remove(item T) error {
	pos, ok := h.index[item]
	if !ok {
		return ErrNotFound
	}

	var zero T
	n := len(h.items)

	if pos == n-1 {
		h.items[n-1] = zero
		h.items = h.items[:n-1]
		delete(h.index, item)
	} else {
		moved := h.items[n-1]
		h.items[pos] = moved
		h.index[moved] = pos
		h.items[n-1] = zero
		h.items = h.items[:n-1]
		delete(h.index, item)

		var journal []swapRec
		if err := h.fix(pos, &journal); err != nil {
			h.unwind(journal)
			h.items = h.items[:n]
			h.items[n-1] = moved
			h.items[pos] = item
			h.index[moved] = n - 1
			h.index[item] = pos

			return err
		}
	}

	h.dropLastIf(item)
	h.dropMaxIf(item)

	return nil
}

// Top returns the minimum without removing it.
func (h *Heap[T]) Top() (T, error) {
	var zero T
	if len(h.items) == 0 {
		return zero, ErrEmpty
	}

	return h.items[0], nil
}

// Max returns the maximum under the comparator. The result is cached
// until the element leaves the heap; a miss scans only the leaf half
// of the backing sequence, since in a min-heap every internal node has
// a child that does not order before it.
func (h *Heap[T]) Max() (T, error) {
	var zero T

	n := len(h.items)
	if n == 0 {
		return zero, ErrEmpty
	}
	if h.maxSet {
		return h.max, nil
	}

	// The first leaf sits at n/2. Note n/2, not (n+1)/2: at odd
	// lengths index n/2 is itself a leaf.
	best := h.items[n/2]
	for _, item := range h.items[n/2+1:] {
		less, err := h.cmp(best, item)
		if err != nil {
			return zero, err
		}
		if less {
			best = item
		}
	}

	h.setMax(best)

	return best, nil
}

// Last returns the most recently inserted or swapped-in element. It
// returns ErrEmpty on an empty heap and ErrNoLast when the tracked
// element has since been removed.
func (h *Heap[T]) Last() (T, error) {
	var zero T
	if len(h.items) == 0 {
		return zero, ErrEmpty
	}
	if !h.lastSet {
		return zero, ErrNoLast
	}

	return h.last, nil
}

// SetSize updates the capacity bound. Shrinking below the current
// length pops the minimum until the bound holds, retaining the largest
// residents. On a comparator failure mid-shrink the entire operation
// is rolled back, capacity included.
func (h *Heap[T]) SetSize(n uint64) error {
	if uint64(len(h.items)) <= n {
		h.size = n
		return nil
	}

	savedItems := slices.Clone(h.items)
	savedIndex := maps.Clone(h.index)
	savedLast, savedLastSet := h.last, h.lastSet
	savedMax, savedMaxSet := h.max, h.maxSet
	savedSize := h.size

	h.size = n
	for uint64(len(h.items)) > n {
		if _, err := h.Pop(); err != nil {
			h.items = savedItems
			h.index = savedIndex
			h.last, h.lastSet = savedLast, savedLastSet
			h.max, h.maxSet = savedMax, savedMaxSet
			h.size = savedSize

			return err
		}
	}

	return nil
}

type swapRec struct {
	i, j int
}

// swap exchanges two positions and repairs their index entries. When
// journal is non-nil the swap is recorded for a later unwind.
func (h *Heap[T]) swap(i, j int, journal *[]swapRec) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.index[h.items[i]] = i
	h.index[h.items[j]] = j

	if journal != nil {
		*journal = append(*journal, swapRec{i, j})
	}
}

// unwind replays a swap journal in reverse, restoring the positions
// and index entries that held before the sift started.
func (h *Heap[T]) unwind(journal []swapRec) {
	for k := len(journal) - 1; k >= 0; k-- {
		h.swap(journal[k].i, journal[k].j, nil)
	}
}

// up moves the element at pos toward the root until its parent does
// not order after it, returning the final position.
func (h *Heap[T]) up(pos int, journal *[]swapRec) (int, error) {
	for pos > 0 {
		parent := (pos - 1) / 2

		less, err := h.cmp(h.items[pos], h.items[parent])
		if err != nil {
			return pos, err
		}
		if !less {
			break
		}

		h.swap(pos, parent, journal)
		pos = parent
	}

	return pos, nil
}

// down moves the element at pos toward the leaves, descending into the
// smaller child, and returns the final position.
func (h *Heap[T]) down(pos int, journal *[]swapRec) (int, error) {
	n := len(h.items)
	for {
		child := 2*pos + 1
		if child >= n {
			break
		}

		if right := child + 1; right < n {
			less, err := h.cmp(h.items[right], h.items[child])
			if err != nil {
				return pos, err
			}
			if less {
				child = right
			}
		}

		less, err := h.cmp(h.items[child], h.items[pos])
		if err != nil {
			return pos, err
		}
		if !less {
			break
		}

		h.swap(pos, child, journal)
		pos = child
	}

	return pos, nil
}

// fix restores heap order at pos after an arbitrary element landed
// there. Only one direction will actually move it, but both must be
// attempted: the element's order relative to its new neighbors is
// unknown.
func (h *Heap[T]) fix(pos int, journal *[]swapRec) error {
	moved, err := h.down(pos, journal)
	if err != nil {
		return err
	}
	if moved == pos {
		_, err = h.up(pos, journal)
	}

	return err
}

func (h *Heap[T]) setLast(item T) { h.last, h.lastSet = item, true }

func (h *Heap[T]) dropLastIf(item T) {
	if h.lastSet && h.last == item {
		var zero T
		h.last, h.lastSet = zero, false
	}
}

func (h *Heap[T]) setMax(item T) { h.max, h.maxSet = item, true }

func (h *Heap[T]) dropMaxIf(item T) {
	if h.maxSet && h.max == item {
		var zero T
		h.max, h.maxSet = zero, false
	}
}

// adjustMax promotes item to the cached maximum when it orders after
// the cached value. A failing comparison drops the cache instead of
// failing the surrounding operation: the heap is already structurally
// valid at this point and the cache is lazily recomputed by Max.
func (h *Heap[T]) adjustMax(item T) {
	if !h.maxSet {
		return
	}

	less, err := h.cmp(h.max, item)
	if err != nil {
		var zero T
		h.max, h.maxSet = zero, false

		return
	}
	if less {
		h.max = item
	}
}
