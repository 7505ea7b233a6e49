package eheapq

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

var errIncomparable = errors.New("values are not mutually orderable")

// flakyCmp counts comparisons and fails exactly once, on call number
// failAt. With failAt <= 0 it never fails.
type flakyCmp struct {
	calls  int
	failAt int
}

func (f *flakyCmp) less(a, b int) (bool, error) {
	f.calls++
	if f.calls == f.failAt {
		return false, errIncomparable
	}
	return a < b, nil
}

type heapState struct {
	items   []int
	index   map[int]int
	last    int
	lastSet bool
	max     int
	maxSet  bool
	size    uint64
}

func captureState(h *Heap[int]) heapState {
	s := heapState{
		items:   append([]int(nil), h.items...),
		index:   make(map[int]int, len(h.index)),
		last:    h.last,
		lastSet: h.lastSet,
		max:     h.max,
		maxSet:  h.maxSet,
		size:    h.size,
	}
	for k, v := range h.index {
		s.index[k] = v
	}
	return s
}

func requireState(t *testing.T, h *Heap[int], want heapState) {
	t.Helper()

	require.Equal(t, want.items, h.items)
	require.Equal(t, want.index, h.index)
	require.Equal(t, want.lastSet, h.lastSet)
	if want.lastSet {
		require.Equal(t, want.last, h.last)
	}
	require.Equal(t, want.maxSet, h.maxSet)
	if want.maxSet {
		require.Equal(t, want.max, h.max)
	}
	require.Equal(t, want.size, h.size)
}

// TestRollback drives every mutating operation into a comparator
// failure at each possible comparison and checks that the pre-call
// state is fully restored.
func TestRollback(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	seed := rng.Perm(31)

	build := func(f *flakyCmp) *Heap[int] {
		f.failAt = 0
		h := New(Comparator[int](f.less))
		for _, v := range seed {
			if err := h.Push(v); err != nil {
				t.Fatalf("seeding heap: %v", err)
			}
		}
		return h
	}

	ops := map[string]func(h *Heap[int]) error{
		"Push": func(h *Heap[int]) error {
			return h.Push(1000)
		},
		"PushPopEvicting": func(h *Heap[int]) error {
			_, err := h.PushPop(1000)
			return err
		},
		"Pop": func(h *Heap[int]) error {
			_, err := h.Pop()
			return err
		},
		"Replace": func(h *Heap[int]) error {
			_, err := h.Replace(1000)
			return err
		},
		"RemoveInterior": func(h *Heap[int]) error {
			return h.Remove(seed[len(seed)/2])
		},
		"SetSizeShrink": func(h *Heap[int]) error {
			return h.SetSize(3)
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			for failAt := 1; ; failAt++ {
				f := &flakyCmp{}
				h := build(f)
				before := captureState(h)

				f.calls = 0
				f.failAt = failAt
				err := op(h)

				if err == nil {
					// Either the operation needed fewer comparisons
					// than failAt, or the failure struck a cache-only
					// comparison and was swallowed. Nothing left to
					// probe: cache comparisons run last.
					verify(t, h)
					break
				}

				require.ErrorIs(t, err, errIncomparable)
				requireState(t, h, before)
				verify(t, h)
			}
		})
	}
}

// TestRollbackMaxCache: a comparator failure during max-cache
// maintenance after a structurally complete mutation drops the cache
// instead of failing the operation.
func TestRollbackMaxCache(t *testing.T) {
	f := &flakyCmp{}
	h := New(Comparator[int](f.less))

	require.NoError(t, h.Push(10)) // seeds the max cache
	require.True(t, h.maxSet)

	// Pushing 5 costs one sift comparison (it moves to the root) and
	// one cache comparison; the second fails.
	f.calls = 0
	f.failAt = 2
	require.NoError(t, h.Push(5))

	require.False(t, h.maxSet, "failed cache comparison drops the cache")
	verify(t, h)

	// The cache is lazily recomputed on the next request.
	f.failAt = 0
	max, err := h.Max()
	require.NoError(t, err)
	require.Equal(t, 10, max)
	require.True(t, h.maxSet)
}

// TestPushNotComparable: the second of two mutually unorderable values
// is rejected and the heap keeps only the first.
func TestPushNotComparable(t *testing.T) {
	cmp := func(a, b int) (bool, error) {
		return false, errIncomparable
	}
	h := New(Comparator[int](cmp))

	// The first push compares against nothing.
	require.NoError(t, h.Push(1))

	err := h.Push(2)
	require.ErrorIs(t, err, errIncomparable)
	require.Equal(t, 1, h.Len())
	verify(t, h)
}
