package eheapq

import (
	"errors"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSyncHeapBasic(t *testing.T) {
	s := NewSync(Ordered[int](), WithSize(3))

	require.NoError(t, s.Push(5))
	require.NoError(t, s.Push(3))
	require.NoError(t, s.Push(8))
	require.NoError(t, s.Push(10)) // evicts 3

	require.Equal(t, 3, s.Len())
	require.Equal(t, uint64(3), s.Size())

	top, err := s.Top()
	require.NoError(t, err)
	require.Equal(t, 5, top)

	max, err := s.Max()
	require.NoError(t, err)
	require.Equal(t, 10, max)

	last, err := s.Last()
	require.NoError(t, err)
	require.Equal(t, 10, last)
}

func TestSyncHeapConcurrent(t *testing.T) {
	const (
		writers    = 8
		perWriter  = 200
		popWorkers = 4
		popsEach   = 100
	)

	s := NewSync(Ordered[int]())

	var popped atomic.Int64
	var g errgroup.Group

	for w := 0; w < writers; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < perWriter; i++ {
				if err := s.Push(w*10_000 + i); err != nil {
					return err
				}
			}
			return nil
		})
	}

	for p := 0; p < popWorkers; p++ {
		g.Go(func() error {
			for i := 0; i < popsEach; i++ {
				if _, err := s.Pop(); err != nil {
					if errors.Is(err, ErrEmpty) {
						continue
					}
					return err
				}
				popped.Add(1)
			}
			return nil
		})
	}

	require.NoError(t, g.Wait())
	require.Equal(t, writers*perWriter-int(popped.Load()), s.Len())

	verify(t, s.heap)

	// Draining must still yield nondecreasing order.
	drained := make([]int, 0, s.Len())
	for s.Len() != 0 {
		v, err := s.Pop()
		require.NoError(t, err)
		drained = append(drained, v)
	}
	require.True(t, slices.IsSorted(drained))
}
