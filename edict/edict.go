package edict

import (
	"cmp"

	"github.com/fridex/fext-wip/eheapq"
)

// Map is a key/value map bounded to the entries with the largest
// values under the comparator. It is not safe for concurrent use.
type Map[K comparable, V any] struct {
	heap  *eheapq.Heap[K]
	items map[K]V
}

type options struct {
	size uint64
}

// Option configures a Map.
type Option func(*options)

// WithSize bounds the map to at most n entries.
func WithSize(n uint64) Option {
	return func(o *options) {
		o.size = n
	}
}

// New creates an empty map whose entries are ordered by less over the
// values. Without WithSize the map is effectively unbounded.
func New[K comparable, V any](less eheapq.Comparator[V], opts ...Option) *Map[K, V] {
	o := options{size: eheapq.DefaultSize}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Map[K, V]{items: make(map[K]V)}

	// Keys ride the heap; ordering dereferences the value table.
	byValue := func(a, b K) (bool, error) {
		return less(m.items[a], m.items[b])
	}
	m.heap = eheapq.New(byValue, eheapq.WithSize(o.size))

	return m
}

// NewOrdered creates an empty map using the natural ordering of V.
func NewOrdered[K comparable, V cmp.Ordered](opts ...Option) *Map[K, V] {
	return New[K](eheapq.Ordered[V](), opts...)
}

// Len returns the number of entries currently stored.
func (m *Map[K, V]) Len() int { return m.heap.Len() }

// Size returns the capacity bound.
func (m *Map[K, V]) Size() uint64 { return m.heap.Size() }

// Get returns the value stored under k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.items[k]
	return v, ok
}

// Keys returns the stored keys in heap order of their values.
func (m *Map[K, V]) Keys() []K { return m.heap.Items() }

// Set inserts or updates the entry for k. Updating an existing key
// re-sites it under its new value. At capacity the candidate either
// evicts the smallest-valued entry or is rejected outright; the keys
// that left the map (including a rejected k) are returned.
//
// On a comparator failure the map is restored to its pre-call state,
// except when the failure strikes while re-siting an updated key and
// the rollback comparison fails as well: then the entry is dropped
// entirely to keep the key table and the heap in lockstep.
func (m *Map[K, V]) Set(k K, v V) ([]K, error) {
	if old, ok := m.items[k]; ok {
		m.items[k] = v
		if err := m.heap.Remove(k); err != nil {
			m.items[k] = old
			return nil, err
		}
		if err := m.heap.Push(k); err != nil {
			m.items[k] = old
			if rbErr := m.heap.Push(k); rbErr != nil {
				delete(m.items, k)
				return []K{k}, err
			}
			return nil, err
		}

		return nil, nil
	}

	m.items[k] = v

	if uint64(m.heap.Len()) >= m.heap.Size() {
		out, err := m.heap.PushPop(k)
		if err != nil {
			delete(m.items, k)
			return nil, err
		}
		if out == k {
			// Rejected: the candidate's value does not beat the
			// current minimum.
			delete(m.items, k)
			return []K{k}, nil
		}

		delete(m.items, out)
		return []K{out}, nil
	}

	if err := m.heap.Push(k); err != nil {
		delete(m.items, k)
		return nil, err
	}

	return nil, nil
}

// Delete removes the entry for k. It returns eheapq.ErrNotFound when k
// is not stored.
func (m *Map[K, V]) Delete(k K) error {
	if err := m.heap.Remove(k); err != nil {
		return err
	}
	delete(m.items, k)

	return nil
}

// Min returns the entry with the smallest value: the next eviction
// candidate. It returns eheapq.ErrEmpty on an empty map.
func (m *Map[K, V]) Min() (K, V, error) {
	k, err := m.heap.Top()
	if err != nil {
		var zv V
		return k, zv, err
	}

	return k, m.items[k], nil
}

// Max returns the entry with the largest value.
func (m *Map[K, V]) Max() (K, V, error) {
	k, err := m.heap.Max()
	if err != nil {
		var zv V
		return k, zv, err
	}

	return k, m.items[k], nil
}

// SetSize updates the capacity bound, evicting smallest-valued entries
// until the bound holds. The evicted keys are returned smallest first.
// On a comparator failure mid-shrink the keys evicted so far are
// returned alongside the error.
func (m *Map[K, V]) SetSize(n uint64) ([]K, error) {
	var evicted []K
	for uint64(m.heap.Len()) > n {
		k, err := m.heap.Pop()
		if err != nil {
			return evicted, err
		}
		delete(m.items, k)
		evicted = append(evicted, k)
	}

	if err := m.heap.SetSize(n); err != nil {
		return evicted, err
	}

	return evicted, nil
}
