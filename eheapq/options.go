package eheapq

import (
	"log/slog"
	"math"
)

// DefaultSize is the capacity of a heap constructed without WithSize:
// effectively unbounded.
const DefaultSize = math.MaxUint64

type options struct {
	size   uint64
	logger *slog.Logger
}

// Option configures a Heap.
type Option func(*options)

// WithSize bounds the heap to at most n elements. When full, Push
// follows the eviction path: the current minimum is sacrificed to
// admit a larger newcomer, smaller newcomers are discarded.
func WithSize(n uint64) Option {
	return func(o *options) {
		o.size = n
	}
}

// WithLogger sets the structured logger used by the snapshot and
// restore paths. Logging defaults to discard.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
