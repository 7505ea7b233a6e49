package eheapq

import "cmp"

// Comparator reports whether a orders strictly before b. It must
// implement a strict weak order over the stored type. A comparator may
// fail, for example when two values are not mutually orderable; the
// error is propagated unchanged to the caller of the heap operation
// that triggered the comparison.
type Comparator[T any] func(a, b T) (bool, error)

// LessFunc adapts an infallible less function to a Comparator.
func LessFunc[T any](less func(a, b T) bool) Comparator[T] {
	return func(a, b T) (bool, error) {
		return less(a, b), nil
	}
}

// Ordered returns a Comparator using the natural ordering of T.
func Ordered[T cmp.Ordered]() Comparator[T] {
	return func(a, b T) (bool, error) {
		return cmp.Less(a, b), nil
	}
}
