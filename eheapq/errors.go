package eheapq

import "errors"

var (
	// ErrEmpty is returned when an operation requires at least one element.
	ErrEmpty = errors.New("the heap is empty")

	// ErrNotFound is returned when the target of a removal is not a member.
	ErrNotFound = errors.New("the given item was not found in the heap")

	// ErrAlreadyPresent is returned when an insertion would duplicate a key.
	ErrAlreadyPresent = errors.New("the given item is already present in the heap")

	// ErrNoLast is returned by Last when no insertion record is tracked:
	// the previously recorded last element has since left the heap.
	ErrNoLast = errors.New("no record for the last item")
)
