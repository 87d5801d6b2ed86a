package engine

import (
	"iter"
	"slices"
)

// Set is an insertion-ordered set deduplicated by equality.
//
// Update returns commands as a Set and Resolver returns messages as a Set.
// Iteration order is the order in which distinct values were first added.
// The zero value is an empty set ready to use.
//
// A Set handed to the engine must not be modified afterwards; snapshots
// share it with every subscriber.
type Set[T comparable] struct {
	items []T
	index map[T]struct{}
}

// NewSet creates a set holding items in order, dropping duplicates.
func NewSet[T comparable](items ...T) Set[T] {
	var s Set[T]
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add appends v if it is not already present.
// Returns true if the set changed.
func (s *Set[T]) Add(v T) bool {
	if s.index == nil {
		s.index = make(map[T]struct{})
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Merge adds every element of other, keeping other's order for new values.
func (s *Set[T]) Merge(other Set[T]) {
	for _, v := range other.items {
		s.Add(v)
	}
}

// Contains reports whether v is in the set.
func (s Set[T]) Contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

// Len returns the number of distinct elements.
func (s Set[T]) Len() int {
	return len(s.items)
}

// First returns the earliest inserted element.
func (s Set[T]) First() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[0], true
}

// Items returns a copy of the elements in insertion order.
func (s Set[T]) Items() []T {
	return slices.Clone(s.items)
}

// All iterates the elements in insertion order.
func (s Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.items {
			if !yield(v) {
				return
			}
		}
	}
}
