package entity

import (
	"slices"

	"golang.org/x/exp/constraints"
)

// Set is an unordered set of integer identifiers.
type Set[T constraints.Integer] map[T]struct{}

// NewSet creates a set holding the given members.
func NewSet[T constraints.Integer](members ...T) Set[T] {
	s := make(Set[T], len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Add inserts v and reports whether it was absent.
func (s Set[T]) Add(v T) bool {
	if _, ok := s[v]; ok {
		return false
	}
	s[v] = struct{}{}
	return true
}

// Has reports membership.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of members.
func (s Set[T]) Len() int {
	return len(s)
}

// Sorted returns the members in ascending order.
func (s Set[T]) Sorted() []T {
	out := make([]T, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// AppendTo appends the members to dst in unspecified order.
func (s Set[T]) AppendTo(dst []T) []T {
	for v := range s {
		dst = append(dst, v)
	}
	return dst
}

// Clone returns a copy of the set.
func (s Set[T]) Clone() Set[T] {
	out := make(Set[T], len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

// Equal reports whether both sets have the same members.
func (s Set[T]) Equal(other Set[T]) bool {
	if len(s) != len(other) {
		return false
	}
	for v := range s {
		if !other.Has(v) {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every member of s is in other.
func (s Set[T]) SubsetOf(other Set[T]) bool {
	if len(s) > len(other) {
		return false
	}
	for v := range s {
		if !other.Has(v) {
			return false
		}
	}
	return true
}
