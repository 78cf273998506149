// Package cmp has equality helpers for tests and mocks.
//
// Domain types in this repository implement `Equal(*T) bool` instead of being compared with ==,
// because they hold slices and time.Time. The helpers here lift such predicates onto
// pointers, slices and maps.
package cmp

type BiPredicator[V any, U any] func(a V, b U) bool

// a == b as BiPredicator.
func EqEq[T comparable](a, b T) bool {
	return a == b
}
