package cmp

// MapEqWith checks a and b have the same keys with equivalent values.
func MapEqWith[K comparable, V any, U any](a map[K]V, b map[K]U, pred BiPredicator[V, U]) bool {
	return len(a) == len(b) && MapGeqWith(a, b, pred)
}

// MapGeqWith checks b ⊆ a: every key of b is in a with an equivalent value.
func MapGeqWith[K comparable, V any, U any](a map[K]V, b map[K]U, pred BiPredicator[V, U]) bool {
	for kb, vb := range b {
		va, ok := a[kb]
		if !ok || !pred(va, vb) {
			return false
		}
	}
	return true
}
