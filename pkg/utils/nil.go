package utils

// Default returns *p, or d when p is nil.
func Default[T any](p *T, d T) T {
	if p != nil {
		return *p
	}
	return d
}
