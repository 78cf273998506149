// Package try turns (value, error) pairs into a single value, for tests and command entrypoints.
//
//	conf := try.To(configs.Load(path)).OrFatal(t)
package try

// Fataler is something that can stop with Fatal, like *testing.T or *log.Logger.
type Fataler interface {
	Fatal(...any)
}

// Either holds a value or an error.
type Either[T any] interface {
	Get() (T, error)

	// OrFatal returns the value, or calls ftl.Fatal with the error.
	OrFatal(ftl Fataler) T
}

func To[T any](v T, err error) Either[T] {
	if err != nil {
		return ng[T]{err: err}
	}
	return ok[T]{value: v}
}

type ok[T any] struct {
	value T
}

func (o ok[T]) Get() (T, error)   { return o.value, nil }
func (o ok[T]) OrFatal(Fataler) T { return o.value }

type ng[T any] struct {
	err error
}

func (n ng[T]) Get() (T, error) { return *new(T), n.err }
func (n ng[T]) OrFatal(ftl Fataler) T {
	if h, ok := ftl.(interface{ Helper() }); ok {
		h.Helper()
	}
	ftl.Fatal(n.err)
	return *new(T)
}
