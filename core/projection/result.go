package projection

// ReadResult is the outcome of a read that degrades instead of failing.
// Items is never nil, so callers can always render it; Err says why it may be
// incomplete.
type ReadResult[T any] struct {
	Items []T
	Err   error
}

// OK wraps a successful read.
func OK[T any](items []T) ReadResult[T] {
	if items == nil {
		items = []T{}
	}
	return ReadResult[T]{Items: items}
}

// Failed wraps a failed read as an empty result.
func Failed[T any](err error) ReadResult[T] {
	return ReadResult[T]{Items: []T{}, Err: err}
}

// Degraded reports whether the read failed.
func (r ReadResult[T]) Degraded() bool {
	return r.Err != nil
}

// Reason returns the failure message, or "" for a successful read.
func (r ReadResult[T]) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
