package metrics

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a soft query failure.
type ErrorKind string

const (
	// KindEmptyFilter means the query selected no transactions.
	KindEmptyFilter ErrorKind = "empty_filter"
	// KindInsufficientData means there is too little history to compute.
	KindInsufficientData ErrorKind = "insufficient_data"
	// KindInvalidRequest means the query parameters are inconsistent.
	KindInvalidRequest ErrorKind = "invalid_request"
)

// QueryError is a soft failure returned instead of a view.
type QueryError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Result holds either a view or a QueryError. Callers get both through Get.
type Result[T any] struct {
	value T
	err   *QueryError
}

// OK wraps a successful view.
func OK[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail builds a failed result.
func Fail[T any](kind ErrorKind, format string, args ...any) Result[T] {
	return Result[T]{err: &QueryError{Kind: kind, Message: fmt.Sprintf(format, args...)}}
}

// Get returns the view, or a *QueryError.
func (r Result[T]) Get() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// IsKind reports whether err is a QueryError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.Kind == kind
}
