package views

import (
	"context"
	"errors"

	"github.com/vidfriends/client/internal/forms"
)

// ErrorKind classifies a failed call so every caller branches the same way.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindTransport
	KindValidation
	KindCanceled
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTransport:
		return "transport"
	case KindValidation:
		return "validation"
	case KindCanceled:
		return "canceled"
	}
	return "unknown"
}

// Classify maps err onto an ErrorKind. Anything that is neither a form
// check nor a cancellation counts as transport.
func Classify(err error) ErrorKind {
	var verr *forms.ValidationError
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &verr):
		return KindValidation
	case errors.Is(err, context.Canceled):
		return KindCanceled
	default:
		return KindTransport
	}
}

// Result is the outcome of one facade call.
type Result[T any] struct {
	Value T
	Err   error
	Kind  ErrorKind
}

func (r Result[T]) OK() bool {
	return r.Kind == KindNone
}

// Capture runs fn and wraps its outcome.
func Capture[T any](fn func() (T, error)) Result[T] {
	value, err := fn()
	if err != nil {
		var zero T
		return Result[T]{Value: zero, Err: err, Kind: Classify(err)}
	}
	return Result[T]{Value: value}
}

// Status is the last failure a page recorded.
type Status struct {
	Kind ErrorKind
	Err  error
}

func statusOf(err error) Status {
	return Status{Kind: Classify(err), Err: err}
}
