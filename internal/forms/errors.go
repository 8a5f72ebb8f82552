package forms

import (
	"errors"
	"fmt"
)

// Pre-flight failures. They are raised before any network call.
var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrAvatarRequired   = errors.New("avatar is required")
	ErrMediaRequired    = errors.New("both video file and thumbnail are required")
	ErrContentRequired  = errors.New("content is required")
	ErrContentTooLong   = errors.New("content is too long")
	ErrFieldRequired    = errors.New("field is required")
)

// ValidationError reports which form field failed which check.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}
