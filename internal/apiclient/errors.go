package apiclient

import (
	"errors"
	"fmt"
)

// StatusError is returned for any response outside 200-299. The body is
// never parsed, so the status is all a caller learns.
type StatusError struct {
	StatusCode int
	Method     string
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: http status %d", e.Method, e.Path, e.StatusCode)
}

// StatusCode extracts the HTTP status from err, or 0 if err did not come
// from a completed exchange.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// IsStatus reports whether err carries the given HTTP status.
func IsStatus(err error, code int) bool {
	return StatusCode(err) == code
}
