package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the backend has no book with the requested id.
var ErrNotFound = errors.New("book not found")

// StatusError represents an unexpected HTTP status from the backend.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}
