package upstream

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized is matched by status errors for 401 and 403 responses.
	ErrUnauthorized = errors.New("upstream rejected credentials")
	// ErrNotFound is matched by status errors for 404 responses.
	ErrNotFound = errors.New("upstream resource not found")
	// ErrNoCredentials is returned before any request is made when the
	// caller did not supply an Authorization value.
	ErrNoCredentials = errors.New("missing authorization")
	// ErrUnavailable wraps transport failures reaching the upstream.
	ErrUnavailable = errors.New("upstream unavailable")
	// ErrBadResponse is matched by responses that could not be decoded.
	ErrBadResponse = errors.New("malformed upstream response")
)

const maxErrorBody = 512

// StatusError is returned for every non-2xx upstream response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("upstream %s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("upstream %s %s: %d %s: %s", e.Method, e.Path, e.Status, http.StatusText(e.Status), body)
}

// Is lets callers match a StatusError against the package sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Retryable reports whether a GET failing with this status may be retried.
func (e *StatusError) Retryable() bool {
	return e.Status >= 500 || e.Status == http.StatusTooManyRequests
}

// IsValidation reports whether upstream rejected the payload itself.
func (e *StatusError) IsValidation() bool {
	return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
}
