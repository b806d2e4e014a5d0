package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("backend rejected the gateway credentials")
	ErrNotFound     = errors.New("booking not found")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// IsClientError reports whether the backend refused the request itself
// (validation, conflict) rather than failing to serve it.
func (e *APIError) IsClientError() bool {
	return e.Status >= 400 && e.Status < 500
}
