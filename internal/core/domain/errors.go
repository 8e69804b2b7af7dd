package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks network-level failures reaching the backend.
	ErrTransport = errors.New("backend unreachable")
	// ErrBackend marks non-2xx responses the backend produced itself.
	ErrBackend = errors.New("backend rejected request")
	// ErrInvalidInput marks malformed user input.
	ErrInvalidInput = errors.New("invalid input")
)

// BackendError is a backend-side rejection carrying the structured
// detail field of the response body when one was present.
type BackendError struct {
	Op     string
	Status int
	Detail string
}

func (e *BackendError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: backend error: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("%s: backend status %d", e.Op, e.Status)
}

func (e *BackendError) Unwrap() error { return ErrBackend }

// WrapTransport preserves the transport error kind with operation context.
func WrapTransport(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, ErrTransport, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
