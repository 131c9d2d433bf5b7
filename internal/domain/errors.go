package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for catalog operations
var (
	// ErrNotFound indicates the requested movie does not exist
	ErrNotFound = errors.New("movie not found")

	// ErrUnauthorized indicates the API token was rejected
	ErrUnauthorized = errors.New("api token is invalid")

	// ErrMalformedResponse indicates the provider returned an unparseable payload
	ErrMalformedResponse = errors.New("malformed response")
)

// TransportError is the single failure kind raised by a CatalogSource:
// network failures, non-2xx responses and malformed payloads.
type TransportError struct {
	Op     string // e.g. "fetch page", "fetch genres"
	Status int    // HTTP status, 0 if the request never completed
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying the same request may succeed
func (e *TransportError) Temporary() bool {
	if e.Status == 0 {
		return !errors.Is(e.Err, ErrMalformedResponse)
	}
	return e.Status == 429 || e.Status >= 500
}

// IsTransportError reports whether err is (or wraps) a TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
