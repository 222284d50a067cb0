package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for domain operations
var (
	// ErrCharacterNotFound indicates the requested character does not exist
	ErrCharacterNotFound = errors.New("character not found")

	// ErrServerOffline indicates the catalog service is unreachable
	ErrServerOffline = errors.New("catalog service is unreachable")

	// ErrMalformedResponse indicates the catalog service answered with a body
	// that could not be decoded
	ErrMalformedResponse = errors.New("catalog response could not be decoded")

	// ErrStorageClosed indicates a write to storage after it was closed
	ErrStorageClosed = errors.New("storage is closed")
)

// RemoteFetchError is a non-success response from the catalog service.
// Search 404s never produce one; they mean "no matches".
type RemoteFetchError struct {
	StatusCode int
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("catalog request failed (%d %s)", e.StatusCode, http.StatusText(e.StatusCode))
}

// Is lets a 404 from a by-id lookup match ErrCharacterNotFound
func (e *RemoteFetchError) Is(target error) bool {
	return target == ErrCharacterNotFound && e.StatusCode == http.StatusNotFound
}

// Retryable reports whether re-issuing the same request may succeed
func (e *RemoteFetchError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
