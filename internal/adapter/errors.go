package adapter

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-draft-sync/models"
)

var (
	// ErrConflict marks an optimistic-lock rejection: the server's stored
	// version diverged from the ExpectedVersion the client submitted.
	ErrConflict = errors.New("version conflict")

	// ErrTransient marks failures the retry queue absorbs: network-level
	// errors, timeouts, and any non-2xx, non-409 response.
	ErrTransient = errors.New("transient remote failure")
)

// ConflictError carries the server's side of a version conflict, decoded
// from the 409 response body. Matched by errors.Is(err, ErrConflict).
type ConflictError struct {
	DocumentID string
	Response   models.ConflictResponse
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflict on document %s (server updated at %s)",
		e.DocumentID, e.Response.ServerUpdatedAt)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
