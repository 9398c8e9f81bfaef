package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrDraftNotFound is returned when a query targets a draft
	// (identified by document_id) that does not exist in the database.
	ErrDraftNotFound = errors.New("draft was not found")

	// ErrQueueItemNotFound is returned when BumpAttempt targets a queue
	// item that no longer exists, e.g. because a concurrent drain pass
	// already removed it.
	ErrQueueItemNotFound = errors.New("sync queue item was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")
)
