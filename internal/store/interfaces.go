package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-draft-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// DraftRepository is the durable local store for draft records, one per
// document. Every write must be persisted before the call returns: the
// sync engine acknowledges a local edit only after the draft survives a
// process restart.
//
// The repository performs no network I/O and makes no policy decisions.
type DraftRepository interface {
	// SaveDraft upserts the draft by its DocumentID. The write is durable
	// before SaveDraft returns.
	SaveDraft(ctx context.Context, draft models.Draft) error

	// GetDraft returns the draft for documentID, or [ErrDraftNotFound].
	GetDraft(ctx context.Context, documentID string) (models.Draft, error)

	// GetAllDrafts returns every stored draft. Used by restart recovery
	// and the housekeeping pass.
	GetAllDrafts(ctx context.Context) ([]models.Draft, error)

	// UpdateStatus partially updates the draft's sync status and,
	// when serverVersion is non-nil, its server version token.
	// It is a no-op if the draft no longer exists.
	UpdateStatus(ctx context.Context, documentID string, status models.SyncStatus, serverVersion *time.Time) error

	// DeleteDraft removes the draft record. Used only by the
	// housekeeping pass on synced drafts past the retention window.
	DeleteDraft(ctx context.Context, documentID string) error
}

// SyncQueueRepository is the durable FIFO of pending remote operations.
// Items are ordered by Timestamp ascending; BumpAttempt moves a failing
// item to the back of the order by resetting its timestamp.
type SyncQueueRepository interface {
	// Enqueue appends item to the queue, durably, before returning.
	Enqueue(ctx context.Context, item models.SyncQueueItem) error

	// ListQueue returns all pending items ordered by timestamp ascending.
	ListQueue(ctx context.Context) ([]models.SyncQueueItem, error)

	// ListQueueForDocument returns the pending items for one document,
	// ordered by timestamp ascending.
	ListQueueForDocument(ctx context.Context, documentID string) ([]models.SyncQueueItem, error)

	// Remove deletes a single item by its ID. Unknown IDs are not an
	// error.
	Remove(ctx context.Context, itemID string) error

	// RemoveForDocument deletes every queued item of one document.
	// Called by conflict resolution, which must leave an empty queue.
	RemoveForDocument(ctx context.Context, documentID string) error

	// BumpAttempt increments the item's attempt counter and resets its
	// timestamp to now, pushing it to the back of the FIFO order.
	BumpAttempt(ctx context.Context, itemID string) error

	// CountForDocument returns the number of queued items for one
	// document. Exposed to the editor surface as pendingCount.
	CountForDocument(ctx context.Context, documentID string) (int, error)
}
