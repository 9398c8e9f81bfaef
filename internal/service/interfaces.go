package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-draft-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// EngineStatus is the editor-facing view of one document's sync state.
// SyncStatus is masked to [models.StatusOffline] while the client has no
// connectivity and the stored status is pending or syncing; synced and
// conflict always show through.
type EngineStatus struct {
	DocumentID    string            `json:"document_id"`
	SyncStatus    models.SyncStatus `json:"sync_status"`
	PendingCount  int               `json:"pending_count"`
	LastModified  time.Time         `json:"last_modified"`
	LocalVersion  int64             `json:"local_version"`
	ServerVersion *time.Time        `json:"server_version,omitempty"`
}

// SyncEngine orchestrates local persistence, the retry queue, and remote
// delivery for drafts. It owns all sync-status transitions: no other
// component writes a draft's SyncStatus.
type SyncEngine interface {
	// Save durably persists a local edit and enqueues its remote save.
	// It returns as soon as both writes have hit the local store; remote
	// delivery happens later, driven by the sync job. The returned draft
	// reflects the persisted state (status pending, bumped local
	// version).
	Save(ctx context.Context, documentID, content, title string) (models.Draft, error)

	// Snapshot enqueues a create-snapshot operation capturing the
	// draft's current content. Returns [store.ErrDraftNotFound] when no
	// draft exists for documentID.
	Snapshot(ctx context.Context, documentID, reason string) error

	// ForceSync drains the pending queue of one document immediately.
	// It is a no-op when offline or when a drain for the document is
	// already in flight. Returns [ErrConflictDetected] when the remote
	// service rejects a save with a version mismatch; the conflict is
	// recorded and the drain halts.
	ForceSync(ctx context.Context, documentID string) error

	// DrainAll drains every document that has pending queue items, in
	// queue order. A conflict or failure on one document does not stop
	// the others; the joined errors are returned.
	DrainAll(ctx context.Context) error

	// Status returns the editor-facing view for one document.
	Status(ctx context.Context, documentID string) (EngineStatus, error)

	// Conflict returns the captured conflict data for documentID, if the
	// document is currently in the conflict state.
	Conflict(documentID string) (models.ConflictData, bool)

	// ResolveConflict settles a recorded conflict with the user's
	// choice. Both resolutions clear the document's queue and return the
	// draft to synced. Returns [ErrNoConflict] when nothing is pending
	// for documentID.
	ResolveConflict(ctx context.Context, documentID string, resolution models.Resolution) error

	// Recover repairs state left behind by a crash: drafts stuck in
	// syncing are returned to pending so the next drain retries them.
	// Called once on startup, before the sync job starts.
	Recover(ctx context.Context) error

	// PurgeSynced deletes synced drafts whose last modification is older
	// than the retention window and that have no queued operations.
	// Returns the number of drafts removed.
	PurgeSynced(ctx context.Context, retention time.Duration) (int, error)

	// BestEffortFlush fires one last unacknowledged save per document
	// with pending content. Used during shutdown; failures are only
	// logged and nothing is retried.
	BestEffortFlush(ctx context.Context)

	// InvalidateCache drops the engine's cached copy of one draft, or
	// of all drafts when documentID is empty.
	InvalidateCache(documentID string)

	// Notify exposes the channel on which the engine announces freshly
	// enqueued work. The sync job consumes it; sends never block.
	Notify() <-chan string
}

// SyncJob is the background worker driving the engine: it drains on the
// came-online edge, on freshly enqueued work, and on a retry ticker.
type SyncJob interface {
	// Start launches the background goroutine. Any previously running
	// job is stopped first. If retryInterval is zero or negative it
	// defaults to 30 seconds.
	Start(ctx context.Context, retryInterval time.Duration)

	// Stop signals the goroutine to exit and blocks until it has fully
	// terminated. Safe to call when the job is not running.
	Stop()
}
