// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-draft-sync/internal/adapter"
	"github.com/MKhiriev/go-draft-sync/internal/logger"
	"github.com/MKhiriev/go-draft-sync/internal/netmon"
	"github.com/MKhiriev/go-draft-sync/internal/store"
	"github.com/MKhiriev/go-draft-sync/internal/utils"
	"github.com/MKhiriev/go-draft-sync/models"
)

// MaxAttempts is the delivery budget of a single queue item. An item
// dequeued with Attempts at or past this limit is dropped instead of
// dispatched, so one poisoned operation cannot wedge its document's
// queue forever.
const MaxAttempts = 5

type syncEngine struct {
	drafts    store.DraftRepository
	queue     store.SyncQueueRepository
	documents adapter.DocumentService
	monitor   netmon.Monitor
	ids       *utils.QueueIDGenerator
	logger    *logger.Logger

	cache *draftCache

	mu        sync.Mutex
	inFlight  map[string]struct{}
	conflicts map[string]models.ConflictData

	notify chan string
	now    func() time.Time
}

func NewSyncEngine(storages *store.ClientStorages, documents adapter.DocumentService, monitor netmon.Monitor, log *logger.Logger) SyncEngine {
	return &syncEngine{
		drafts:    storages.DraftRepository,
		queue:     storages.SyncQueueRepository,
		documents: documents,
		monitor:   monitor,
		ids:       utils.NewQueueIDGenerator(),
		logger:    log,
		cache:     newDraftCache(),
		inFlight:  make(map[string]struct{}),
		conflicts: make(map[string]models.ConflictData),
		notify:    make(chan string, 16),
	}
}

// Save implements [SyncEngine]. The draft upsert and the queue append
// both complete before Save returns; the remote call is deferred to the
// sync job. A failed queue append leaves the draft saved, which is the
// safer side to fail on.
func (e *syncEngine) Save(ctx context.Context, documentID, content, title string) (models.Draft, error) {
	log := logger.FromContext(ctx)
	now := e.clock()

	draft := models.Draft{
		DocumentID:   documentID,
		Content:      content,
		Title:        title,
		LastModified: now,
		SyncStatus:   models.StatusPending,
		LocalVersion: 1,
	}
	if prev, err := e.loadDraft(ctx, documentID); err == nil {
		draft.LocalVersion = prev.LocalVersion + 1
		draft.ServerVersion = prev.ServerVersion
	} else if !errors.Is(err, store.ErrDraftNotFound) {
		return models.Draft{}, fmt.Errorf("load previous draft: %w", err)
	}

	if err := e.drafts.SaveDraft(ctx, draft); err != nil {
		return models.Draft{}, fmt.Errorf("persist draft: %w", err)
	}
	e.cache.Put(draft)

	item := models.SyncQueueItem{
		ID:            e.ids.Generate(documentID, now),
		DocumentID:    documentID,
		OperationType: models.OperationSave,
		Payload:       models.SyncQueuePayload{Content: content, Title: title},
		Timestamp:     now,
	}
	if err := e.queue.Enqueue(ctx, item); err != nil {
		log.Err(err).
			Str("func", "syncEngine.Save").
			Str("document_id", documentID).
			Msg("draft persisted but queue append failed")
		return models.Draft{}, fmt.Errorf("enqueue save operation: %w", err)
	}

	// a fresh edit supersedes any captured conflict: the draft moved to
	// pending and the stale snapshot must not be resolvable anymore
	e.mu.Lock()
	delete(e.conflicts, documentID)
	e.mu.Unlock()

	e.wake(documentID)
	return draft, nil
}

// Snapshot implements [SyncEngine].
func (e *syncEngine) Snapshot(ctx context.Context, documentID, reason string) error {
	draft, err := e.loadDraft(ctx, documentID)
	if err != nil {
		return fmt.Errorf("load draft for snapshot: %w", err)
	}

	now := e.clock()
	item := models.SyncQueueItem{
		ID:            e.ids.Generate(documentID, now),
		DocumentID:    documentID,
		OperationType: models.OperationCreateSnapshot,
		Payload: models.SyncQueuePayload{
			Content: draft.Content,
			Title:   draft.Title,
			Reason:  reason,
		},
		Timestamp: now,
	}
	if err = e.queue.Enqueue(ctx, item); err != nil {
		return fmt.Errorf("enqueue snapshot operation: %w", err)
	}

	e.wake(documentID)
	return nil
}

// ForceSync implements [SyncEngine].
func (e *syncEngine) ForceSync(ctx context.Context, documentID string) error {
	return e.drainDocument(ctx, documentID)
}

// DrainAll implements [SyncEngine]. Documents are visited in the order
// of their oldest queued item, so the globally oldest work goes first.
func (e *syncEngine) DrainAll(ctx context.Context) error {
	items, err := e.queue.ListQueue(ctx)
	if err != nil {
		return fmt.Errorf("list sync queue: %w", err)
	}

	seen := make(map[string]struct{}, len(items))
	var errs []error
	for _, item := range items {
		if _, ok := seen[item.DocumentID]; ok {
			continue
		}
		seen[item.DocumentID] = struct{}{}

		if err = e.drainDocument(ctx, item.DocumentID); err != nil {
			errs = append(errs, fmt.Errorf("drain %s: %w", item.DocumentID, err))
		}
	}

	return errors.Join(errs...)
}

// drainDocument delivers one document's queued operations in FIFO order.
// At most one drain per document runs at a time; a second caller returns
// immediately. The drain halts on the first conflict or transient
// failure, leaving the remaining items queued.
func (e *syncEngine) drainDocument(ctx context.Context, documentID string) error {
	if !e.monitor.IsOnline() {
		return nil
	}
	if !e.acquire(documentID) {
		return nil
	}
	defer e.release(documentID)

	log := logger.FromContext(ctx)

	items, err := e.queue.ListQueueForDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("list queue for document: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	draft, err := e.loadDraft(ctx, documentID)
	if err != nil {
		return fmt.Errorf("load draft for drain: %w", err)
	}

	if err = e.setStatus(ctx, &draft, models.StatusSyncing, nil); err != nil {
		return fmt.Errorf("mark draft syncing: %w", err)
	}

	delivered := 0
	for len(items) > 0 {
		for _, item := range items {
			if item.Attempts >= MaxAttempts {
				log.Warn().
					Str("func", "syncEngine.drainDocument").
					Str("document_id", documentID).
					Str("item_id", item.ID).
					Int("attempts", item.Attempts).
					Msg("dropping poisoned queue item")
				if err = e.queue.Remove(ctx, item.ID); err != nil {
					return fmt.Errorf("drop poisoned item: %w", err)
				}
				continue
			}

			if err = e.dispatch(ctx, &draft, item); err != nil {
				var conflict *adapter.ConflictError
				switch {
				case errors.As(err, &conflict):
					e.recordConflict(item, conflict)
					if stErr := e.setStatus(ctx, &draft, models.StatusConflict, nil); stErr != nil {
						return fmt.Errorf("mark draft conflicted: %w", stErr)
					}
					log.Warn().
						Str("func", "syncEngine.drainDocument").
						Str("document_id", documentID).
						Time("server_updated_at", conflict.Response.ServerUpdatedAt).
						Msg("remote rejected save, awaiting conflict resolution")
					return ErrConflictDetected

				case errors.Is(err, adapter.ErrTransient):
					if bumpErr := e.queue.BumpAttempt(ctx, item.ID); bumpErr != nil {
						return fmt.Errorf("bump attempt: %w", bumpErr)
					}
					if stErr := e.setStatus(ctx, &draft, models.StatusPending, nil); stErr != nil {
						return fmt.Errorf("mark draft pending after failure: %w", stErr)
					}
					// connectivity most likely dropped mid-drain
					e.monitor.SetOnline(false)
					return fmt.Errorf("deliver item %s: %w", item.ID, err)

				default:
					return fmt.Errorf("deliver item %s: %w", item.ID, err)
				}
			}

			if err = e.queue.Remove(ctx, item.ID); err != nil {
				return fmt.Errorf("remove delivered item: %w", err)
			}
			delivered++
		}

		// a save landing mid-drain enqueues behind the snapshot we took;
		// relist so it is delivered here instead of being stamped synced
		if items, err = e.queue.ListQueueForDocument(ctx, documentID); err != nil {
			return fmt.Errorf("relist queue for document: %w", err)
		}
	}

	if err = e.setStatus(ctx, &draft, models.StatusSynced, nil); err != nil {
		return fmt.Errorf("mark draft synced: %w", err)
	}

	log.Debug().
		Str("func", "syncEngine.drainDocument").
		Str("document_id", documentID).
		Int("delivered", delivered).
		Msg("queue drained")
	return nil
}

// dispatch performs one remote call. On an accepted save the draft's
// server version token advances to the value the server confirmed.
func (e *syncEngine) dispatch(ctx context.Context, draft *models.Draft, item models.SyncQueueItem) error {
	switch item.OperationType {
	case models.OperationSave:
		resp, err := e.documents.SaveDocument(ctx, item.DocumentID, models.SaveDocumentRequest{
			Content:         item.Payload.Content,
			Title:           item.Payload.Title,
			ExpectedVersion: draft.ServerVersion,
		})
		if err != nil {
			return err
		}
		return e.setStatus(ctx, draft, models.StatusSyncing, &resp.UpdatedAt)

	case models.OperationCreateSnapshot:
		return e.documents.CreateSnapshot(ctx, item.DocumentID, models.CreateSnapshotRequest{
			Content: item.Payload.Content,
			Title:   item.Payload.Title,
			Reason:  item.Payload.Reason,
		})

	default:
		return fmt.Errorf("unknown operation type %q on item %s", item.OperationType, item.ID)
	}
}

// Status implements [SyncEngine].
func (e *syncEngine) Status(ctx context.Context, documentID string) (EngineStatus, error) {
	draft, err := e.loadDraft(ctx, documentID)
	if err != nil {
		return EngineStatus{}, err
	}

	count, err := e.queue.CountForDocument(ctx, documentID)
	if err != nil {
		return EngineStatus{}, fmt.Errorf("count pending operations: %w", err)
	}

	status := draft.SyncStatus
	if !e.monitor.IsOnline() && (status == models.StatusPending || status == models.StatusSyncing) {
		status = models.StatusOffline
	}

	return EngineStatus{
		DocumentID:    draft.DocumentID,
		SyncStatus:    status,
		PendingCount:  count,
		LastModified:  draft.LastModified,
		LocalVersion:  draft.LocalVersion,
		ServerVersion: draft.ServerVersion,
	}, nil
}

// Recover implements [SyncEngine]. A draft persisted as syncing means
// the process died mid-drain; the queue still holds its items, so
// pending is the correct state to resume from.
func (e *syncEngine) Recover(ctx context.Context) error {
	drafts, err := e.drafts.GetAllDrafts(ctx)
	if err != nil {
		return fmt.Errorf("list drafts for recovery: %w", err)
	}

	log := logger.FromContext(ctx)
	for _, draft := range drafts {
		if draft.SyncStatus != models.StatusSyncing {
			continue
		}
		if err = e.drafts.UpdateStatus(ctx, draft.DocumentID, models.StatusPending, nil); err != nil {
			return fmt.Errorf("recover draft %s: %w", draft.DocumentID, err)
		}
		e.cache.Delete(draft.DocumentID)
		log.Info().
			Str("func", "syncEngine.Recover").
			Str("document_id", draft.DocumentID).
			Msg("interrupted sync returned to pending")
	}

	return nil
}

// PurgeSynced implements [SyncEngine].
func (e *syncEngine) PurgeSynced(ctx context.Context, retention time.Duration) (int, error) {
	drafts, err := e.drafts.GetAllDrafts(ctx)
	if err != nil {
		return 0, fmt.Errorf("list drafts for purge: %w", err)
	}

	cutoff := e.clock().Add(-retention)
	purged := 0
	for _, draft := range drafts {
		if draft.SyncStatus != models.StatusSynced || draft.LastModified.After(cutoff) {
			continue
		}
		count, err := e.queue.CountForDocument(ctx, draft.DocumentID)
		if err != nil {
			return purged, fmt.Errorf("count queue for purge candidate: %w", err)
		}
		if count > 0 {
			continue
		}
		if err = e.drafts.DeleteDraft(ctx, draft.DocumentID); err != nil {
			return purged, fmt.Errorf("purge draft %s: %w", draft.DocumentID, err)
		}
		e.cache.Delete(draft.DocumentID)
		purged++
	}

	return purged, nil
}

// BestEffortFlush implements [SyncEngine]. Only the newest queued save
// per document is flushed; older snapshots of the same content would be
// overwritten anyway.
func (e *syncEngine) BestEffortFlush(ctx context.Context) {
	log := logger.FromContext(ctx)

	items, err := e.queue.ListQueue(ctx)
	if err != nil {
		log.Err(err).Str("func", "syncEngine.BestEffortFlush").Msg("cannot list queue, skipping final flush")
		return
	}

	latest := make(map[string]models.SyncQueueItem)
	for _, item := range items {
		if item.OperationType != models.OperationSave {
			continue
		}
		// queue order is oldest first, the last one wins
		latest[item.DocumentID] = item
	}

	for documentID, item := range latest {
		// the flush is still an optimistically locked save: a concurrent
		// remote writer must surface as a 409 (logged and abandoned), not
		// be overwritten on the way out
		draft, err := e.loadDraft(ctx, documentID)
		if err != nil {
			log.Err(err).
				Str("func", "syncEngine.BestEffortFlush").
				Str("document_id", documentID).
				Msg("cannot load draft, skipping its final flush")
			continue
		}

		e.documents.Flush(documentID, models.SaveDocumentRequest{
			Content:         item.Payload.Content,
			Title:           item.Payload.Title,
			ExpectedVersion: draft.ServerVersion,
		})
	}

	if len(latest) > 0 {
		log.Info().
			Str("func", "syncEngine.BestEffortFlush").
			Int("documents", len(latest)).
			Msg("final flush fired")
	}
}

// InvalidateCache implements [SyncEngine].
func (e *syncEngine) InvalidateCache(documentID string) {
	if documentID == "" {
		e.cache.Clear()
		return
	}
	e.cache.Delete(documentID)
}

// Notify implements [SyncEngine].
func (e *syncEngine) Notify() <-chan string {
	return e.notify
}

// loadDraft reads through the cache.
func (e *syncEngine) loadDraft(ctx context.Context, documentID string) (models.Draft, error) {
	if draft, ok := e.cache.Get(documentID); ok {
		return draft, nil
	}

	draft, err := e.drafts.GetDraft(ctx, documentID)
	if err != nil {
		return models.Draft{}, err
	}
	e.cache.Put(draft)
	return draft, nil
}

// setStatus persists a status transition and keeps the in-memory copy
// and the cache aligned with it.
func (e *syncEngine) setStatus(ctx context.Context, draft *models.Draft, status models.SyncStatus, serverVersion *time.Time) error {
	if err := e.drafts.UpdateStatus(ctx, draft.DocumentID, status, serverVersion); err != nil {
		return err
	}
	draft.SyncStatus = status
	if serverVersion != nil {
		v := *serverVersion
		draft.ServerVersion = &v
	}
	// mutate the cached entry in place so content a concurrent save
	// cached is not rolled back to this caller's older copy
	e.cache.SetStatus(draft.DocumentID, status, serverVersion)
	return nil
}

func (e *syncEngine) recordConflict(item models.SyncQueueItem, conflict *adapter.ConflictError) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.conflicts[item.DocumentID] = models.ConflictData{
		LocalContent:  item.Payload.Content,
		LocalTitle:    item.Payload.Title,
		ServerContent: conflict.Response.ServerContent,
		ServerVersion: conflict.Response.ServerUpdatedAt,
	}
}

func (e *syncEngine) acquire(documentID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inFlight[documentID]; busy {
		return false
	}
	e.inFlight[documentID] = struct{}{}
	return true
}

func (e *syncEngine) release(documentID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inFlight, documentID)
}

// wake announces freshly enqueued work without ever blocking the caller.
func (e *syncEngine) wake(documentID string) {
	select {
	case e.notify <- documentID:
	default:
	}
}

func (e *syncEngine) clock() time.Time {
	if e.now != nil {
		return e.now()
	}
	return time.Now()
}
