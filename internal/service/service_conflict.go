// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-draft-sync/internal/logger"
	"github.com/MKhiriev/go-draft-sync/models"
)

// Conflict implements [SyncEngine].
func (e *syncEngine) Conflict(documentID string) (models.ConflictData, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	data, ok := e.conflicts[documentID]
	return data, ok
}

// ResolveConflict implements [SyncEngine]. Both paths are terminal: the
// document's queue is cleared and its status returns to synced, so the
// next local edit starts a fresh sync cycle from an agreed baseline.
func (e *syncEngine) ResolveConflict(ctx context.Context, documentID string, resolution models.Resolution) error {
	e.mu.Lock()
	conflict, ok := e.conflicts[documentID]
	e.mu.Unlock()
	if !ok {
		return ErrNoConflict
	}

	// the captured snapshot is only valid while the draft still sits in
	// the conflict state; a post-conflict edit moved it to pending and
	// owns the queue now
	draft, err := e.loadDraft(ctx, documentID)
	if err != nil {
		return fmt.Errorf("load draft for resolution: %w", err)
	}
	if draft.SyncStatus != models.StatusConflict {
		e.mu.Lock()
		delete(e.conflicts, documentID)
		e.mu.Unlock()
		return fmt.Errorf("%w (document %s is %s)", ErrConflictSuperseded, documentID, draft.SyncStatus)
	}

	log := logger.FromContext(ctx)

	switch resolution {
	case models.ResolutionLocal:
		if err := e.resolveKeepLocal(ctx, documentID, conflict); err != nil {
			return err
		}

	case models.ResolutionRemote:
		if err := e.resolveKeepRemote(ctx, documentID, conflict); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: %q", ErrInvalidResolution, resolution)
	}

	e.mu.Lock()
	delete(e.conflicts, documentID)
	e.mu.Unlock()

	log.Info().
		Str("func", "syncEngine.ResolveConflict").
		Str("document_id", documentID).
		Str("resolution", string(resolution)).
		Msg("conflict resolved")
	return nil
}

// resolveKeepLocal re-sends the rejected local content without a version
// token, forcing the server to accept it over whatever it stored. A
// transient failure leaves the conflict recorded so the user can retry
// the resolution.
func (e *syncEngine) resolveKeepLocal(ctx context.Context, documentID string, conflict models.ConflictData) error {
	resp, err := e.documents.SaveDocument(ctx, documentID, models.SaveDocumentRequest{
		Content: conflict.LocalContent,
		Title:   conflict.LocalTitle,
	})
	if err != nil {
		return fmt.Errorf("overwrite server version: %w", err)
	}

	if err = e.queue.RemoveForDocument(ctx, documentID); err != nil {
		return fmt.Errorf("clear queue after resolution: %w", err)
	}

	draft, err := e.loadDraft(ctx, documentID)
	if err != nil {
		return fmt.Errorf("load draft after resolution: %w", err)
	}
	draft.Content = conflict.LocalContent
	draft.Title = conflict.LocalTitle
	draft.SyncStatus = models.StatusSynced
	draft.ServerVersion = &resp.UpdatedAt
	if err = e.drafts.SaveDraft(ctx, draft); err != nil {
		return fmt.Errorf("persist resolved draft: %w", err)
	}
	e.cache.Put(draft)

	return nil
}

// resolveKeepRemote needs no remote call: the server already holds the
// winning content. Local bookkeeping adopts it as the new baseline; the
// editor surface is responsible for reloading the visible text.
func (e *syncEngine) resolveKeepRemote(ctx context.Context, documentID string, conflict models.ConflictData) error {
	if err := e.queue.RemoveForDocument(ctx, documentID); err != nil {
		return fmt.Errorf("clear queue after resolution: %w", err)
	}

	draft, err := e.loadDraft(ctx, documentID)
	if err != nil {
		return fmt.Errorf("load draft after resolution: %w", err)
	}
	draft.Content = conflict.ServerContent
	draft.LastModified = e.clock()
	draft.SyncStatus = models.StatusSynced
	serverVersion := conflict.ServerVersion
	draft.ServerVersion = &serverVersion
	if err = e.drafts.SaveDraft(ctx, draft); err != nil {
		return fmt.Errorf("persist resolved draft: %w", err)
	}
	e.cache.Put(draft)

	return nil
}
