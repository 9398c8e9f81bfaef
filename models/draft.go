// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncStatus describes the synchronization state of a single draft.
// The four persisted values are authoritative and stored on the draft
// record; StatusOffline is a derived, UI-facing view produced when the
// connection monitor reports the client is not online.
type SyncStatus string

const (
	// StatusPending means the draft has local changes that have not yet
	// been confirmed by the remote document service.
	StatusPending SyncStatus = "pending"

	// StatusSyncing means a remote save for this draft is currently in
	// flight.
	StatusSyncing SyncStatus = "syncing"

	// StatusSynced means the remote service has confirmed the draft's
	// current content.
	StatusSynced SyncStatus = "synced"

	// StatusConflict means the remote service rejected the last save due
	// to a version mismatch and a user decision is required.
	StatusConflict SyncStatus = "conflict"

	// StatusOffline is never persisted. It is reported to the editor
	// surface instead of the stored status while the client is offline.
	StatusOffline SyncStatus = "offline"
)

// Draft is the locally persisted, authoritative-for-the-user snapshot of a
// document's content and sync state. One draft exists per document,
// keyed by DocumentID.
//
// Content and Title always reflect the most recent local edit: the local
// store is the source of truth for "what the user last saw", even when the
// remote service holds a different (possibly newer) version.
type Draft struct {
	// DocumentID is the stable document identifier, unique key.
	DocumentID string `json:"document_id"`

	// Content is the latest local content snapshot.
	Content string `json:"content"`

	// Title is the latest local title snapshot.
	Title string `json:"title"`

	// LastModified is the local wall-clock time of the last local write.
	LastModified time.Time `json:"last_modified"`

	// SyncStatus is mutated only by the sync engine.
	SyncStatus SyncStatus `json:"sync_status"`

	// LocalVersion increases on every local write. It is local
	// bookkeeping only (cursor/selection restoration elsewhere) and is
	// never sent to the remote service.
	LocalVersion int64 `json:"local_version"`

	// ServerVersion is the last server-confirmed version marker, an
	// opaque timestamp-like value. It is used as the optimistic-lock
	// token on the next remote save. Nil until the first confirmed save.
	ServerVersion *time.Time `json:"server_version,omitempty"`
}
