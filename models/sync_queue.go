// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// OperationType identifies the kind of pending remote operation held in
// the sync queue.
type OperationType string

const (
	// OperationSave re-sends the draft content to the remote document
	// service.
	OperationSave OperationType = "save"

	// OperationCreateSnapshot asks the remote service to record a named
	// snapshot of the document.
	OperationCreateSnapshot OperationType = "create-snapshot"
)

// SyncQueuePayload carries the operation-specific data of a queue item.
type SyncQueuePayload struct {
	// Content and Title are the draft snapshot captured when the
	// operation was enqueued. Used by save operations.
	Content string `json:"content,omitempty"`
	Title   string `json:"title,omitempty"`

	// Reason is a free-form label for snapshot operations
	// (e.g. "before-restore").
	Reason string `json:"reason,omitempty"`
}

// SyncQueueItem is one pending remote operation. Items form an
// append-only, per-document FIFO ordered by Timestamp.
type SyncQueueItem struct {
	// ID is unique without coordination: document id + enqueue time +
	// random suffix.
	ID string `json:"id"`

	// DocumentID is the draft this operation belongs to.
	DocumentID string `json:"document_id"`

	// OperationType is the kind of remote call to perform.
	OperationType OperationType `json:"operation_type"`

	// Payload holds the operation data.
	Payload SyncQueuePayload `json:"payload"`

	// Attempts counts delivery attempts, starting at 0.
	Attempts int `json:"attempts"`

	// Timestamp orders the queue. On retry it is bumped forward so a
	// failing item does not permanently block items behind it.
	Timestamp time.Time `json:"timestamp"`
}
