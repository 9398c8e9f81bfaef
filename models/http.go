package models

import "time"

// SaveDocumentRequest is the body of PUT /documents/{id}.
type SaveDocumentRequest struct {
	// Content and Title replace the document's stored content.
	Content string `json:"content"`
	Title   string `json:"title"`

	// ExpectedVersion is the optimistic-lock token: the last
	// server-confirmed version observed by this client. When omitted the
	// write is an unconditional overwrite, used only by the local-wins
	// conflict resolution path.
	ExpectedVersion *time.Time `json:"expectedVersion,omitempty"`
}

// SaveDocumentResponse is returned on an accepted save. UpdatedAt becomes
// the client's new ServerVersion token.
type SaveDocumentResponse struct {
	UpdatedAt time.Time `json:"updatedAt"`
}

// ConflictResponse is the body of an HTTP 409 returned when
// ExpectedVersion no longer matches the server's stored version beyond
// its tolerance window.
type ConflictResponse struct {
	ServerContent   string    `json:"serverContent"`
	ServerUpdatedAt time.Time `json:"serverUpdatedAt"`
}

// CreateSnapshotRequest is the body of POST /documents/{id}/snapshots.
type CreateSnapshotRequest struct {
	Content string `json:"content"`
	Title   string `json:"title"`
	// Reason labels why the snapshot was taken (e.g. "before-restore").
	Reason string `json:"reason,omitempty"`
}
