package models

import "time"

// Resolution is the user's choice when a write-write conflict must be
// settled.
type Resolution string

const (
	// ResolutionLocal keeps the local draft: the captured local content
	// is re-sent as an unconditional overwrite of the server version.
	ResolutionLocal Resolution = "local"

	// ResolutionRemote keeps the server version: local divergence is
	// discarded and the server version becomes the new baseline.
	ResolutionRemote Resolution = "remote"
)

// ConflictData carries both sides of a detected write-write conflict.
// It is ephemeral: created when the remote service rejects a save with a
// version mismatch, consumed and discarded by conflict resolution. It is
// never persisted.
type ConflictData struct {
	// LocalContent and LocalTitle are the draft snapshot that was
	// rejected.
	LocalContent string `json:"local_content"`
	LocalTitle   string `json:"local_title"`

	// ServerContent is the content currently stored by the remote
	// service. On ResolutionRemote the editor surface is responsible for
	// loading it into the live view.
	ServerContent string `json:"server_content"`

	// ServerVersion is the remote service's current version marker.
	ServerVersion time.Time `json:"server_version"`
}
