package service

import "errors"

var (
	// ErrConflictDetected is returned by a drain whose remote save was
	// rejected with a version mismatch. The conflict data has been
	// captured and the document moved to the conflict state.
	ErrConflictDetected = errors.New("version conflict detected")

	// ErrNoConflict is returned by ResolveConflict when the document has
	// no recorded conflict.
	ErrNoConflict = errors.New("no conflict recorded for document")

	// ErrConflictSuperseded is returned by ResolveConflict when the
	// recorded conflict no longer matches the draft's stored state: a
	// local edit landed after the conflict was captured, so resolving
	// from the stale snapshot would discard that newer edit.
	ErrConflictSuperseded = errors.New("conflict superseded by a newer local edit")

	// ErrInvalidResolution is returned when the resolution value is
	// neither local nor remote.
	ErrInvalidResolution = errors.New("invalid conflict resolution")
)
