// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer for communicating with the
// remote document service.
//
// The primary abstraction is [DocumentService], which decouples the sync
// engine from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPDocumentService]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling: [ErrConflict] for an optimistic-lock rejection (409, with
// the server's side of the conflict carried in [*ConflictError]) and
// [ErrTransient] for everything the retry queue should absorb.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-draft-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// DocumentService defines transport-agnostic communication with the remote
// document service. Implementations are responsible for serialisation and
// for mapping transport-level errors to the sentinel values defined in this
// package.
type DocumentService interface {
	// SaveDocument sends the draft content to PUT /documents/{id}.
	//
	// When req.ExpectedVersion is set, the server compares it against its
	// stored version within a small tolerance window; a mismatch yields a
	// [*ConflictError] (match it with errors.Is(err, ErrConflict)) whose
	// Response carries the server content and version. When
	// req.ExpectedVersion is nil the write is an unconditional overwrite.
	//
	// Any non-2xx, non-409 response or network-level failure is returned
	// wrapped around [ErrTransient].
	SaveDocument(ctx context.Context, documentID string, req models.SaveDocumentRequest) (models.SaveDocumentResponse, error)

	// CreateSnapshot asks the server to record a named snapshot of the
	// document via POST /documents/{id}/snapshots. Failures follow the
	// same mapping as SaveDocument, except snapshots never conflict.
	CreateSnapshot(ctx context.Context, documentID string, req models.CreateSnapshotRequest) error

	// Ping checks remote reachability with a cheap request. Used by the
	// connection monitor's default prober. Any failure means "treat as
	// offline"; a nil error is advisory only.
	Ping(ctx context.Context) error

	// Flush issues a best-effort, fire-and-forget save used during
	// shutdown. It does not wait for the response beyond a short timeout,
	// is never retried, and only logs failures. Callers accept the small
	// data-loss window this implies.
	Flush(documentID string, req models.SaveDocumentRequest)
}
