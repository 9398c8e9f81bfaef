// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"github.com/Masterminds/squirrel"
)

const (
	upsertDraft = `
		INSERT INTO drafts (
			document_id,
			content,
			title,
			last_modified,
			sync_status,
			local_version,
			server_version
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (document_id) DO UPDATE SET
			content        = excluded.content,
			title          = excluded.title,
			last_modified  = excluded.last_modified,
			sync_status    = excluded.sync_status,
			local_version  = excluded.local_version,
			server_version = excluded.server_version;`

	getDraft = `
		SELECT
			document_id,
			content,
			title,
			last_modified,
			sync_status,
			local_version,
			server_version
		FROM drafts
		WHERE document_id = $1;`

	getAllDrafts = `
		SELECT
			document_id,
			content,
			title,
			last_modified,
			sync_status,
			local_version,
			server_version
		FROM drafts;`

	updateDraftStatus = `
		UPDATE drafts SET
			sync_status = $1
		WHERE document_id = $2;`

	updateDraftStatusAndVersion = `
		UPDATE drafts SET
			sync_status    = $1,
			server_version = $2
		WHERE document_id = $3;`

	deleteDraft = `
		DELETE FROM drafts
		WHERE document_id = $1;`

	enqueueItem = `
		INSERT INTO sync_queue (
			id,
			document_id,
			operation_type,
			content,
			title,
			reason,
			attempts,
			timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	removeQueueItem = `
		DELETE FROM sync_queue
		WHERE id = $1;`

	removeQueueForDocument = `
		DELETE FROM sync_queue
		WHERE document_id = $1;`

	bumpQueueAttempt = `
		UPDATE sync_queue SET
			attempts  = attempts + 1,
			timestamp = $1
		WHERE id = $2;`

	countQueueForDocument = `
		SELECT COUNT(*)
		FROM sync_queue
		WHERE document_id = $1;`
)

var queueColumns = []string{
	"id", "document_id", "operation_type",
	"content", "title", "reason",
	"attempts", "timestamp",
}

// buildListQueueQuery constructs the queue listing query. An empty
// documentID lists the whole queue; otherwise the result is restricted to
// one document. Order is always timestamp ascending, the FIFO contract.
func buildListQueueQuery(documentID string) (string, []any, error) {
	builder := squirrel.Select(queueColumns...).
		From("sync_queue").
		OrderBy("timestamp ASC")

	if documentID != "" {
		builder = builder.Where(squirrel.Eq{"document_id": documentID})
	}

	return builder.ToSql()
}
