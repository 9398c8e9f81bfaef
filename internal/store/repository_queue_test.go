// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-draft-sync/internal/logger"
	"github.com/MKhiriev/go-draft-sync/models"
)

func newTestQueueRepo(t *testing.T, db *sql.DB) SyncQueueRepository {
	t.Helper()
	return NewSyncQueueRepository(newDBFromSQL(db), newKeyedMutex(), logger.Nop())
}

func testQueueItem() models.SyncQueueItem {
	return models.SyncQueueItem{
		ID:            "doc-1-1760000000000-a1b2c3d4",
		DocumentID:    "doc-1",
		OperationType: models.OperationSave,
		Payload: models.SyncQueuePayload{
			Content: "chapter one",
			Title:   "Untitled",
		},
		Attempts:  0,
		Timestamp: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
	}
}

// ── Enqueue ──────────────────────────────────────────────────────────────────

func TestSyncQueueRepository_Enqueue_Success(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestQueueRepo(t, db)
	item := testQueueItem()

	mock.ExpectExec("INSERT INTO sync_queue").
		WithArgs(
			item.ID, item.DocumentID, string(item.OperationType),
			item.Payload.Content, item.Payload.Title, item.Payload.Reason,
			item.Attempts, item.Timestamp,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Enqueue(testContext(), item)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncQueueRepository_Enqueue_ExecError(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestQueueRepo(t, db)

	mock.ExpectExec("INSERT INTO sync_queue").
		WillReturnError(errors.New("database is locked"))

	err := repo.Enqueue(testContext(), testQueueItem())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to enqueue sync item")
}

// ── ListQueue / ListQueueForDocument ─────────────────────────────────────────

func TestSyncQueueRepository_ListQueue_OrderedRows(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestQueueRepo(t, db)

	t0 := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(queueColumns).
		AddRow("q1", "doc-1", "save", "a", "A", "", 0, t0).
		AddRow("q2", "doc-2", "create-snapshot", "b", "B", "before-restore", 2, t0.Add(time.Second))
	mock.ExpectQuery("SELECT (.+) FROM sync_queue").WillReturnRows(rows)

	items, err := repo.ListQueue(testContext())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "q1", items[0].ID)
	assert.Equal(t, models.OperationCreateSnapshot, items[1].OperationType)
	assert.Equal(t, "before-restore", items[1].Payload.Reason)
	assert.Equal(t, 2, items[1].Attempts)
}

func TestSyncQueueRepository_ListQueueForDocument_FiltersByID(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestQueueRepo(t, db)

	mock.ExpectQuery("SELECT (.+) FROM sync_queue WHERE document_id").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows(queueColumns).
			AddRow("q1", "doc-1", "save", "a", "A", "", 0, time.Now()))

	items, err := repo.ListQueueForDocument(testContext(), "doc-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "doc-1", items[0].DocumentID)
}

// ── Remove / RemoveForDocument ───────────────────────────────────────────────

func TestSyncQueueRepository_Remove(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestQueueRepo(t, db)

	mock.ExpectExec("DELETE FROM sync_queue").
		WithArgs("q1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Remove(testContext(), "q1"))
}

func TestSyncQueueRepository_RemoveForDocument(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestQueueRepo(t, db)

	mock.ExpectExec("DELETE FROM sync_queue").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.RemoveForDocument(testContext(), "doc-1"))
}

// ── BumpAttempt ──────────────────────────────────────────────────────────────

func TestSyncQueueRepository_BumpAttempt_Success(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestQueueRepo(t, db)

	mock.ExpectExec("UPDATE sync_queue SET").
		WithArgs(sqlmock.AnyArg(), "q1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.BumpAttempt(testContext(), "q1"))
}

func TestSyncQueueRepository_BumpAttempt_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestQueueRepo(t, db)

	mock.ExpectExec("UPDATE sync_queue SET").
		WithArgs(sqlmock.AnyArg(), "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.BumpAttempt(testContext(), "gone")
	require.ErrorIs(t, err, ErrQueueItemNotFound)
}

// ── CountForDocument ─────────────────────────────────────────────────────────

func TestSyncQueueRepository_CountForDocument(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestQueueRepo(t, db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountForDocument(testContext(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}
