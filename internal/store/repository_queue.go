package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-draft-sync/internal/logger"
	"github.com/MKhiriev/go-draft-sync/models"
)

type syncQueueRepository struct {
	*DB
	locks  *keyedMutex
	logger *logger.Logger
}

// NewSyncQueueRepository returns the SQLite-backed [SyncQueueRepository].
// Enqueue shares the per-document keyed mutex with the draft repository so
// a draft write and its queue append for the same key never interleave.
func NewSyncQueueRepository(db *DB, locks *keyedMutex, logger *logger.Logger) SyncQueueRepository {
	return &syncQueueRepository{
		DB:     db,
		locks:  locks,
		logger: logger,
	}
}

func (r *syncQueueRepository) Enqueue(ctx context.Context, item models.SyncQueueItem) error {
	log := logger.FromContext(ctx)

	unlock := r.locks.Lock(item.DocumentID)
	defer unlock()

	_, err := r.DB.ExecContext(ctx, enqueueItem,
		item.ID,
		item.DocumentID,
		item.OperationType,
		item.Payload.Content,
		item.Payload.Title,
		item.Payload.Reason,
		item.Attempts,
		item.Timestamp,
	)
	if err != nil {
		log.Err(err).
			Str("func", "syncQueueRepository.Enqueue").
			Str("document_id", item.DocumentID).
			Str("item_id", item.ID).
			Msg("failed to execute insert for sync queue item")
		return fmt.Errorf("failed to enqueue sync item (id=%s): %w", item.ID, err)
	}

	return nil
}

func (r *syncQueueRepository) ListQueue(ctx context.Context) ([]models.SyncQueueItem, error) {
	return r.listQueue(ctx, "")
}

func (r *syncQueueRepository) ListQueueForDocument(ctx context.Context, documentID string) ([]models.SyncQueueItem, error) {
	return r.listQueue(ctx, documentID)
}

func (r *syncQueueRepository) listQueue(ctx context.Context, documentID string) ([]models.SyncQueueItem, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListQueueQuery(documentID)
	if err != nil {
		log.Err(err).
			Str("func", "syncQueueRepository.listQueue").
			Str("document_id", documentID).
			Msg("failed to build queue listing query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "syncQueueRepository.listQueue").
			Str("document_id", documentID).
			Msg("failed to execute query for listing sync queue")
		return nil, fmt.Errorf("failed to query sync queue: %w", err)
	}
	defer rows.Close()

	var items []models.SyncQueueItem

	for rows.Next() {
		var item models.SyncQueueItem

		scanErr := rows.Scan(
			&item.ID,
			&item.DocumentID,
			&item.OperationType,
			&item.Payload.Content,
			&item.Payload.Title,
			&item.Payload.Reason,
			&item.Attempts,
			&item.Timestamp,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "syncQueueRepository.listQueue").
				Msg("failed to scan sync queue row")
			return nil, fmt.Errorf("failed to scan sync queue row: %w", scanErr)
		}

		items = append(items, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "syncQueueRepository.listQueue").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating sync queue rows: %w", rowsErr)
	}

	return items, nil
}

func (r *syncQueueRepository) Remove(ctx context.Context, itemID string) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, removeQueueItem, itemID)
	if err != nil {
		log.Err(err).
			Str("func", "syncQueueRepository.Remove").
			Str("item_id", itemID).
			Msg("failed to execute delete for sync queue item")
		return fmt.Errorf("failed to remove sync item (id=%s): %w", itemID, err)
	}

	return nil
}

func (r *syncQueueRepository) RemoveForDocument(ctx context.Context, documentID string) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, removeQueueForDocument, documentID)
	if err != nil {
		log.Err(err).
			Str("func", "syncQueueRepository.RemoveForDocument").
			Str("document_id", documentID).
			Msg("failed to execute delete for document sync queue")
		return fmt.Errorf("failed to clear sync queue (document_id=%s): %w", documentID, err)
	}

	return nil
}

func (r *syncQueueRepository) BumpAttempt(ctx context.Context, itemID string) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, bumpQueueAttempt, time.Now(), itemID)
	if err != nil {
		log.Err(err).
			Str("func", "syncQueueRepository.BumpAttempt").
			Str("item_id", itemID).
			Msg("failed to execute attempt bump for sync queue item")
		return fmt.Errorf("failed to bump attempt (id=%s): %w", itemID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "syncQueueRepository.BumpAttempt").
			Str("item_id", itemID).
			Msg("failed to get rows affected after attempt bump")
		return fmt.Errorf("failed to get rows affected (id=%s): %w", itemID, err)
	}

	if rowsAffected == 0 {
		log.Warn().
			Str("func", "syncQueueRepository.BumpAttempt").
			Str("item_id", itemID).
			Msg("no rows affected during attempt bump: item not found")
		return fmt.Errorf("%w (id=%s)", ErrQueueItemNotFound, itemID)
	}

	return nil
}

func (r *syncQueueRepository) CountForDocument(ctx context.Context, documentID string) (int, error) {
	log := logger.FromContext(ctx)

	var count int
	row := r.DB.QueryRowContext(ctx, countQueueForDocument, documentID)
	if err := row.Scan(&count); err != nil {
		log.Err(err).
			Str("func", "syncQueueRepository.CountForDocument").
			Str("document_id", documentID).
			Msg("failed to scan sync queue count")
		return 0, fmt.Errorf("failed to count sync queue (document_id=%s): %w", documentID, err)
	}

	return count, nil
}
