package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-draft-sync/internal/logger"
	"github.com/MKhiriev/go-draft-sync/models"
)

type draftRepository struct {
	*DB
	locks  *keyedMutex
	logger *logger.Logger
}

// NewDraftRepository returns the SQLite-backed [DraftRepository]. The
// shared keyed mutex serialises writes per document key; no cross-document
// locking is ever taken.
func NewDraftRepository(db *DB, locks *keyedMutex, logger *logger.Logger) DraftRepository {
	return &draftRepository{
		DB:     db,
		locks:  locks,
		logger: logger,
	}
}

func (r *draftRepository) SaveDraft(ctx context.Context, draft models.Draft) error {
	log := logger.FromContext(ctx)

	unlock := r.locks.Lock(draft.DocumentID)
	defer unlock()

	_, err := r.DB.ExecContext(ctx, upsertDraft,
		draft.DocumentID,
		draft.Content,
		draft.Title,
		draft.LastModified,
		draft.SyncStatus,
		draft.LocalVersion,
		draft.ServerVersion,
	)
	if err != nil {
		log.Err(err).
			Str("func", "draftRepository.SaveDraft").
			Str("document_id", draft.DocumentID).
			Msg("failed to execute upsert for draft")
		return fmt.Errorf("failed to save draft (document_id=%s): %w", draft.DocumentID, err)
	}

	return nil
}

func (r *draftRepository) GetDraft(ctx context.Context, documentID string) (models.Draft, error) {
	log := logger.FromContext(ctx)

	var draft models.Draft
	row := r.DB.QueryRowContext(ctx, getDraft, documentID)

	scanErr := row.Scan(
		&draft.DocumentID,
		&draft.Content,
		&draft.Title,
		&draft.LastModified,
		&draft.SyncStatus,
		&draft.LocalVersion,
		&draft.ServerVersion,
	)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.Draft{}, ErrDraftNotFound
		}
		log.Err(scanErr).
			Str("func", "draftRepository.GetDraft").
			Str("document_id", documentID).
			Msg("failed to scan draft row")
		return models.Draft{}, fmt.Errorf("failed to scan draft row: %w", scanErr)
	}

	return draft, nil
}

func (r *draftRepository) GetAllDrafts(ctx context.Context) ([]models.Draft, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, getAllDrafts)
	if err != nil {
		log.Err(err).
			Str("func", "draftRepository.GetAllDrafts").
			Msg("failed to execute query for getting all drafts")
		return nil, fmt.Errorf("failed to query all drafts: %w", err)
	}
	defer rows.Close()

	var drafts []models.Draft

	for rows.Next() {
		var draft models.Draft

		scanErr := rows.Scan(
			&draft.DocumentID,
			&draft.Content,
			&draft.Title,
			&draft.LastModified,
			&draft.SyncStatus,
			&draft.LocalVersion,
			&draft.ServerVersion,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "draftRepository.GetAllDrafts").
				Msg("failed to scan draft row")
			return nil, fmt.Errorf("failed to scan draft row: %w", scanErr)
		}

		drafts = append(drafts, draft)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "draftRepository.GetAllDrafts").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating draft rows: %w", rowsErr)
	}

	return drafts, nil
}

func (r *draftRepository) UpdateStatus(ctx context.Context, documentID string, status models.SyncStatus, serverVersion *time.Time) error {
	log := logger.FromContext(ctx)

	unlock := r.locks.Lock(documentID)
	defer unlock()

	var err error
	if serverVersion != nil {
		_, err = r.DB.ExecContext(ctx, updateDraftStatusAndVersion, status, serverVersion, documentID)
	} else {
		_, err = r.DB.ExecContext(ctx, updateDraftStatus, status, documentID)
	}
	if err != nil {
		log.Err(err).
			Str("func", "draftRepository.UpdateStatus").
			Str("document_id", documentID).
			Str("sync_status", string(status)).
			Msg("failed to execute status update for draft")
		return fmt.Errorf("failed to update draft status (document_id=%s): %w", documentID, err)
	}

	// zero rows affected means the draft is gone; that is a legal no-op
	return nil
}

func (r *draftRepository) DeleteDraft(ctx context.Context, documentID string) error {
	log := logger.FromContext(ctx)

	unlock := r.locks.Lock(documentID)
	defer unlock()

	_, err := r.DB.ExecContext(ctx, deleteDraft, documentID)
	if err != nil {
		log.Err(err).
			Str("func", "draftRepository.DeleteDraft").
			Str("document_id", documentID).
			Msg("failed to execute delete for draft")
		return fmt.Errorf("failed to delete draft (document_id=%s): %w", documentID, err)
	}

	return nil
}
