package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-draft-sync/internal/config"
	"github.com/MKhiriev/go-draft-sync/internal/logger"
)

// ClientStorages groups the client-side storage repositories into a single
// value that can be passed around the service layer: the draft store and
// the sync operation queue, both backed by one local SQLite database.
type ClientStorages struct {
	// DraftRepository is the durable per-document draft store.
	DraftRepository DraftRepository

	// SyncQueueRepository is the durable FIFO of pending remote
	// operations.
	SyncQueueRepository SyncQueueRepository

	db *DB
}

// Close releases the underlying database connection. Safe to call on a
// ClientStorages assembled without one (tests wiring fakes directly).
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewClientStorages initialises the client storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs and returns a [ClientStorages] value whose repositories
//     share one per-document keyed mutex.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewClientStorages(cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	locks := newKeyedMutex()

	return &ClientStorages{
		DraftRepository:     NewDraftRepository(db, locks, logger),
		SyncQueueRepository: NewSyncQueueRepository(db, locks, logger),
		db:                  db,
	}, nil
}
