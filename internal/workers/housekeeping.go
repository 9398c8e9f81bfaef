package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-draft-sync/internal/logger"
	"github.com/MKhiriev/go-draft-sync/internal/service"
)

// housekeepingWorker periodically removes synced drafts that aged past
// the retention window. It keeps the local database from growing without
// bound on long-lived installs.
type housekeepingWorker struct {
	engine    service.SyncEngine
	interval  time.Duration
	retention time.Duration
	logger    *logger.Logger
}

func NewHousekeepingWorker(engine service.SyncEngine, interval, retention time.Duration, log *logger.Logger) Worker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &housekeepingWorker{
		engine:    engine,
		interval:  interval,
		retention: retention,
		logger:    log,
	}
}

func (w *housekeepingWorker) Run(ctx context.Context) {
	ctx = w.logger.WithContext(ctx)

	t := time.NewTicker(w.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			purged, err := w.engine.PurgeSynced(ctx, w.retention)
			if err != nil {
				w.logger.Err(err).
					Str("func", "housekeepingWorker.Run").
					Msg("purge pass failed")
				continue
			}
			if purged > 0 {
				w.logger.Info().
					Str("func", "housekeepingWorker.Run").
					Int("purged", purged).
					Msg("retention purge completed")
			}
		}
	}
}
