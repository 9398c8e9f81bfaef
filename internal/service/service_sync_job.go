package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-draft-sync/internal/logger"
	"github.com/MKhiriev/go-draft-sync/internal/netmon"
)

type syncJob struct {
	engine  SyncEngine
	monitor netmon.Monitor
	logger  *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a syncJob that drives engine drains from three
// triggers: the monitor's came-online edge, the engine's enqueue
// notifications, and a periodic retry ticker. The job is idle until
// Start is called.
func NewSyncJob(engine SyncEngine, monitor netmon.Monitor, log *logger.Logger) SyncJob {
	return &syncJob{engine: engine, monitor: monitor, logger: log}
}

// Start implements [SyncJob].
func (j *syncJob) Start(ctx context.Context, retryInterval time.Duration) {
	if retryInterval <= 0 {
		retryInterval = 30 * time.Second
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		j.run(jobCtx, retryInterval)
	}()
}

func (j *syncJob) run(ctx context.Context, retryInterval time.Duration) {
	ctx = j.logger.WithContext(ctx)

	t := time.NewTicker(retryInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-j.monitor.Notify():
			// connectivity came back: everything queued while offline
			// goes out now
			j.monitor.AckOnline()
			j.drainAll(ctx, "online")

		case documentID := <-j.engine.Notify():
			if err := j.engine.ForceSync(ctx, documentID); err != nil {
				j.logger.Err(err).
					Str("func", "syncJob.run").
					Str("document_id", documentID).
					Msg("drain after enqueue failed")
			}

		case <-t.C:
			if !j.monitor.IsOnline() {
				continue
			}
			j.drainAll(ctx, "retry tick")
		}
	}
}

func (j *syncJob) drainAll(ctx context.Context, trigger string) {
	if err := j.engine.DrainAll(ctx); err != nil {
		j.logger.Err(err).
			Str("func", "syncJob.drainAll").
			Str("trigger", trigger).
			Msg("drain finished with errors")
	}
}

// Stop implements [SyncJob]. It cancels the background goroutine's
// context and blocks until the goroutine has fully exited. Safe to call
// when the job is not running (no-op in that case).
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
