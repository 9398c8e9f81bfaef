package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-draft-sync/internal/logger"
	"github.com/MKhiriev/go-draft-sync/internal/service"
)

// purgeRecorder stubs just the engine method housekeeping touches.
type purgeRecorder struct {
	service.SyncEngine

	calls     atomic.Int64
	retention atomic.Int64
}

func (p *purgeRecorder) PurgeSynced(_ context.Context, retention time.Duration) (int, error) {
	p.calls.Add(1)
	p.retention.Store(int64(retention))
	return 1, nil
}

func TestHousekeepingWorker_PurgesOnInterval(t *testing.T) {
	engine := &purgeRecorder{}
	w := NewHousekeepingWorker(engine, 10*time.Millisecond, 24*time.Hour, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return engine.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	require.Equal(t, int64(24*time.Hour), engine.retention.Load())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}
