package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine counts drain calls without touching any storage. A gomock
// SyncEngine would race with the job's goroutine on call ordering, so a
// channel-free counter stub is simpler here.
type stubEngine struct {
	SyncEngine

	mu        sync.Mutex
	drainAll  int
	forced    []string
	notify    chan string
	drainErr  error
	forcedErr error
}

func newStubEngine() *stubEngine {
	return &stubEngine{notify: make(chan string, 16)}
}

func (s *stubEngine) DrainAll(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drainAll++
	return s.drainErr
}

func (s *stubEngine) ForceSync(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forced = append(s.forced, documentID)
	return s.forcedErr
}

func (s *stubEngine) Notify() <-chan string { return s.notify }

func (s *stubEngine) drainAllCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drainAll
}

func (s *stubEngine) forcedDocs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.forced...)
}

func TestSyncJob_DrainsOnCameOnlineEdge(t *testing.T) {
	engine := newStubEngine()
	monitor := newFakeMonitor(false)
	job := NewSyncJob(engine, monitor, testLogger())

	job.Start(context.Background(), time.Hour)
	defer job.Stop()

	monitor.SetOnline(true)

	require.Eventually(t, func() bool { return engine.drainAllCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, monitor.JustCameOnline(), "the job must acknowledge the edge it consumed")
}

func TestSyncJob_DrainsDocumentOnEnqueueNotification(t *testing.T) {
	engine := newStubEngine()
	monitor := newFakeMonitor(true)
	job := NewSyncJob(engine, monitor, testLogger())

	job.Start(context.Background(), time.Hour)
	defer job.Stop()

	engine.notify <- "d1"
	engine.notify <- "d2"

	require.Eventually(t, func() bool { return len(engine.forcedDocs()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"d1", "d2"}, engine.forcedDocs())
}

func TestSyncJob_RetryTickerDrainsWhileOnline(t *testing.T) {
	engine := newStubEngine()
	monitor := newFakeMonitor(true)
	job := NewSyncJob(engine, monitor, testLogger())

	job.Start(context.Background(), 10*time.Millisecond)
	defer job.Stop()

	require.Eventually(t, func() bool { return engine.drainAllCount() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestSyncJob_RetryTickerIdlesWhileOffline(t *testing.T) {
	engine := newStubEngine()
	monitor := newFakeMonitor(false)
	job := NewSyncJob(engine, monitor, testLogger())

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	job.Stop()

	assert.Zero(t, engine.drainAllCount())
}

func TestSyncJob_StopTerminatesAndIsIdempotent(t *testing.T) {
	engine := newStubEngine()
	monitor := newFakeMonitor(true)
	job := NewSyncJob(engine, monitor, testLogger())

	job.Start(context.Background(), time.Hour)
	job.Stop()
	job.Stop()

	// nothing should drain after Stop returned
	monitor.SetOnline(false)
	monitor.SetOnline(true)
	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, engine.drainAllCount())
}

func TestSyncJob_StartRestartsRunningJob(t *testing.T) {
	engine := newStubEngine()
	monitor := newFakeMonitor(true)
	job := NewSyncJob(engine, monitor, testLogger())

	ctx := context.Background()
	job.Start(ctx, time.Hour)
	job.Start(ctx, 10*time.Millisecond)
	defer job.Stop()

	require.Eventually(t, func() bool { return engine.drainAllCount() >= 1 }, time.Second, 5*time.Millisecond)
}
