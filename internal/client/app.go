package client

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-draft-sync/internal/config"
	"github.com/MKhiriev/go-draft-sync/internal/logger"
	"github.com/MKhiriev/go-draft-sync/internal/netmon"
	"github.com/MKhiriev/go-draft-sync/internal/service"
	"github.com/MKhiriev/go-draft-sync/internal/store"
	"github.com/MKhiriev/go-draft-sync/internal/workers"
)

type App struct {
	storages *store.ClientStorages
	services *service.ClientServices
	monitor  netmon.Monitor
	workers  *workers.Workers
	cfg      config.ClientConfig
	logger   *logger.Logger
}

func NewApp(storages *store.ClientStorages, services *service.ClientServices, monitor netmon.Monitor, cfg config.ClientConfig, log *logger.Logger) (*App, error) {
	if storages == nil || services == nil || monitor == nil {
		return nil, fmt.Errorf("client app wiring is incomplete")
	}

	background := workers.NewWorkers(
		workers.WorkerFunc(monitor.Run),
		workers.NewHousekeepingWorker(services.Engine, cfg.Workers.RetryInterval*10, cfg.Sync.RetentionWindow, log),
	)

	return &App{
		storages: storages,
		services: services,
		monitor:  monitor,
		workers:  background,
		cfg:      cfg,
		logger:   log,
	}, nil
}

// Run starts the sync runtime and blocks until SIGINT or SIGTERM. On
// startup it first repairs any state a previous crash left behind, then
// launches the connection monitor, the housekeeping worker, and the
// background sync job.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(a.logger.WithContext(context.Background()))
	defer cancel()

	if err := a.services.Engine.Recover(ctx); err != nil {
		return fmt.Errorf("startup recovery: %w", err)
	}

	a.workers.Run(ctx)
	a.services.Job.Start(ctx, a.cfg.Workers.RetryInterval)

	a.logger.Info().Str("func", "App.Run").Msg("draft sync client started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info().Str("func", "App.Run").Msg("shutdown signal received")
	return a.Shutdown(ctx, cancel)
}

// Shutdown stops the background machinery in dependency order: the sync
// job first so no drain is mid-flight, then one best-effort flush of
// whatever is still queued, then the workers and the database.
func (a *App) Shutdown(ctx context.Context, cancel context.CancelFunc) error {
	a.services.Job.Stop()

	if a.monitor.IsOnline() {
		a.services.Engine.BestEffortFlush(ctx)
	}

	cancel()
	a.workers.Wait()

	if err := a.storages.Close(); err != nil {
		return fmt.Errorf("close local database: %w", err)
	}

	a.logger.Info().Str("func", "App.Shutdown").Msg("draft sync client stopped")
	return nil
}
