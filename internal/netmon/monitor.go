package netmon

import (
	"context"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-draft-sync/internal/logger"
)

type networkMonitor struct {
	prober   Prober
	interval time.Duration
	logger   *logger.Logger

	mu             sync.RWMutex
	online         bool
	justCameOnline bool

	notify chan struct{}
}

// NewMonitor constructs a [Monitor] that probes the remote endpoint every
// interval. The monitor starts in the offline state; the first successful
// probe raises the came-online edge so a fresh start with reachable
// network immediately triggers a drain.
func NewMonitor(prober Prober, interval time.Duration, log *logger.Logger) Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	return &networkMonitor{
		prober:   prober,
		interval: interval,
		logger:   log,
		notify:   make(chan struct{}, 1),
	}
}

// Run implements [Monitor]. It probes immediately, then on every tick,
// until ctx is cancelled. A reading only flips to offline after the probe
// fails through its short retry budget, so one dropped packet does not
// flap the state.
func (m *networkMonitor) Run(ctx context.Context) {
	m.SetOnline(m.probe(ctx) == nil)

	t := time.NewTicker(m.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.SetOnline(m.probe(ctx) == nil)
		}
	}
}

func (m *networkMonitor) probe(ctx context.Context) error {
	backoff := retry.WithMaxRetries(2, retry.NewConstant(500*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if probeErr := m.prober.Probe(ctx); probeErr != nil {
			return retry.RetryableError(probeErr)
		}
		return nil
	})
	if err != nil {
		m.logger.Debug().
			Err(err).
			Str("func", "networkMonitor.probe").
			Msg("reachability probe failed")
	}

	return err
}

// IsOnline implements [Monitor].
func (m *networkMonitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// JustCameOnline implements [Monitor].
func (m *networkMonitor) JustCameOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justCameOnline
}

// AckOnline implements [Monitor].
func (m *networkMonitor) AckOnline() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.justCameOnline = false
}

// Notify implements [Monitor].
func (m *networkMonitor) Notify() <-chan struct{} {
	return m.notify
}

// SetOnline implements [Monitor]. The came-online edge is raised only on
// an actual offline-to-online transition; repeated online readings are
// no-ops.
func (m *networkMonitor) SetOnline(online bool) {
	m.mu.Lock()
	wasOnline := m.online
	m.online = online
	cameOnline := online && !wasOnline
	if cameOnline {
		m.justCameOnline = true
	}
	m.mu.Unlock()

	if !cameOnline {
		return
	}

	m.logger.Info().
		Str("func", "networkMonitor.SetOnline").
		Msg("connectivity restored")

	// coalesced: a pending signal already covers this transition
	select {
	case m.notify <- struct{}{}:
	default:
	}
}
