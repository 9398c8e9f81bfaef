package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the remote document service
// adapter.
type ClientAdapter struct {
	// BaseURL is the remote document service endpoint.
	BaseURL string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
	// FlushTimeout bounds the best-effort final flush on shutdown.
	FlushTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite connection string used by the client.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientSync groups sync engine settings.
type ClientSync struct {
	// RetentionWindow is how long synced drafts are kept before the
	// housekeeping pass may purge them.
	RetentionWindow time.Duration
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// RetryInterval defines how often the background job re-drains the
	// queue while online.
	RetryInterval time.Duration
	// ProbeInterval defines how often the connection monitor probes the
	// remote endpoint.
	ProbeInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Adapter contains the remote service address and timeouts.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Sync contains sync engine settings.
	Sync ClientSync
	// Workers contains background job settings.
	Workers ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, applies defaults for unset durations, and
// validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			BaseURL:        cfg.Remote.BaseURL,
			RequestTimeout: cfg.Remote.RequestTimeout,
			FlushTimeout:   cfg.Remote.FlushTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Sync: ClientSync{
			RetentionWindow: cfg.Sync.RetentionWindow,
		},
		Workers: ClientWorkers{
			RetryInterval: cfg.Workers.RetryInterval,
			ProbeInterval: cfg.Workers.ProbeInterval,
		},
	}
	clientCfg.applyDefaults()

	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) applyDefaults() {
	if cfg.Adapter.RequestTimeout <= 0 {
		cfg.Adapter.RequestTimeout = 15 * time.Second
	}
	if cfg.Adapter.FlushTimeout <= 0 {
		cfg.Adapter.FlushTimeout = 2 * time.Second
	}
	if cfg.Sync.RetentionWindow <= 0 {
		cfg.Sync.RetentionWindow = 30 * 24 * time.Hour
	}
	if cfg.Workers.RetryInterval <= 0 {
		cfg.Workers.RetryInterval = 30 * time.Second
	}
	if cfg.Workers.ProbeInterval <= 0 {
		cfg.Workers.ProbeInterval = 10 * time.Second
	}
}
