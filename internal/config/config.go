// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-draft-sync client. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line
// flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Remote holds settings for the remote document service endpoint.
	Remote Remote `envPrefix:"REMOTE_"`

	// Storage holds configuration for the local durable store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Sync holds tuning knobs for the sync engine and its queue.
	Sync Sync `envPrefix:"SYNC_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Remote holds the remote document service connection settings.
type Remote struct {
	// BaseURL is the base URL of the remote document service
	// (e.g. "https://api.example.com").
	// Env: REMOTE_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout bounds every outbound request. A save that never
	// returns must resolve to the transient-failure path instead of
	// holding the per-document drain lock.
	// Env: REMOTE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// FlushTimeout bounds the best-effort final flush issued during
	// shutdown.
	// Env: REMOTE_FLUSH_TIMEOUT
	FlushTimeout time.Duration `env:"FLUSH_TIMEOUT"`
}

// Storage groups the configuration for the local durable store.
type Storage struct {
	// DB holds the SQLite connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB contains local database connection settings.
type DB struct {
	// DSN is the SQLite file path used for the local draft store.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Sync holds sync engine tuning values.
type Sync struct {
	// RetentionWindow is how long synced drafts are kept before the
	// housekeeping pass may purge them.
	// Env: SYNC_RETENTION_WINDOW
	RetentionWindow time.Duration `env:"RETENTION_WINDOW"`
}

// Workers contains background worker settings.
type Workers struct {
	// RetryInterval defines how often the background job retries
	// draining pending queue items while online.
	// Env: WORKERS_RETRY_INTERVAL
	RetryInterval time.Duration `env:"RETRY_INTERVAL"`

	// ProbeInterval defines how often the connection monitor probes the
	// remote endpoint for reachability.
	// Env: WORKERS_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`
}
