package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-r remote document service base URL
//	-d local database DSN (SQLite file path)
//	-c/-config json file path with configs
//	-request-timeout outbound request timeout (e.g., "15s")
//	-flush-timeout shutdown flush timeout (e.g., "2s")
//	-retry-interval background drain retry interval (e.g., "30s")
//	-probe-interval connectivity probe interval (e.g., "10s")
//	-retention-window synced draft retention window (e.g., "720h")
func ParseFlags() *StructuredConfig {
	var remoteBaseURL string
	var databaseDSN string
	var jsonConfigPath string
	var requestTimeout time.Duration
	var flushTimeout time.Duration
	var retryInterval time.Duration
	var probeInterval time.Duration
	var retentionWindow time.Duration

	flag.StringVar(&remoteBaseURL, "r", "", "Remote document service base URL")
	flag.StringVar(&databaseDSN, "d", "", "Local database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s)")
	flag.DurationVar(&flushTimeout, "flush-timeout", 0, "Shutdown flush timeout (e.g., 2s)")
	flag.DurationVar(&retryInterval, "retry-interval", 0, "Background drain retry interval (e.g., 30s)")
	flag.DurationVar(&probeInterval, "probe-interval", 0, "Connectivity probe interval (e.g., 10s)")
	flag.DurationVar(&retentionWindow, "retention-window", 0, "Synced draft retention window (e.g., 720h)")

	flag.Parse()

	return &StructuredConfig{
		Remote: Remote{
			BaseURL:        remoteBaseURL,
			RequestTimeout: requestTimeout,
			FlushTimeout:   flushTimeout,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Sync: Sync{
			RetentionWindow: retentionWindow,
		},
		Workers: Workers{
			RetryInterval: retryInterval,
			ProbeInterval: probeInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}
