// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the process environment via caarlos0/env,
// following the `env` and `envPrefix` tags on [StructuredConfig] and the
// client config types. A parse failure (unset required variable, value
// that does not convert) comes back wrapped.
func parseEnv(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
