// Package config loads the runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration. An empty DatabaseDSN selects the
// in-memory store.
type Config struct {
	DatabaseDSN string        `env:"MANTENIX_DATABASE_DSN"`
	MetricsAddr string        `env:"MANTENIX_METRICS_ADDR" envDefault:":2112"`
	LogLevel    string        `env:"MANTENIX_LOG_LEVEL"    envDefault:"info"`
	JWTSecret   string        `env:"MANTENIX_JWT_SECRET"   envDefault:"development-secret-change-me-please"`
	AccessTTL   time.Duration `env:"MANTENIX_ACCESS_TTL"   envDefault:"15m"`
	RefreshTTL  time.Duration `env:"MANTENIX_REFRESH_TTL"  envDefault:"720h"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
