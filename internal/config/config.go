package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/syncuphq/syncup-analytics/internal/domain"
)

// Config holds process configuration, loaded from SYNCUP_-prefixed
// environment variables. CLI flags override individual fields.
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	DataDir   string `envconfig:"DATA_DIR" default:"data"`
	ChartsDir string `envconfig:"CHARTS_DIR" default:"dashboard"`

	Port int `envconfig:"PORT" default:"8501"`

	Seed        int64  `envconfig:"SEED" default:"42"`
	Users       int    `envconfig:"USERS" default:"2000"`
	WindowStart string `envconfig:"WINDOW_START" default:"2024-01-01"`
	WindowEnd   string `envconfig:"WINDOW_END" default:"2024-02-29"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("SYNCUP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

// Window parses and validates the generation window.
func (c *Config) Window() (start, end time.Time, err error) {
	start, err = time.Parse(domain.DateLayout, c.WindowStart)
	if err != nil {
		return start, end, fmt.Errorf("invalid window start %q: %w", c.WindowStart, err)
	}
	end, err = time.Parse(domain.DateLayout, c.WindowEnd)
	if err != nil {
		return start, end, fmt.Errorf("invalid window end %q: %w", c.WindowEnd, err)
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("window end %s before start %s", c.WindowEnd, c.WindowStart)
	}
	return start, end, nil
}
