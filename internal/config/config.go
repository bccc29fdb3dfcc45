// Package config loads service settings from the environment and .env files.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the service settings.
type Config struct {
	DBPath    string `env:"ASSETDESK_DB" envDefault:"assetdesk.sqlite3"`
	Addr      string `env:"ASSETDESK_ADDR" envDefault:":8080"`
	AdminUser string `env:"ASSETDESK_ADMIN_USER" envDefault:"Admin"`
	LogPath   string `env:"ASSETDESK_LOG"`

	// Tenant names the organization in issued tokens.
	Tenant string `env:"ASSETDESK_TENANT"`

	// TimeZone is used to render dates in change records.
	TimeZone string `env:"DISPLAY_TIMEZONE" envDefault:"UTC"`

	Office     OfficeOptions
	Prometheus PrometheusOptions
}

// OfficeOptions configures where the default office is read from. An empty URL
// uses the local database.
type OfficeOptions struct {
	URL     string        `env:"OFFICE_API_URL"`
	Token   string        `env:"OFFICE_API_TOKEN"`
	Timeout time.Duration `env:"OFFICE_API_TIMEOUT" envDefault:"10s"`
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/metrics"`
}

// LoadEnv loads the env files that exist. Variables already set win.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads .env files and the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env", ".env.local"}
	}
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, fmt.Errorf("loading env files: %w", err)
	}

	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the settings for errors.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Office.Timeout < 0 {
		return fmt.Errorf("office API timeout must be non-negative, got %s", c.Office.Timeout)
	}
	return nil
}

// Location returns the display time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid display time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
