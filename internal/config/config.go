package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration for the service. It is built once
// at startup and passed explicitly to the components that need it; there is
// no package-level state.
type Config struct {
	// GoogleClientID and GoogleClientSecret identify this application to
	// Google's OAuth consent screen.
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	// RedirectURL is where Google sends the user back after consent. It
	// must match an authorized redirect URI on the OAuth client.
	RedirectURL string `env:"REDIRECT_URL" envDefault:"http://localhost:8080/auth/callback"`

	// ListenAddr is the bind address for the HTTP API.
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	// DatabasePath is the SQLite file holding per-user credentials.
	DatabasePath string `env:"DATABASE_PATH" envDefault:"calgate.db"`

	// CalendarID is the calendar all event operations target.
	CalendarID string `env:"CALENDAR_ID" envDefault:"primary"`

	// EventTimeZone is the IANA zone label nested under event start and
	// end times sent to the calendar service.
	EventTimeZone string `env:"EVENT_TIME_ZONE" envDefault:"Asia/Kolkata"`

	// MetricsEnabled and MetricsAddr control the dedicated Prometheus
	// metrics listener.
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	MetricsAddr    string `env:"METRICS_ADDR" envDefault:":9090"`

	// Debug lowers the log level to debug.
	Debug bool `env:"DEBUG" envDefault:"false"`
}

// FromEnv loads configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks that required fields are present.
func (c Config) Validate() error {
	if c.GoogleClientID == "" {
		return fmt.Errorf("google client id is required")
	}
	if c.GoogleClientSecret == "" {
		return fmt.Errorf("google client secret is required")
	}
	if c.RedirectURL == "" {
		return fmt.Errorf("redirect url is required")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen addr is required")
	}
	return nil
}
