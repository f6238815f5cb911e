package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "client-id", cfg.GoogleClientID)
	assert.Equal(t, "http://localhost:8080/auth/callback", cfg.RedirectURL)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "calgate.db", cfg.DatabasePath)
	assert.Equal(t, "primary", cfg.CalendarID)
	assert.Equal(t, "Asia/Kolkata", cfg.EventTimeZone)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.False(t, cfg.Debug)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("EVENT_TIME_ZONE", "UTC")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("DEBUG", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, "UTC", cfg.EventTimeZone)
	assert.False(t, cfg.MetricsEnabled)
	assert.True(t, cfg.Debug)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg: Config{
				GoogleClientID:     "id",
				GoogleClientSecret: "secret",
				RedirectURL:        "http://localhost:8080/auth/callback",
				ListenAddr:         ":8080",
			},
		},
		{
			name: "missing client id",
			cfg: Config{
				GoogleClientSecret: "secret",
				RedirectURL:        "http://localhost:8080/auth/callback",
				ListenAddr:         ":8080",
			},
			wantErr: "client id",
		},
		{
			name: "missing client secret",
			cfg: Config{
				GoogleClientID: "id",
				RedirectURL:    "http://localhost:8080/auth/callback",
				ListenAddr:     ":8080",
			},
			wantErr: "client secret",
		},
		{
			name: "missing redirect url",
			cfg: Config{
				GoogleClientID:     "id",
				GoogleClientSecret: "secret",
				ListenAddr:         ":8080",
			},
			wantErr: "redirect url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
