package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/calgate/calgate/internal/config"
	"github.com/calgate/calgate/internal/google"
	"github.com/calgate/calgate/internal/instrumentation"
	"github.com/calgate/calgate/internal/logging"
	"github.com/calgate/calgate/internal/server"
	"github.com/calgate/calgate/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		listenAddr         string
		databasePath       string
		googleClientID     string
		googleClientSecret string
		redirectURL        string
		calendarID         string
		eventTimeZone      string
		metricsEnabled     bool
		metricsAddr        string
		debugMode          bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the calendar gateway HTTP server",
		Long: `Start the HTTP server exposing the authorization entry points and the
event operations.

Configuration is read from environment variables (GOOGLE_CLIENT_ID,
GOOGLE_CLIENT_SECRET, REDIRECT_URL, LISTEN_ADDR, DATABASE_PATH, ...);
flags override the environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			// Flags override environment values only when set explicitly.
			if cmd.Flags().Changed("listen-addr") {
				cfg.ListenAddr = listenAddr
			}
			if cmd.Flags().Changed("database") {
				cfg.DatabasePath = databasePath
			}
			if cmd.Flags().Changed("google-client-id") {
				cfg.GoogleClientID = googleClientID
			}
			if cmd.Flags().Changed("google-client-secret") {
				cfg.GoogleClientSecret = googleClientSecret
			}
			if cmd.Flags().Changed("redirect-url") {
				cfg.RedirectURL = redirectURL
			}
			if cmd.Flags().Changed("calendar-id") {
				cfg.CalendarID = calendarID
			}
			if cmd.Flags().Changed("event-time-zone") {
				cfg.EventTimeZone = eventTimeZone
			}
			if cmd.Flags().Changed("metrics-enabled") {
				cfg.MetricsEnabled = metricsEnabled
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.MetricsAddr = metricsAddr
			}
			if cmd.Flags().Changed("debug") {
				cfg.Debug = debugMode
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen-addr", ":8080", "Address for the HTTP server")
	cmd.Flags().StringVar(&databasePath, "database", "calgate.db", "Path to the SQLite credential database")
	cmd.Flags().StringVar(&googleClientID, "google-client-id", "", "Google OAuth client ID")
	cmd.Flags().StringVar(&googleClientSecret, "google-client-secret", "", "Google OAuth client secret")
	cmd.Flags().StringVar(&redirectURL, "redirect-url", "", "OAuth redirect URL registered with Google")
	cmd.Flags().StringVar(&calendarID, "calendar-id", "primary", "Calendar all event operations target")
	cmd.Flags().StringVar(&eventTimeZone, "event-time-zone", "Asia/Kolkata", "Zone label for event start/end times")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Serve Prometheus metrics on a dedicated port")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Address for the metrics server")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	return cmd
}

func runServe(cfg config.Config) error {
	logging.Setup(cfg.Debug)

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			slog.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	st, err := store.Open(shutdownCtx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("credential store close failed", logging.Err(err))
		}
	}()

	flow := google.NewFlow(cfg, st, provider.Metrics())
	srv := server.New(cfg, flow, st, provider.Metrics())

	// Start metrics server if enabled
	var metricsServer *server.MetricsServer
	if cfg.MetricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(cfg.MetricsAddr, provider)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", logging.Err(err))
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case <-shutdownCtx.Done():
		slog.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer stopCancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(stopCtx); err != nil {
			slog.Error("metrics server shutdown failed", logging.Err(err))
		}
	}
	if err := srv.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	return nil
}
