package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/api/option"

	"github.com/calgate/calgate/internal/config"
	"github.com/calgate/calgate/internal/google"
	"github.com/calgate/calgate/internal/instrumentation"
	"github.com/calgate/calgate/internal/store"
)

const (
	// DefaultReadHeaderTimeout bounds how long a client may take to send
	// request headers.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultShutdownTimeout is the default timeout for graceful server
	// shutdown.
	DefaultShutdownTimeout = 30 * time.Second
)

// Server is the HTTP surface of the service: the authorization entry
// points and the event operations.
type Server struct {
	cfg     config.Config
	flow    *google.Flow
	store   *store.Store
	metrics *instrumentation.Metrics
	health  *HealthChecker

	httpServer *http.Server

	// now is a clock hook for tests.
	now func() time.Time

	// calendarOpts are appended when constructing calendar clients,
	// letting tests point API calls at a local server.
	calendarOpts []option.ClientOption
}

// New creates a Server wired to the given flow, store and metrics recorder.
// The metrics recorder may be nil; recording is then a no-op.
func New(cfg config.Config, flow *google.Flow, st *store.Store, metrics *instrumentation.Metrics) *Server {
	s := &Server{
		cfg:     cfg,
		flow:    flow,
		store:   st,
		metrics: metrics,
		now:     time.Now,
	}
	s.health = NewHealthChecker(st)
	return s
}

// Handler returns the fully routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /authorize", s.handleAuthorize)
	mux.HandleFunc("GET /auth/callback", s.handleAuthCallback)

	mux.HandleFunc("POST /events", s.handleCreateEvent)
	mux.HandleFunc("GET /events", s.handleListEvents)
	mux.HandleFunc("PATCH /events", s.handleUpdateEvent)
	mux.HandleFunc("DELETE /events", s.handleDeleteEvent)

	mux.Handle("GET /healthz", s.health.LivenessHandler())
	mux.Handle("GET /readyz", s.health.ReadinessHandler())

	return s.withObservability(mux)
}

// Start runs the HTTP server until the listener fails or Shutdown is
// called. Blocking; run in a goroutine for non-blocking operation.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
	}

	slog.Info("starting http server", "addr", s.cfg.ListenAddr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	if s.httpServer != nil {
		slog.Info("shutting down http server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
