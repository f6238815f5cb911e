package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/calgate/calgate/internal/store"
)

// Health status constants for health check responses.
const (
	healthStatusOK       = "ok"
	healthStatusNotReady = "not ready"
)

// readinessCheckTimeout bounds the store ping in the readiness probe.
const readinessCheckTimeout = 2 * time.Second

// HealthChecker provides health check endpoints for liveness and
// readiness probes.
type HealthChecker struct {
	// ready indicates whether the server is ready to receive traffic
	ready atomic.Bool
	// store is pinged by the readiness check
	store *store.Store
}

// NewHealthChecker creates a new HealthChecker. The server starts ready.
func NewHealthChecker(st *store.Store) *HealthChecker {
	h := &HealthChecker{store: st}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns whether the server is ready to receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// HealthResponse represents the JSON response for health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LivenessHandler returns an HTTP handler for the /healthz endpoint.
// Liveness indicates whether the process should be restarted, so it is a
// plain process-is-running check.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler returns an HTTP handler for the /readyz endpoint.
// Readiness fails while shutting down or when the credential store is
// unreachable.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.ready.Load() {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: healthStatusNotReady})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), readinessCheckTimeout)
		defer cancel()

		checks := map[string]string{"store": healthStatusOK}
		status := http.StatusOK
		response := HealthResponse{Status: healthStatusOK, Checks: checks}

		if err := h.store.Ping(ctx); err != nil {
			checks["store"] = err.Error()
			response.Status = healthStatusNotReady
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, response)
	})
}
