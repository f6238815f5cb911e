package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/calgate/calgate/internal/calendar"
	"github.com/calgate/calgate/internal/google"
	"github.com/calgate/calgate/internal/logging"
	"github.com/calgate/calgate/internal/timerange"
)

// defaultListQuery is used when the listing operation receives no query
// parameter.
const defaultListQuery = "this month"

type errorResponse struct {
	Error string `json:"error"`
}

type deleteAck struct {
	Status  string `json:"status"`
	EventID string `json:"event_id"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleAuthorize redirects the user into the provider's consent flow.
func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.flow.AuthURL(), http.StatusFound)
}

// handleAuthCallback completes the authorization handshake: it exchanges
// the code the provider appended to the callback URL, learns the identity,
// and persists the credential.
func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing code in query params")
		return
	}

	identity, err := s.flow.CompleteAuthorization(r.Context(), code)
	if err != nil {
		s.metrics.RecordOAuthExchange(r.Context(), logging.StatusError)
		slog.Error("authorization failed", logging.Operation("auth.callback"), logging.Err(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.metrics.RecordOAuthExchange(r.Context(), logging.StatusSuccess)
	slog.Info("authorization complete",
		logging.Operation("auth.callback"),
		logging.IdentityHash(identity))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Authorization successful for %s. You can now POST to /events?email=%s\n", identity, identity)
}

// calendarClient resolves the identity's stored credential into a Calendar
// client for the duration of one request.
func (s *Server) calendarClient(r *http.Request, identity string) (*calendar.Client, error) {
	httpClient, err := s.flow.HTTPClient(r.Context(), identity)
	if err != nil {
		return nil, err
	}
	return calendar.NewClient(r.Context(), httpClient, s.cfg.CalendarID, s.cfg.EventTimeZone, s.calendarOpts...)
}

// redirectOrError sends unauthenticated callers into the consent flow and
// reports everything else as an operation error.
func (s *Server) redirectOrError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, google.ErrNeedsAuthorization) {
		http.Redirect(w, r, "/authorize", http.StatusFound)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	identity := r.URL.Query().Get("email")
	if identity == "" {
		writeError(w, http.StatusBadRequest, "missing email in query params")
		return
	}

	var input calendar.EventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event payload: "+err.Error())
		return
	}

	client, err := s.calendarClient(r, identity)
	if err != nil {
		s.redirectOrError(w, r, err)
		return
	}

	started := s.now()
	created, err := client.CreateEvent(input)
	s.observeCalendarOp(r, "create", "", started, err)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	identity := r.URL.Query().Get("email")
	if identity == "" {
		writeError(w, http.StatusBadRequest, "missing email in query params")
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		query = defaultListQuery
	}

	timeMin, timeMax, err := timerange.FromPhrase(query, s.now())
	if err != nil {
		// The month default still applies; surface the fallback in logs.
		slog.Debug("query phrase fell back to month range",
			logging.Operation("events.list"),
			logging.Err(err))
	}

	client, err := s.calendarClient(r, identity)
	if err != nil {
		s.redirectOrError(w, r, err)
		return
	}

	started := s.now()
	events, err := client.ListEvents(timeMin, timeMax)
	s.observeCalendarOp(r, "list", "", started, err)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	identity := r.URL.Query().Get("email")
	eventID := r.URL.Query().Get("event_id")
	if identity == "" || eventID == "" {
		writeError(w, http.StatusBadRequest, "missing email or event_id in query params")
		return
	}

	var patch calendar.EventPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid patch payload: "+err.Error())
		return
	}
	if patch.Empty() {
		writeError(w, http.StatusBadRequest, "patch contains no fields to update")
		return
	}

	client, err := s.calendarClient(r, identity)
	if err != nil {
		s.redirectOrError(w, r, err)
		return
	}

	started := s.now()
	updated, err := client.UpdateEvent(eventID, patch)
	s.observeCalendarOp(r, "update", eventID, started, err)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	identity := r.URL.Query().Get("email")
	eventID := r.URL.Query().Get("event_id")
	if identity == "" || eventID == "" {
		writeError(w, http.StatusBadRequest, "missing email or event_id in query params")
		return
	}

	client, err := s.calendarClient(r, identity)
	if err != nil {
		s.redirectOrError(w, r, err)
		return
	}

	started := s.now()
	err = client.DeleteEvent(eventID)
	s.observeCalendarOp(r, "delete", eventID, started, err)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, deleteAck{Status: "deleted", EventID: eventID})
}

func (s *Server) observeCalendarOp(r *http.Request, operation, eventID string, started time.Time, err error) {
	status := logging.StatusSuccess
	if err != nil {
		status = logging.StatusError
	}
	duration := s.now().Sub(started)

	s.metrics.RecordCalendarOperation(r.Context(), operation, status, duration)

	attrs := []any{
		logging.Operation("events." + operation),
		logging.IdentityHash(r.URL.Query().Get("email")),
		logging.Status(status),
		logging.Err(err),
		slog.Duration(logging.KeyDuration, duration),
	}
	if eventID != "" {
		attrs = append(attrs, logging.EventID(eventID))
	}
	slog.Info("calendar operation", attrs...)
}
