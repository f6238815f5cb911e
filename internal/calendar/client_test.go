package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// fakeCalendarAPI serves just enough of the Calendar v3 surface for the
// client tests: insert, list, get, update and delete on one calendar.
type fakeCalendarAPI struct {
	t      *testing.T
	events map[string]*calendar.Event

	lastListQuery map[string][]string
}

func (f *fakeCalendarAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/events"):
			var event calendar.Event
			require.NoError(f.t, json.NewDecoder(r.Body).Decode(&event))
			event.Id = "created-id"
			f.events[event.Id] = &event
			_ = json.NewEncoder(w).Encode(&event)

		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/events"):
			f.lastListQuery = r.URL.Query()
			items := make([]*calendar.Event, 0, len(f.events))
			for _, e := range f.events {
				items = append(items, e)
			}
			_ = json.NewEncoder(w).Encode(&calendar.Events{Items: items})

		case r.Method == http.MethodGet:
			event, ok := f.events[pathEventID(r.URL.Path)]
			if !ok {
				http.Error(w, `{"error": {"message": "not found"}}`, http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(event)

		case r.Method == http.MethodPut:
			var event calendar.Event
			require.NoError(f.t, json.NewDecoder(r.Body).Decode(&event))
			event.Id = pathEventID(r.URL.Path)
			f.events[event.Id] = &event
			_ = json.NewEncoder(w).Encode(&event)

		case r.Method == http.MethodDelete:
			id := pathEventID(r.URL.Path)
			if _, ok := f.events[id]; !ok {
				http.Error(w, `{"error": {"message": "not found"}}`, http.StatusNotFound)
				return
			}
			delete(f.events, id)
			w.WriteHeader(http.StatusNoContent)

		default:
			http.Error(w, "unexpected request", http.StatusBadRequest)
		}
	})
}

func pathEventID(path string) string {
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}

func newTestClient(t *testing.T) (*Client, *fakeCalendarAPI) {
	t.Helper()

	api := &fakeCalendarAPI{t: t, events: map[string]*calendar.Event{}}
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), srv.Client(), "primary", "Asia/Kolkata",
		option.WithEndpoint(srv.URL))
	require.NoError(t, err)
	return client, api
}

func TestNewClientRequiresHTTPClient(t *testing.T) {
	_, err := NewClient(context.Background(), nil, "primary", "UTC")
	assert.ErrorContains(t, err, "http client cannot be nil")
}

func TestCreateEvent(t *testing.T) {
	client, api := newTestClient(t)

	created, err := client.CreateEvent(EventInput{
		Summary: "Team sync",
		Start:   "2024-03-15T10:00:00+05:30",
		End:     "2024-03-15T11:00:00+05:30",
	})
	require.NoError(t, err)

	assert.Equal(t, "created-id", created.ID)
	assert.Equal(t, "Team sync", created.Summary)

	stored := api.events["created-id"]
	require.NotNil(t, stored)
	assert.Equal(t, "Asia/Kolkata", stored.Start.TimeZone)
	assert.Equal(t, "Asia/Kolkata", stored.End.TimeZone)
}

func TestCreateEventDefaultSummary(t *testing.T) {
	client, api := newTestClient(t)

	created, err := client.CreateEvent(EventInput{
		Start: "2024-03-15T10:00:00+05:30",
		End:   "2024-03-15T11:00:00+05:30",
	})
	require.NoError(t, err)

	assert.Equal(t, "Sample Event", created.Summary)
	assert.Equal(t, "Sample Event", api.events["created-id"].Summary)
}

func TestListEvents(t *testing.T) {
	client, api := newTestClient(t)
	api.events["evt1"] = &calendar.Event{
		Id:      "evt1",
		Summary: "Existing",
		Start:   &calendar.EventDateTime{DateTime: "2024-02-10T10:00:00Z"},
		End:     &calendar.EventDateTime{DateTime: "2024-02-10T11:00:00Z"},
	}

	timeMin := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	timeMax := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)

	events, err := client.ListEvents(timeMin, timeMax)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "evt1", events[0].ID)

	q := api.lastListQuery
	assert.Equal(t, []string{"2024-02-01T00:00:00Z"}, q["timeMin"])
	assert.Equal(t, []string{"2024-02-29T23:59:59Z"}, q["timeMax"])
	assert.Equal(t, []string{"true"}, q["singleEvents"])
	assert.Equal(t, []string{"startTime"}, q["orderBy"])
}

func TestUpdateEventPartialPatch(t *testing.T) {
	client, api := newTestClient(t)
	api.events["evt1"] = existingEvent()

	updated, err := client.UpdateEvent("evt1", EventPatch{Summary: strptr("New")})
	require.NoError(t, err)

	assert.Equal(t, "New", updated.Summary)

	stored := api.events["evt1"]
	assert.Equal(t, "New", stored.Summary)
	assert.Equal(t, "Old location", stored.Location)
	assert.Equal(t, "Old description", stored.Description)
	assert.Equal(t, "2024-03-15T10:00:00+05:30", stored.Start.DateTime)
	assert.Equal(t, "2024-03-15T11:00:00+05:30", stored.End.DateTime)
}

func TestUpdateEventMissing(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.UpdateEvent("ghost", EventPatch{Summary: strptr("New")})
	assert.ErrorContains(t, err, "failed to get existing event")
}

func TestDeleteEvent(t *testing.T) {
	client, api := newTestClient(t)
	api.events["evt1"] = existingEvent()

	require.NoError(t, client.DeleteEvent("evt1"))
	assert.NotContains(t, api.events, "evt1")
}

func TestDeleteEventMissing(t *testing.T) {
	client, _ := newTestClient(t)

	err := client.DeleteEvent("ghost")
	assert.ErrorContains(t, err, "failed to delete event")
}
