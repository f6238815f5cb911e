package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Client wraps the Google Calendar service for a single resolved identity.
// It holds no credential state of its own; the authenticated HTTP client it
// is built from is borrowed for the duration of one request.
type Client struct {
	svc        *calendar.Service
	calendarID string
	timeZone   string
}

// NewClient creates a Calendar client from an authenticated HTTP client.
// calendarID is the calendar all operations target; timeZone is the zone
// label nested under event start and end times.
func NewClient(ctx context.Context, httpClient *http.Client, calendarID, timeZone string, opts ...option.ClientOption) (*Client, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client cannot be nil")
	}

	allOpts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := calendar.NewService(ctx, allOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:        svc,
		calendarID: calendarID,
		timeZone:   timeZone,
	}, nil
}

// CreateEvent inserts a new event built from the inbound payload. A missing
// summary falls back to a placeholder; location and description default to
// empty.
func (c *Client) CreateEvent(input EventInput) (Event, error) {
	body := buildEvent(input, c.timeZone)

	created, err := c.svc.Events.Insert(c.calendarID, body).Do()
	if err != nil {
		return Event{}, fmt.Errorf("failed to create event: %w", err)
	}

	return toEvent(created), nil
}

// ListEvents lists events within a time range, ordered by start time with
// single-occurrence expansion enabled.
func (c *Client) ListEvents(timeMin, timeMax time.Time) ([]Event, error) {
	result, err := c.svc.Events.List(c.calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]Event, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, toEvent(item))
	}

	return events, nil
}

// UpdateEvent fetches the existing event, merges only the fields present in
// the patch, and writes the merged object back.
func (c *Client) UpdateEvent(eventID string, patch EventPatch) (Event, error) {
	existing, err := c.svc.Events.Get(c.calendarID, eventID).Do()
	if err != nil {
		return Event{}, fmt.Errorf("failed to get existing event: %w", err)
	}

	applyPatch(existing, patch)

	updated, err := c.svc.Events.Update(c.calendarID, eventID, existing).Do()
	if err != nil {
		return Event{}, fmt.Errorf("failed to update event: %w", err)
	}

	return toEvent(updated), nil
}

// DeleteEvent deletes an event by id.
func (c *Client) DeleteEvent(eventID string) error {
	if err := c.svc.Events.Delete(c.calendarID, eventID).Do(); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
