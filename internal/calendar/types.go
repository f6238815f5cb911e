package calendar

import (
	calendar "google.golang.org/api/calendar/v3"
)

// defaultSummary is used when an inbound event carries no summary.
const defaultSummary = "Sample Event"

// EventInput is the inbound payload for creating an event. Start and End
// are date-time strings passed through to the calendar service untouched;
// the service validates them against the configured zone label.
type EventInput struct {
	Summary     string `json:"summary"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
}

// EventPatch is a sparse update: nil fields are left untouched on the
// existing event. Start and End patch only the nested date-time, keeping
// the event's zone label.
type EventPatch struct {
	Summary     *string `json:"summary"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	Start       *string `json:"start"`
	End         *string `json:"end"`
}

// Empty reports whether the patch carries no fields at all.
func (p EventPatch) Empty() bool {
	return p.Summary == nil && p.Location == nil && p.Description == nil &&
		p.Start == nil && p.End == nil
}

// Event is the outbound representation of a calendar event.
type Event struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Status      string `json:"status,omitempty"`
	HTMLLink    string `json:"htmlLink,omitempty"`
}

// buildEvent translates an inbound payload into the remote representation,
// applying the create defaults and nesting start and end under the fixed
// zone label.
func buildEvent(input EventInput, timeZone string) *calendar.Event {
	summary := input.Summary
	if summary == "" {
		summary = defaultSummary
	}

	return &calendar.Event{
		Summary:     summary,
		Location:    input.Location,
		Description: input.Description,
		Start: &calendar.EventDateTime{
			DateTime: input.Start,
			TimeZone: timeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: input.End,
			TimeZone: timeZone,
		},
	}
}

// applyPatch merges only the present patch fields into an existing remote
// event. Omitted fields, including the nested start and end date-times,
// are left exactly as fetched.
func applyPatch(existing *calendar.Event, patch EventPatch) {
	if patch.Summary != nil {
		existing.Summary = *patch.Summary
	}
	if patch.Location != nil {
		existing.Location = *patch.Location
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	if patch.Start != nil {
		if existing.Start == nil {
			existing.Start = &calendar.EventDateTime{}
		}
		existing.Start.DateTime = *patch.Start
	}
	if patch.End != nil {
		if existing.End == nil {
			existing.End = &calendar.EventDateTime{}
		}
		existing.End.DateTime = *patch.End
	}
}

// toEvent converts a remote calendar event to the outbound representation.
func toEvent(event *calendar.Event) Event {
	if event == nil {
		return Event{}
	}

	result := Event{
		ID:          event.Id,
		Summary:     event.Summary,
		Location:    event.Location,
		Description: event.Description,
		Status:      event.Status,
		HTMLLink:    event.HtmlLink,
	}

	if event.Start != nil {
		result.Start = event.Start.DateTime
		if result.Start == "" {
			result.Start = event.Start.Date
		}
	}
	if event.End != nil {
		result.End = event.End.DateTime
		if result.End == "" {
			result.End = event.End.Date
		}
	}

	return result
}
