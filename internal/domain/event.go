package domain

import (
	"context"
	"time"
)

// Position is a map coordinate in decimal degrees.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DefaultPosition is the fallback pin used until the user taps the map (Calgary).
var DefaultPosition = Position{Latitude: 51.0447, Longitude: -114.0719}

// DefaultOrganizerID is the organizer attached to every event created in a session.
const DefaultOrganizerID = "EF-B200"

// EventDraft is the not-yet-submitted event owned by a single creation form.
// VolunteersNeeded keeps the raw text the user typed; it is parsed on submit.
type EventDraft struct {
	Name             string
	Description      string
	VolunteersNeeded string
	DateTime         time.Time
	Position         Position
	Image            ImageRef
	OrganizerID      string
}

// NewEventDraft returns a draft with the form defaults applied.
func NewEventDraft(now time.Time, position Position, organizerID string) EventDraft {
	if organizerID == "" {
		organizerID = DefaultOrganizerID
	}
	return EventDraft{
		DateTime:    now,
		Position:    position,
		Image:       NoImage(),
		OrganizerID: organizerID,
	}
}

// EventPayload is the JSON body sent when creating an event.
// A nil VolunteersNeeded encodes as null, which is what a NaN headcount becomes on the wire.
type EventPayload struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	ImageURL         *string  `json:"imageUrl"`
	DateTime         string   `json:"dateTime"`
	VolunteersNeeded *int     `json:"volunteersNeeded"`
	OrganizerID      string   `json:"organizerId"`
	Position         Position `json:"position"`
}

// EventRecord is a server-confirmed event as returned by the list endpoint.
type EventRecord struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	ImageURL         *string  `json:"imageUrl"`
	DateTime         string   `json:"dateTime"`
	VolunteersNeeded *int     `json:"volunteersNeeded"`
	OrganizerID      string   `json:"organizerId"`
	Position         Position `json:"position"`
}

// EventsAPI is the remote events service.
type EventsAPI interface {
	ListEvents(ctx context.Context) ([]EventRecord, error)
	CreateEvent(ctx context.Context, payload EventPayload) error
}
