package domain

import (
	"context"
	"time"
)

// EventCounts is the confirmed/waitlisted snapshot for one event.
// swagger:model EventCounts
type EventCounts struct {
	EventID    string `json:"event_id"`
	Capacity   int    `json:"capacity"`
	Confirmed  int    `json:"confirmed"`
	Waitlisted int    `json:"waitlisted"`
	Available  int    `json:"available"`
}

// AdmissionService is the admission-control core: it decides whether a
// registration request is confirmed or waitlisted, guards the capacity
// invariant, and promotes waitlisted registrations when slots free up.
type AdmissionService interface {
	// RequestRegistration admits the participant to the event, confirming
	// when a slot is free and waitlisting otherwise. requestedAt is the
	// waitlist ordering key.
	RequestRegistration(ctx context.Context, eventID, participantID string, requestedAt time.Time) (*Registration, error)
	// CancelRegistration cancels a waitlisted or confirmed registration.
	// Cancelling a confirmed registration frees a slot and promotes the
	// head of the waitlist.
	CancelRegistration(ctx context.Context, registrationID string) (*Registration, error)
	// CheckIn marks a confirmed registration as attended.
	CheckIn(ctx context.Context, registrationID string) (*Registration, error)
	// MarkNoShow records an absence after the event has started, freeing
	// the slot and promoting from the waitlist.
	MarkNoShow(ctx context.Context, registrationID string) (*Registration, error)
	// IncreaseCapacity raises the event's capacity and promotes waitlisted
	// registrations into the freed slots in arrival order.
	IncreaseCapacity(ctx context.Context, eventID string, newCapacity int) (*Event, error)

	ListEventRegistrations(ctx context.Context, eventID string) ([]*Registration, error)
	ListParticipantRegistrations(ctx context.Context, participantID string) ([]*Registration, error)
	EventCounts(ctx context.Context, eventID string) (*EventCounts, error)
}
