package domain

import (
	"context"
	"time"
)

// Event carries the event facts the admission core needs: capacity, the
// registration window, and the scheduled start. Content details (title
// aside, description, media, venue) belong to the event-management
// collaborator and are out of scope here.
// swagger:model Event
type Event struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Capacity is positive and immutable once registrations exist, except
	// through the explicit capacity-increase operation.
	Capacity         int       `json:"capacity"`
	RegistrationOpen bool      `json:"registration_open"`
	StartsAt         time.Time `json:"starts_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewEvent returns a new Event. ID is typically set by the repository on create.
func NewEvent(name string, capacity int, startsAt time.Time, registrationOpen bool, createdAt time.Time) *Event {
	return &Event{
		Name:             name,
		Capacity:         capacity,
		RegistrationOpen: registrationOpen,
		StartsAt:         startsAt,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
}

// HasStarted reports whether the event's scheduled start has passed at now.
func (e *Event) HasStarted(now time.Time) bool {
	return !now.Before(e.StartsAt)
}

// EventService manages the event facts the admission core reads: creation
// with a capacity, and the registration window. Capacity increases go
// through the AdmissionService since they trigger promotions.
type EventService interface {
	CreateEvent(ctx context.Context, name string, capacity int, startsAt time.Time, registrationOpen bool) (*Event, error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	SetRegistrationOpen(ctx context.Context, eventID string, open bool) (*Event, error)
}

// EventRepository defines storage for event facts. Implementations return
// ErrEventNotFound for missing events.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// UpdateCapacity persists a new capacity for the event.
	UpdateCapacity(ctx context.Context, id string, capacity int, updatedAt time.Time) error
	// SetRegistrationOpen opens or closes the registration window.
	SetRegistrationOpen(ctx context.Context, id string, open bool, updatedAt time.Time) error
}
