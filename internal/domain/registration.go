package domain

import (
	"context"
	"time"
)

// Registration is one participant's admission record for one event. Records
// are never deleted: cancellation is a terminal status, so the ledger keeps
// the full history for auditing.
// swagger:model Registration
type Registration struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	ParticipantID string    `json:"participant_id"`
	Status        Status    `json:"status"`
	// RequestedAt is the sole waitlist ordering key; ties break on ID ascending.
	RequestedAt time.Time `json:"requested_at"`
	// CheckedIn is meaningful only while Status is CONFIRMED or ATTENDED.
	CheckedIn bool      `json:"checked_in"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRegistration creates a Registration in its initial status. ID is
// typically set by the ledger on create.
func NewRegistration(eventID, participantID string, status Status, requestedAt time.Time) *Registration {
	return &Registration{
		EventID:       eventID,
		ParticipantID: participantID,
		Status:        status,
		RequestedAt:   requestedAt,
		CreatedAt:     requestedAt,
		UpdatedAt:     requestedAt,
	}
}

// Transition moves the registration to target if the lifecycle permits it,
// stamping UpdatedAt. It returns *IllegalStatusTransitionError otherwise.
// All status mutation goes through here; callers must not assign Status
// directly.
func (r *Registration) Transition(target Status, at time.Time) error {
	if !r.Status.CanTransition(target) {
		return &IllegalStatusTransitionError{From: r.Status, To: target}
	}
	r.Status = target
	r.UpdatedAt = at
	return nil
}

// RegistrationLedger is the durable store of registration records.
// Implementations must return ErrRegistrationNotFound for missing records
// and must honor the (requested_at, id) ordering in FirstWaitlisted.
type RegistrationLedger interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	// Update persists the current status and checked_in flag of reg.
	Update(ctx context.Context, reg *Registration) error
	// GetActiveByEventAndParticipant returns the participant's non-cancelled
	// registration for the event, or ErrRegistrationNotFound.
	GetActiveByEventAndParticipant(ctx context.Context, eventID, participantID string) (*Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Registration, error)
	ListByParticipant(ctx context.Context, participantID string) ([]*Registration, error)
	// CountByEventAndStatus counts ledger rows; the confirmed count is always
	// derived this way, never kept as a separate counter.
	CountByEventAndStatus(ctx context.Context, eventID string, status Status) (int, error)
	// FirstWaitlisted returns the waitlisted registration with the smallest
	// (requested_at, id), or ErrRegistrationNotFound when the waitlist is empty.
	FirstWaitlisted(ctx context.Context, eventID string) (*Registration, error)
}
