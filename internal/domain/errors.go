package domain

import "errors"

// Sentinel errors shared across the admission core. Services wrap these with
// context; controllers map them to HTTP status codes with errors.Is.
var (
	ErrEventNotFound        = errors.New("event not found")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrRegistrationNotFound = errors.New("registration not found")

	// ErrEventNotOpen means the event is not currently accepting registrations.
	ErrEventNotOpen = errors.New("event is not open for registration")

	// ErrDuplicateActiveRegistration means the participant already holds a
	// non-cancelled registration for the event.
	ErrDuplicateActiveRegistration = errors.New("participant already has an active registration for this event")

	// ErrEventNotStarted means a no-show was recorded before the event's
	// scheduled start time.
	ErrEventNotStarted = errors.New("event has not started yet")

	// ErrInvalidCapacity means a capacity change was rejected, e.g. a
	// decrease or a value below the current confirmed count.
	ErrInvalidCapacity = errors.New("invalid capacity")

	// ErrInvalidInput means the request failed basic validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrContention means the per-event critical section could not be
	// entered before the caller's deadline. The operation was not applied
	// and is safe to retry.
	ErrContention = errors.New("event is contended, retry the operation")
)
