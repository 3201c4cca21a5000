package domain

import "fmt"

// Status is the lifecycle state of a registration.
// swagger:model Status
type Status string

const (
	StatusWaitlisted Status = "WAITLISTED"
	StatusConfirmed  Status = "CONFIRMED"
	StatusCancelled  Status = "CANCELLED"
	StatusAttended   Status = "ATTENDED"
	StatusNoShow     Status = "NO_SHOW"
)

// legalTransitions is the single source of truth for the registration
// lifecycle. Anything not listed here is illegal.
var legalTransitions = map[Status][]Status{
	StatusWaitlisted: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusCancelled, StatusAttended, StatusNoShow},
	// CANCELLED, ATTENDED and NO_SHOW are terminal.
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusWaitlisted, StatusConfirmed, StatusCancelled, StatusAttended, StatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are permitted out of s.
func (s Status) Terminal() bool {
	return s.Valid() && len(legalTransitions[s]) == 0
}

// Active reports whether the registration still occupies a place in the
// event's books: everything except CANCELLED counts as active for the
// one-active-registration-per-participant rule.
func (s Status) Active() bool {
	return s != StatusCancelled
}

// CanTransition reports whether moving from s to target is legal.
func (s Status) CanTransition(target Status) bool {
	for _, t := range legalTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IllegalStatusTransitionError is returned when a registration is asked to
// move along an edge the lifecycle does not define.
type IllegalStatusTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalStatusTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition from %s to %s", e.From, e.To)
}
