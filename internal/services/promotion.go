package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventadmission/internal/domain"
)

// promoteWaitlisted fills every free slot on the event from the head of the
// waitlist, in strict (requested_at, id) order. It returns the promoted
// registrations so the caller can dispatch notifications after releasing
// the event lock.
//
// Must be called with the event's lock held: the loop condition (a free
// slot exists AND someone is waitlisted) and the status write form one
// critical section, otherwise two concurrent promotions can both claim the
// same slot.
func (s *admissionService) promoteWaitlisted(ctx context.Context, event *domain.Event) ([]*domain.Registration, error) {
	var promoted []*domain.Registration
	for {
		avail, err := s.capacity.availableSlots(ctx, event)
		if err != nil {
			return promoted, err
		}
		if avail == 0 {
			return promoted, nil
		}
		next, err := s.ledger.FirstWaitlisted(ctx, event.ID)
		if err != nil {
			if errors.Is(err, domain.ErrRegistrationNotFound) {
				return promoted, nil
			}
			return promoted, fmt.Errorf("next waitlisted: %w", err)
		}
		// WAITLISTED -> CONFIRMED is reachable only through this loop.
		if err := next.Transition(domain.StatusConfirmed, time.Now().UTC()); err != nil {
			return promoted, fmt.Errorf("promote registration %s: %w", next.ID, err)
		}
		if err := s.ledger.Update(ctx, next); err != nil {
			return promoted, fmt.Errorf("persist promotion of %s: %w", next.ID, err)
		}
		promoted = append(promoted, next)
	}
}
