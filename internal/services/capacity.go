package services

import (
	"context"
	"fmt"

	"eventadmission/internal/domain"
)

// capacityTracker derives an event's occupancy from the ledger. There is no
// stored counter; counts are recomputed from registration rows so they can
// never drift from the ledger. Callers that go on to write (admission,
// promotion) must hold the event's lock across the read and the write.
type capacityTracker struct {
	ledger domain.RegistrationLedger
}

// confirmedCount is the number of CONFIRMED registrations for the event.
func (t capacityTracker) confirmedCount(ctx context.Context, eventID string) (int, error) {
	n, err := t.ledger.CountByEventAndStatus(ctx, eventID, domain.StatusConfirmed)
	if err != nil {
		return 0, fmt.Errorf("count confirmed: %w", err)
	}
	return n, nil
}

// occupiedCount is the number of registrations holding a slot. A checked-in
// (ATTENDED) participant still occupies their seat; only CANCELLED and
// NO_SHOW free it.
func (t capacityTracker) occupiedCount(ctx context.Context, eventID string) (int, error) {
	confirmed, err := t.confirmedCount(ctx, eventID)
	if err != nil {
		return 0, err
	}
	attended, err := t.ledger.CountByEventAndStatus(ctx, eventID, domain.StatusAttended)
	if err != nil {
		return 0, fmt.Errorf("count attended: %w", err)
	}
	return confirmed + attended, nil
}

// availableSlots is capacity minus occupied slots, never negative.
func (t capacityTracker) availableSlots(ctx context.Context, event *domain.Event) (int, error) {
	occupied, err := t.occupiedCount(ctx, event.ID)
	if err != nil {
		return 0, err
	}
	avail := event.Capacity - occupied
	if avail < 0 {
		avail = 0
	}
	return avail, nil
}
