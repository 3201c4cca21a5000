package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventadmission/internal/domain"
)

type admissionService struct {
	logger         *slog.Logger
	events         domain.EventRepository
	ledger         domain.RegistrationLedger
	participants   domain.ParticipantDirectory
	notifier       domain.Notifier
	locks          *eventLocks
	capacity       capacityTracker
	contextTimeout time.Duration
}

// NewAdmissionService creates the admission-control core with its injected
// collaborators. The service is stateless apart from its per-event locks;
// create one instance and share it across callers.
func NewAdmissionService(
	logger *slog.Logger,
	events domain.EventRepository,
	ledger domain.RegistrationLedger,
	participants domain.ParticipantDirectory,
	notifier domain.Notifier,
	timeout time.Duration,
) domain.AdmissionService {
	return &admissionService{
		logger:         logger,
		events:         events,
		ledger:         ledger,
		participants:   participants,
		notifier:       notifier,
		locks:          newEventLocks(),
		capacity:       capacityTracker{ledger: ledger},
		contextTimeout: timeout,
	}
}

func (s *admissionService) RequestRegistration(ctx context.Context, eventID, participantID string, requestedAt time.Time) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	ok, err := s.participants.Exists(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("look up participant: %w", err)
	}
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	if !event.RegistrationOpen {
		return nil, domain.ErrEventNotOpen
	}

	reg, kind, err := s.admit(ctx, eventID, participantID, requestedAt)
	if err != nil {
		return nil, err
	}
	s.dispatch(ctx, kind, reg)
	return reg, nil
}

// admit runs the confirm-or-waitlist decision inside the event's critical
// section: the event read, the duplicate check, the slot read, and the
// ledger write must not interleave with other admissions, promotions, or
// capacity changes for this event.
func (s *admissionService) admit(ctx context.Context, eventID, participantID string, requestedAt time.Time) (*domain.Registration, domain.NotificationKind, error) {
	release, err := s.locks.acquire(ctx, eventID)
	if err != nil {
		return nil, "", err
	}
	defer release()

	// Re-read under the lock; a capacity increase or window change may
	// have committed since the pre-lock checks.
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, "", err
	}
	if !event.RegistrationOpen {
		return nil, "", domain.ErrEventNotOpen
	}

	if _, err := s.ledger.GetActiveByEventAndParticipant(ctx, event.ID, participantID); err == nil {
		return nil, "", domain.ErrDuplicateActiveRegistration
	} else if !errors.Is(err, domain.ErrRegistrationNotFound) {
		return nil, "", fmt.Errorf("check active registration: %w", err)
	}

	avail, err := s.capacity.availableSlots(ctx, event)
	if err != nil {
		return nil, "", err
	}
	status := domain.StatusWaitlisted
	kind := domain.NotificationRegistrationWaitlisted
	if avail > 0 {
		status = domain.StatusConfirmed
		kind = domain.NotificationRegistrationConfirmed
	}
	reg := domain.NewRegistration(event.ID, participantID, status, requestedAt.UTC())
	if err := s.ledger.Create(ctx, reg); err != nil {
		return nil, "", fmt.Errorf("create registration: %w", err)
	}
	return reg, kind, nil
}

func (s *admissionService) CancelRegistration(ctx context.Context, registrationID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, promoted, err := s.transitionAndBackfill(ctx, registrationID, domain.StatusCancelled, nil)
	if err != nil {
		return nil, err
	}
	s.dispatch(ctx, domain.NotificationRegistrationCancelled, reg)
	s.dispatchPromotions(ctx, promoted)
	return reg, nil
}

func (s *admissionService) CheckIn(ctx context.Context, registrationID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.ledger.GetByID(ctx, registrationID)
	if err != nil {
		return nil, s.wrapLedgerGet(err)
	}
	release, err := s.locks.acquire(ctx, reg.EventID)
	if err != nil {
		return nil, err
	}
	defer release()

	// Re-read under the lock; the record may have moved since the first read.
	reg, err = s.ledger.GetByID(ctx, registrationID)
	if err != nil {
		return nil, s.wrapLedgerGet(err)
	}
	if err := reg.Transition(domain.StatusAttended, time.Now().UTC()); err != nil {
		return nil, err
	}
	reg.CheckedIn = true
	if err := s.ledger.Update(ctx, reg); err != nil {
		return nil, fmt.Errorf("persist check-in: %w", err)
	}
	return reg, nil
}

func (s *admissionService) MarkNoShow(ctx context.Context, registrationID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	guard := func(event *domain.Event) error {
		if !event.HasStarted(time.Now().UTC()) {
			return domain.ErrEventNotStarted
		}
		return nil
	}
	reg, promoted, err := s.transitionAndBackfill(ctx, registrationID, domain.StatusNoShow, guard)
	if err != nil {
		return nil, err
	}
	s.dispatch(ctx, domain.NotificationMarkedNoShow, reg)
	s.dispatchPromotions(ctx, promoted)
	return reg, nil
}

// transitionAndBackfill moves a registration into a slot-freeing status
// (CANCELLED or NO_SHOW) and, when the registration held a slot, promotes
// from the waitlist as part of the same critical section. guard, if set,
// runs under the lock with the event loaded.
func (s *admissionService) transitionAndBackfill(ctx context.Context, registrationID string, target domain.Status, guard func(*domain.Event) error) (*domain.Registration, []*domain.Registration, error) {
	reg, err := s.ledger.GetByID(ctx, registrationID)
	if err != nil {
		return nil, nil, s.wrapLedgerGet(err)
	}

	release, err := s.locks.acquire(ctx, reg.EventID)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	// Re-read both records under the lock; either may have moved since
	// the first read, and the promotion below must run against the
	// committed capacity.
	reg, err = s.ledger.GetByID(ctx, registrationID)
	if err != nil {
		return nil, nil, s.wrapLedgerGet(err)
	}
	event, err := s.getEvent(ctx, reg.EventID)
	if err != nil {
		return nil, nil, err
	}
	if guard != nil {
		if err := guard(event); err != nil {
			return nil, nil, err
		}
	}
	freesSlot := reg.Status == domain.StatusConfirmed
	if err := reg.Transition(target, time.Now().UTC()); err != nil {
		return nil, nil, err
	}
	if err := s.ledger.Update(ctx, reg); err != nil {
		return nil, nil, fmt.Errorf("persist transition: %w", err)
	}
	var promoted []*domain.Registration
	if freesSlot {
		promoted, err = s.promoteWaitlisted(ctx, event)
		if err != nil {
			return nil, nil, err
		}
	}
	return reg, promoted, nil
}

func (s *admissionService) IncreaseCapacity(ctx context.Context, eventID string, newCapacity int) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, promoted, err := s.raiseCapacity(ctx, eventID, newCapacity)
	if err != nil {
		return nil, err
	}
	s.dispatchPromotions(ctx, promoted)
	return event, nil
}

// raiseCapacity applies the capacity increase and backfills the freed slots
// inside the event's critical section. The event is loaded under the lock
// so the increase-only check and the promotions run against the committed
// capacity, never a stale snapshot.
func (s *admissionService) raiseCapacity(ctx context.Context, eventID string, newCapacity int) (*domain.Event, []*domain.Registration, error) {
	release, err := s.locks.acquire(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	// Capacity only ever moves up; shrinking below sold seats is the exact
	// failure this operation exists to prevent.
	if newCapacity <= event.Capacity {
		return nil, nil, fmt.Errorf("%w: new capacity %d must exceed current capacity %d",
			domain.ErrInvalidCapacity, newCapacity, event.Capacity)
	}
	now := time.Now().UTC()
	if err := s.events.UpdateCapacity(ctx, event.ID, newCapacity, now); err != nil {
		return nil, nil, fmt.Errorf("update capacity: %w", err)
	}
	event.Capacity = newCapacity
	event.UpdatedAt = now

	promoted, err := s.promoteWaitlisted(ctx, event)
	if err != nil {
		return nil, nil, err
	}
	return event, promoted, nil
}

func (s *admissionService) ListEventRegistrations(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	if _, err := s.getEvent(ctx, eventID); err != nil {
		return nil, err
	}
	regs, err := s.ledger.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}

func (s *admissionService) ListParticipantRegistrations(ctx context.Context, participantID string) ([]*domain.Registration, error) {
	regs, err := s.ledger.ListByParticipant(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}

func (s *admissionService) EventCounts(ctx context.Context, eventID string) (*domain.EventCounts, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	confirmed, err := s.capacity.confirmedCount(ctx, eventID)
	if err != nil {
		return nil, err
	}
	waitlisted, err := s.ledger.CountByEventAndStatus(ctx, eventID, domain.StatusWaitlisted)
	if err != nil {
		return nil, fmt.Errorf("count waitlisted: %w", err)
	}
	avail, err := s.capacity.availableSlots(ctx, event)
	if err != nil {
		return nil, err
	}
	return &domain.EventCounts{
		EventID:    eventID,
		Capacity:   event.Capacity,
		Confirmed:  confirmed,
		Waitlisted: waitlisted,
		Available:  avail,
	}, nil
}

func (s *admissionService) getEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *admissionService) wrapLedgerGet(err error) error {
	if errors.Is(err, domain.ErrRegistrationNotFound) {
		return domain.ErrRegistrationNotFound
	}
	return fmt.Errorf("get registration: %w", err)
}

// dispatch hands a notification to the dispatcher after the state change
// has committed. Delivery is advisory: failures are logged, never returned.
func (s *admissionService) dispatch(ctx context.Context, kind domain.NotificationKind, reg *domain.Registration) {
	n := domain.Notification{
		Kind:           kind,
		EventID:        reg.EventID,
		ParticipantID:  reg.ParticipantID,
		RegistrationID: reg.ID,
		OccurredAt:     time.Now().UTC(),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.WarnContext(ctx, "notification dispatch failed",
			"kind", string(kind), "registration_id", reg.ID, "err", err)
	}
}

func (s *admissionService) dispatchPromotions(ctx context.Context, promoted []*domain.Registration) {
	for _, reg := range promoted {
		s.dispatch(ctx, domain.NotificationRegistrationPromoted, reg)
	}
}
