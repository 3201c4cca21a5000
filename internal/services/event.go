package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventadmission/internal/domain"
)

type eventService struct {
	events         domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService creates an EventService over the given repository.
func NewEventService(events domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		events:         events,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, name string, capacity int, startsAt time.Time, registrationOpen bool) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: event name is required", domain.ErrInvalidInput)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be a positive integer", domain.ErrInvalidCapacity)
	}

	event := domain.NewEvent(name, capacity, startsAt.UTC(), registrationOpen, time.Now().UTC())
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if err == domain.ErrEventNotFound {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) SetRegistrationOpen(ctx context.Context, eventID string, open bool) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := s.events.SetRegistrationOpen(ctx, eventID, open, now); err != nil {
		return nil, fmt.Errorf("set registration window: %w", err)
	}
	event.RegistrationOpen = open
	event.UpdatedAt = now
	return event, nil
}
