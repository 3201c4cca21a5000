package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventadmission/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (name, capacity, registration_open, starts_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		event.Name, event.Capacity, event.RegistrationOpen, event.StartsAt,
		event.CreatedAt, event.UpdatedAt).
		Scan(&event.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, name, capacity, registration_open, starts_at, created_at, updated_at
		FROM events
		WHERE id = $1
	`
	event := &domain.Event{}
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&event.ID, &event.Name, &event.Capacity, &event.RegistrationOpen,
			&event.StartsAt, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) UpdateCapacity(ctx context.Context, id string, capacity int, updatedAt time.Time) error {
	query := `
		UPDATE events
		SET capacity = $2, updated_at = $3
		WHERE id = $1
	`
	return r.exec(ctx, query, id, capacity, updatedAt)
}

func (r *eventRepository) SetRegistrationOpen(ctx context.Context, id string, open bool, updatedAt time.Time) error {
	query := `
		UPDATE events
		SET registration_open = $2, updated_at = $3
		WHERE id = $1
	`
	return r.exec(ctx, query, id, open, updatedAt)
}

func (r *eventRepository) exec(ctx context.Context, query string, id string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
