package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"eventadmission/internal/domain"
)

type registrationLedger struct {
	DB *sql.DB
}

// NewRegistrationLedger returns a RegistrationLedger backed by postgres.
func NewRegistrationLedger(db *sql.DB) domain.RegistrationLedger {
	return &registrationLedger{
		DB: db,
	}
}

const registrationColumns = `id, event_id, participant_id, status, requested_at, checked_in, created_at, updated_at`

func scanRegistration(row interface{ Scan(...any) error }) (*domain.Registration, error) {
	reg := &domain.Registration{}
	err := row.Scan(&reg.ID, &reg.EventID, &reg.ParticipantID, &reg.Status,
		&reg.RequestedAt, &reg.CheckedIn, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *registrationLedger) Create(ctx context.Context, reg *domain.Registration) error {
	// The ID is assigned here rather than by the database so the waitlist
	// tie-break key is fixed before the row is written.
	reg.ID = uuid.New().String()
	query := `
		INSERT INTO registrations (id, event_id, participant_id, status, requested_at, checked_in, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		reg.ID, reg.EventID, reg.ParticipantID, reg.Status,
		reg.RequestedAt, reg.CheckedIn, reg.CreatedAt, reg.UpdatedAt)
	return err
}

func (r *registrationLedger) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE id = $1
	`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationLedger) Update(ctx context.Context, reg *domain.Registration) error {
	query := `
		UPDATE registrations
		SET status = $2, checked_in = $3, updated_at = $4
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, reg.ID, reg.Status, reg.CheckedIn, reg.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrRegistrationNotFound
	}
	return nil
}

func (r *registrationLedger) GetActiveByEventAndParticipant(ctx context.Context, eventID, participantID string) (*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1 AND participant_id = $2 AND status <> $3
	`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, eventID, participantID, domain.StatusCancelled))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationLedger) ListByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1
		ORDER BY requested_at ASC, id ASC
	`
	return r.list(ctx, query, eventID)
}

func (r *registrationLedger) ListByParticipant(ctx context.Context, participantID string) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE participant_id = $1
		ORDER BY requested_at DESC
	`
	return r.list(ctx, query, participantID)
}

func (r *registrationLedger) list(ctx context.Context, query string, arg any) ([]*domain.Registration, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}

func (r *registrationLedger) CountByEventAndStatus(ctx context.Context, eventID string, status domain.Status) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM registrations
		WHERE event_id = $1 AND status = $2
	`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, eventID, status).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *registrationLedger) FirstWaitlisted(ctx context.Context, eventID string) (*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1 AND status = $2
		ORDER BY requested_at ASC, id ASC
		LIMIT 1
	`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, eventID, domain.StatusWaitlisted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}
