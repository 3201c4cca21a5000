package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventadmission/internal/domain"
)

type participantDirectory struct {
	DB *sql.DB
}

// NewParticipantDirectory returns a ParticipantDirectory backed by the
// participants table. Participant records themselves are owned by the
// user-management collaborator; the admission core only checks existence.
func NewParticipantDirectory(db *sql.DB) domain.ParticipantDirectory {
	return &participantDirectory{
		DB: db,
	}
}

func (r *participantDirectory) Exists(ctx context.Context, participantID string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM participants WHERE id = $1)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, participantID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *participantDirectory) EmailFor(ctx context.Context, participantID string) (string, error) {
	query := `
		SELECT email FROM participants WHERE id = $1
	`
	var email string
	if err := r.DB.QueryRowContext(ctx, query, participantID).Scan(&email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrParticipantNotFound
		}
		return "", err
	}
	return email, nil
}
