package domain

import "context"

// ParticipantDirectory is the narrow view of the user-management
// collaborator: whether an identity exists, and where to reach it for
// notifications.
type ParticipantDirectory interface {
	Exists(ctx context.Context, participantID string) (bool, error)
	// EmailFor returns the participant's contact address, or
	// ErrParticipantNotFound.
	EmailFor(ctx context.Context, participantID string) (string, error)
}
