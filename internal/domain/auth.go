package domain

// TokenVerifier validates a bearer token issued by the identity
// collaborator and returns the participant ID it was issued for.
type TokenVerifier interface {
	Verify(token string) (participantID string, err error)
}
