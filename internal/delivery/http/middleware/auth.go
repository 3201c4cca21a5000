package middleware

import (
	"context"
	"net/http"
	"strings"

	h "eventadmission/internal/delivery/http/helpers"
	"eventadmission/internal/domain"
)

type contextKey string

const participantIDKey contextKey = "participantID"

// SetParticipantID returns a context with the participant ID set. Used by
// the auth middleware and by tests.
func SetParticipantID(ctx context.Context, participantID string) context.Context {
	return context.WithValue(ctx, participantIDKey, participantID)
}

// ParticipantIDFromContext returns the authenticated participant ID from the
// context, if present.
func ParticipantIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(participantIDKey).(string)
	return id, ok
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the
// participant ID in the request context. If the token is missing or invalid,
// it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			participantID, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetParticipantID(r.Context(), participantID))
			next(w, r)
		}
	}
}
