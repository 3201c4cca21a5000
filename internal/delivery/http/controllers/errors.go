package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"eventadmission/internal/delivery/http/helpers"
	"eventadmission/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// writeDomainError maps admission-core errors onto the API envelope.
// Validation errors carry their specific reason; anything unrecognized is a
// 500 and gets logged.
func writeDomainError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var transition *domain.IllegalStatusTransitionError
	switch {
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrParticipantNotFound),
		errors.Is(err, domain.ErrRegistrationNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateActiveRegistration),
		errors.Is(err, domain.ErrEventNotOpen),
		errors.Is(err, domain.ErrEventNotStarted):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	case errors.As(err, &transition):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, transition.Error())
	case errors.Is(err, domain.ErrInvalidCapacity),
		errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrContention):
		// Transient: the per-event critical section was busy past the
		// deadline. The client retries the whole operation.
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeContention, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
