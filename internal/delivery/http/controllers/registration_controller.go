package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"eventadmission/internal/delivery/http/helpers"
	"eventadmission/internal/delivery/http/middleware"
	"eventadmission/internal/domain"
)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.AdmissionService
}

func NewRegistrationController(logger *slog.Logger, svc domain.AdmissionService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// RegistrationSuccessResponse is the success envelope for registration operations.
type RegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Register godoc
// @Summary Request admission to an event
// @Description Admits the authenticated participant to the event: confirmed when a slot is free, waitlisted otherwise. Fails with 409 if the participant already holds an active registration or the event is not open.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} controllers.RegistrationSuccessResponse "Registration created (status CONFIRMED or WAITLISTED)"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 503 {object} helpers.APIResponse "error.code: contention"
// @Router /events/{eventID}/registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	participantID, ok := middleware.ParticipantIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	reg, err := c.Service.RequestRegistration(r.Context(), eventID, participantID, time.Now().UTC())
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// Cancel godoc
// @Summary Cancel a registration
// @Description Cancels a waitlisted or confirmed registration. Cancelling a confirmed registration frees the slot and promotes the head of the waitlist.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already in a terminal status)"
// @Router /registrations/{registrationID}/cancel [post]
func (c *RegistrationController) Cancel(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.CancelRegistration)
}

// CheckIn godoc
// @Summary Check a participant in
// @Description Marks a confirmed registration as attended and sets the checked-in flag.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not currently confirmed)"
// @Router /registrations/{registrationID}/checkin [post]
func (c *RegistrationController) CheckIn(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.CheckIn)
}

// MarkNoShow godoc
// @Summary Mark a confirmed registration as a no-show
// @Description Records an absence after the event has started, frees the slot, and promotes from the waitlist.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event not started or not confirmed)"
// @Router /registrations/{registrationID}/no-show [post]
func (c *RegistrationController) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.MarkNoShow)
}

func (c *RegistrationController) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) (*domain.Registration, error)) {
	registrationID := r.PathValue("registrationID")
	if !uuidRegex.MatchString(registrationID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid registrationID")
		return
	}
	if _, ok := middleware.ParticipantIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	reg, err := op(r.Context(), registrationID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// ListMineSuccessResponse is the success envelope for GET /participants/me/registrations.
type ListMineSuccessResponse struct {
	Data  []*domain.Registration `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ListMine godoc
// @Summary List the current participant's registrations
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListMineSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /participants/me/registrations [get]
func (c *RegistrationController) ListMine(w http.ResponseWriter, r *http.Request) {
	participantID, ok := middleware.ParticipantIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	regs, err := c.Service.ListParticipantRegistrations(r.Context(), participantID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}
