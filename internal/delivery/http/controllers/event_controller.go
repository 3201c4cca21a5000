package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"eventadmission/internal/delivery/http/helpers"
	"eventadmission/internal/delivery/http/middleware"
	"eventadmission/internal/domain"
)

type EventController struct {
	Logger    *slog.Logger
	Events    domain.EventService
	Admission domain.AdmissionService
}

func NewEventController(logger *slog.Logger, events domain.EventService, admission domain.AdmissionService) *EventController {
	return &EventController{
		Logger:    logger,
		Events:    events,
		Admission: admission,
	}
}

// EventSuccessResponse is the success envelope for event operations.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Name             string    `json:"name"`
	Capacity         int       `json:"capacity"`
	StartsAt         time.Time `json:"starts_at"`
	RegistrationOpen *bool     `json:"registration_open"`
}

// Validate implements helpers.Validator.
func (r *CreateEventRequest) Validate() []string {
	var errs []string
	if r.Name == "" {
		errs = append(errs, "name is required")
	}
	if r.Capacity <= 0 {
		errs = append(errs, "capacity must be a positive integer")
	}
	if r.StartsAt.IsZero() {
		errs = append(errs, "starts_at is required")
	}
	return errs
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event with a fixed capacity and scheduled start. registration_open defaults to true.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateEventRequest true "Event details"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if _, ok := middleware.ParticipantIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	open := true
	if req.RegistrationOpen != nil {
		open = *req.RegistrationOpen
	}
	event, err := c.Events.CreateEvent(r.Context(), req.Name, req.Capacity, req.StartsAt, open)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEvent godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	event, err := c.Events.GetEvent(r.Context(), eventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// IncreaseCapacityRequest is the request body for PATCH /events/{eventID}/capacity.
type IncreaseCapacityRequest struct {
	Capacity int `json:"capacity"`
}

// Validate implements helpers.Validator.
func (r *IncreaseCapacityRequest) Validate() []string {
	if r.Capacity <= 0 {
		return []string{"capacity must be a positive integer"}
	}
	return nil
}

// IncreaseCapacity godoc
// @Summary Increase an event's capacity
// @Description Raises capacity and promotes waitlisted registrations into the freed slots in arrival order. Capacity can only increase.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.IncreaseCapacityRequest true "New capacity (must exceed current)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (capacity not an increase)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/capacity [patch]
func (c *EventController) IncreaseCapacity(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	var req IncreaseCapacityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if _, ok := middleware.ParticipantIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Admission.IncreaseCapacity(r.Context(), eventID, req.Capacity)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// RegistrationWindowRequest is the request body for POST /events/{eventID}/registration-window.
type RegistrationWindowRequest struct {
	Open *bool `json:"open"`
}

// Validate implements helpers.Validator.
func (r *RegistrationWindowRequest) Validate() []string {
	if r.Open == nil {
		return []string{"open is required"}
	}
	return nil
}

// SetRegistrationWindow godoc
// @Summary Open or close the registration window
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.RegistrationWindowRequest true "Window state"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/registration-window [post]
func (c *EventController) SetRegistrationWindow(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	var req RegistrationWindowRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if _, ok := middleware.ParticipantIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Events.SetRegistrationOpen(r.Context(), eventID, *req.Open)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListRegistrationsSuccessResponse is the success envelope for GET /events/{eventID}/registrations.
type ListRegistrationsSuccessResponse struct {
	Data  []*domain.Registration `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ListRegistrations godoc
// @Summary List registrations for an event
// @Description Returns all registrations for the event in waitlist order (requested_at, then id).
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ListRegistrationsSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/registrations [get]
func (c *EventController) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	regs, err := c.Admission.ListEventRegistrations(r.Context(), eventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

// CountsSuccessResponse is the success envelope for GET /events/{eventID}/counts.
type CountsSuccessResponse struct {
	Data  *domain.EventCounts `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// Counts godoc
// @Summary Confirmed/waitlisted counts for an event
// @Description Counts are derived from the ledger at read time and reflect the latest committed state.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.CountsSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/counts [get]
func (c *EventController) Counts(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	counts, err := c.Admission.EventCounts(r.Context(), eventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, counts)
}
