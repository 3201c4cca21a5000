// Package http wires the admission core to its HTTP surface.
package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventadmission/internal/delivery/http/controllers"
	"eventadmission/internal/delivery/http/middleware"
	"eventadmission/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier)

	// Events
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("GET /events/{eventID}/counts", eventController.Counts)
	mux.HandleFunc("GET /events/{eventID}/registrations", auth(eventController.ListRegistrations))
	mux.HandleFunc("PATCH /events/{eventID}/capacity", auth(eventController.IncreaseCapacity))
	mux.HandleFunc("POST /events/{eventID}/registration-window", auth(eventController.SetRegistrationWindow))

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/registrations", auth(registrationController.Register))
	mux.HandleFunc("POST /registrations/{registrationID}/cancel", auth(registrationController.Cancel))
	mux.HandleFunc("POST /registrations/{registrationID}/checkin", auth(registrationController.CheckIn))
	mux.HandleFunc("POST /registrations/{registrationID}/no-show", auth(registrationController.MarkNoShow))
	mux.HandleFunc("GET /participants/me/registrations", auth(registrationController.ListMine))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
