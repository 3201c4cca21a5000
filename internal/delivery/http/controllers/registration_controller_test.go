package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventadmission/internal/delivery/http/middleware"
	"eventadmission/internal/domain"
)

// stubAdmissionService lets each test plug in just the calls it expects.
type stubAdmissionService struct {
	requestRegistration func(ctx context.Context, eventID, participantID string, requestedAt time.Time) (*domain.Registration, error)
	cancelRegistration  func(ctx context.Context, registrationID string) (*domain.Registration, error)
	checkIn             func(ctx context.Context, registrationID string) (*domain.Registration, error)
	markNoShow          func(ctx context.Context, registrationID string) (*domain.Registration, error)
	increaseCapacity    func(ctx context.Context, eventID string, newCapacity int) (*domain.Event, error)
	listEvent           func(ctx context.Context, eventID string) ([]*domain.Registration, error)
	listParticipant     func(ctx context.Context, participantID string) ([]*domain.Registration, error)
	eventCounts         func(ctx context.Context, eventID string) (*domain.EventCounts, error)
}

func (s *stubAdmissionService) RequestRegistration(ctx context.Context, eventID, participantID string, requestedAt time.Time) (*domain.Registration, error) {
	return s.requestRegistration(ctx, eventID, participantID, requestedAt)
}

func (s *stubAdmissionService) CancelRegistration(ctx context.Context, registrationID string) (*domain.Registration, error) {
	return s.cancelRegistration(ctx, registrationID)
}

func (s *stubAdmissionService) CheckIn(ctx context.Context, registrationID string) (*domain.Registration, error) {
	return s.checkIn(ctx, registrationID)
}

func (s *stubAdmissionService) MarkNoShow(ctx context.Context, registrationID string) (*domain.Registration, error) {
	return s.markNoShow(ctx, registrationID)
}

func (s *stubAdmissionService) IncreaseCapacity(ctx context.Context, eventID string, newCapacity int) (*domain.Event, error) {
	return s.increaseCapacity(ctx, eventID, newCapacity)
}

func (s *stubAdmissionService) ListEventRegistrations(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	return s.listEvent(ctx, eventID)
}

func (s *stubAdmissionService) ListParticipantRegistrations(ctx context.Context, participantID string) ([]*domain.Registration, error) {
	return s.listParticipant(ctx, participantID)
}

func (s *stubAdmissionService) EventCounts(ctx context.Context, eventID string) (*domain.EventCounts, error) {
	return s.eventCounts(ctx, eventID)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const (
	testEventID        = "5f1b2d3c-4a5e-6f7a-8b9c-0d1e2f3a4b5c"
	testRegistrationID = "9a8b7c6d-5e4f-3a2b-1c0d-e9f8a7b6c5d4"
)

type registrationEnvelope struct {
	Data  *domain.Registration `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeRegistrationEnvelope(t *testing.T, rec *httptest.ResponseRecorder) registrationEnvelope {
	t.Helper()
	var env registrationEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func authedRequest(method, target, participantID string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	return r.WithContext(middleware.SetParticipantID(r.Context(), participantID))
}

func TestRegistrationController_Register(t *testing.T) {
	t.Run("confirmed registration returns 201", func(t *testing.T) {
		svc := &stubAdmissionService{
			requestRegistration: func(_ context.Context, eventID, participantID string, requestedAt time.Time) (*domain.Registration, error) {
				if eventID != testEventID {
					t.Errorf("unexpected eventID %s", eventID)
				}
				if participantID != "p-1" {
					t.Errorf("unexpected participantID %s", participantID)
				}
				return domain.NewRegistration(eventID, participantID, domain.StatusConfirmed, requestedAt), nil
			},
		}
		c := NewRegistrationController(testLogger(), svc)

		r := authedRequest(http.MethodPost, "/events/"+testEventID+"/registrations", "p-1")
		r.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		c.Register(rec, r)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		env := decodeRegistrationEnvelope(t, rec)
		if env.Data == nil || env.Data.Status != domain.StatusConfirmed {
			t.Fatalf("expected confirmed registration in envelope, got %+v", env.Data)
		}
		if env.Error != nil {
			t.Fatalf("expected nil error, got %+v", env.Error)
		}
	})

	t.Run("full event still returns 201 with waitlisted status", func(t *testing.T) {
		svc := &stubAdmissionService{
			requestRegistration: func(_ context.Context, eventID, participantID string, requestedAt time.Time) (*domain.Registration, error) {
				return domain.NewRegistration(eventID, participantID, domain.StatusWaitlisted, requestedAt), nil
			},
		}
		c := NewRegistrationController(testLogger(), svc)

		r := authedRequest(http.MethodPost, "/events/"+testEventID+"/registrations", "p-1")
		r.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		c.Register(rec, r)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		env := decodeRegistrationEnvelope(t, rec)
		if env.Data.Status != domain.StatusWaitlisted {
			t.Fatalf("expected WAITLISTED, got %s", env.Data.Status)
		}
	})

	t.Run("invalid event id returns 400", func(t *testing.T) {
		c := NewRegistrationController(testLogger(), &stubAdmissionService{})

		r := authedRequest(http.MethodPost, "/events/not-a-uuid/registrations", "p-1")
		r.SetPathValue("eventID", "not-a-uuid")
		rec := httptest.NewRecorder()
		c.Register(rec, r)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if env := decodeRegistrationEnvelope(t, rec); env.Error == nil || env.Error.Code != "bad_request" {
			t.Fatalf("expected bad_request error, got %+v", env.Error)
		}
	})

	t.Run("missing participant context returns 401", func(t *testing.T) {
		c := NewRegistrationController(testLogger(), &stubAdmissionService{})

		r := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/registrations", nil)
		r.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		c.Register(rec, r)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("duplicate active registration returns 409", func(t *testing.T) {
		svc := &stubAdmissionService{
			requestRegistration: func(context.Context, string, string, time.Time) (*domain.Registration, error) {
				return nil, domain.ErrDuplicateActiveRegistration
			},
		}
		c := NewRegistrationController(testLogger(), svc)

		r := authedRequest(http.MethodPost, "/events/"+testEventID+"/registrations", "p-1")
		r.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		c.Register(rec, r)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		if env := decodeRegistrationEnvelope(t, rec); env.Error.Code != "conflict" {
			t.Fatalf("expected conflict code, got %s", env.Error.Code)
		}
	})

	t.Run("unknown event returns 404", func(t *testing.T) {
		svc := &stubAdmissionService{
			requestRegistration: func(context.Context, string, string, time.Time) (*domain.Registration, error) {
				return nil, domain.ErrEventNotFound
			},
		}
		c := NewRegistrationController(testLogger(), svc)

		r := authedRequest(http.MethodPost, "/events/"+testEventID+"/registrations", "p-1")
		r.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		c.Register(rec, r)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("lock contention returns 503", func(t *testing.T) {
		svc := &stubAdmissionService{
			requestRegistration: func(context.Context, string, string, time.Time) (*domain.Registration, error) {
				return nil, domain.ErrContention
			},
		}
		c := NewRegistrationController(testLogger(), svc)

		r := authedRequest(http.MethodPost, "/events/"+testEventID+"/registrations", "p-1")
		r.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		c.Register(rec, r)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		if env := decodeRegistrationEnvelope(t, rec); env.Error.Code != "contention" {
			t.Fatalf("expected contention code, got %s", env.Error.Code)
		}
	})
}

func TestRegistrationController_Cancel(t *testing.T) {
	t.Run("success returns the cancelled registration", func(t *testing.T) {
		svc := &stubAdmissionService{
			cancelRegistration: func(_ context.Context, registrationID string) (*domain.Registration, error) {
				if registrationID != testRegistrationID {
					t.Errorf("unexpected registrationID %s", registrationID)
				}
				return &domain.Registration{ID: registrationID, Status: domain.StatusCancelled}, nil
			},
		}
		c := NewRegistrationController(testLogger(), svc)

		r := authedRequest(http.MethodPost, "/registrations/"+testRegistrationID+"/cancel", "p-1")
		r.SetPathValue("registrationID", testRegistrationID)
		rec := httptest.NewRecorder()
		c.Cancel(rec, r)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if env := decodeRegistrationEnvelope(t, rec); env.Data.Status != domain.StatusCancelled {
			t.Fatalf("expected CANCELLED, got %s", env.Data.Status)
		}
	})

	t.Run("terminal registration returns 409", func(t *testing.T) {
		svc := &stubAdmissionService{
			cancelRegistration: func(context.Context, string) (*domain.Registration, error) {
				return nil, &domain.IllegalStatusTransitionError{From: domain.StatusAttended, To: domain.StatusCancelled}
			},
		}
		c := NewRegistrationController(testLogger(), svc)

		r := authedRequest(http.MethodPost, "/registrations/"+testRegistrationID+"/cancel", "p-1")
		r.SetPathValue("registrationID", testRegistrationID)
		rec := httptest.NewRecorder()
		c.Cancel(rec, r)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("unknown registration returns 404", func(t *testing.T) {
		svc := &stubAdmissionService{
			cancelRegistration: func(context.Context, string) (*domain.Registration, error) {
				return nil, domain.ErrRegistrationNotFound
			},
		}
		c := NewRegistrationController(testLogger(), svc)

		r := authedRequest(http.MethodPost, "/registrations/"+testRegistrationID+"/cancel", "p-1")
		r.SetPathValue("registrationID", testRegistrationID)
		rec := httptest.NewRecorder()
		c.Cancel(rec, r)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestRegistrationController_CheckIn(t *testing.T) {
	svc := &stubAdmissionService{
		checkIn: func(_ context.Context, registrationID string) (*domain.Registration, error) {
			return &domain.Registration{ID: registrationID, Status: domain.StatusAttended, CheckedIn: true}, nil
		},
	}
	c := NewRegistrationController(testLogger(), svc)

	r := authedRequest(http.MethodPost, "/registrations/"+testRegistrationID+"/checkin", "p-1")
	r.SetPathValue("registrationID", testRegistrationID)
	rec := httptest.NewRecorder()
	c.CheckIn(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeRegistrationEnvelope(t, rec)
	if env.Data.Status != domain.StatusAttended || !env.Data.CheckedIn {
		t.Fatalf("expected checked-in ATTENDED registration, got %+v", env.Data)
	}
}

func TestRegistrationController_MarkNoShow(t *testing.T) {
	t.Run("event not started returns 409", func(t *testing.T) {
		svc := &stubAdmissionService{
			markNoShow: func(context.Context, string) (*domain.Registration, error) {
				return nil, domain.ErrEventNotStarted
			},
		}
		c := NewRegistrationController(testLogger(), svc)

		r := authedRequest(http.MethodPost, "/registrations/"+testRegistrationID+"/no-show", "p-1")
		r.SetPathValue("registrationID", testRegistrationID)
		rec := httptest.NewRecorder()
		c.MarkNoShow(rec, r)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("unexpected error returns 500", func(t *testing.T) {
		svc := &stubAdmissionService{
			markNoShow: func(context.Context, string) (*domain.Registration, error) {
				return nil, errors.New("connection reset")
			},
		}
		c := NewRegistrationController(testLogger(), svc)

		r := authedRequest(http.MethodPost, "/registrations/"+testRegistrationID+"/no-show", "p-1")
		r.SetPathValue("registrationID", testRegistrationID)
		rec := httptest.NewRecorder()
		c.MarkNoShow(rec, r)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestRegistrationController_ListMine(t *testing.T) {
	svc := &stubAdmissionService{
		listParticipant: func(_ context.Context, participantID string) ([]*domain.Registration, error) {
			if participantID != "p-1" {
				t.Errorf("unexpected participantID %s", participantID)
			}
			return []*domain.Registration{
				{ID: "reg-1", Status: domain.StatusConfirmed},
				{ID: "reg-2", Status: domain.StatusCancelled},
			}, nil
		},
	}
	c := NewRegistrationController(testLogger(), svc)

	r := authedRequest(http.MethodGet, "/participants/me/registrations", "p-1")
	rec := httptest.NewRecorder()
	c.ListMine(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var env struct {
		Data []*domain.Registration `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(env.Data) != 2 {
		t.Fatalf("expected 2 registrations, got %d", len(env.Data))
	}
}
