package domain

import (
	"errors"
	"testing"
	"time"
)

func TestStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"waitlisted to confirmed (promotion)", StatusWaitlisted, StatusConfirmed, true},
		{"waitlisted to cancelled", StatusWaitlisted, StatusCancelled, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed to attended", StatusConfirmed, StatusAttended, true},
		{"confirmed to no-show", StatusConfirmed, StatusNoShow, true},
		{"waitlisted to attended", StatusWaitlisted, StatusAttended, false},
		{"waitlisted to no-show", StatusWaitlisted, StatusNoShow, false},
		{"confirmed to waitlisted", StatusConfirmed, StatusWaitlisted, false},
		{"attended to confirmed", StatusAttended, StatusConfirmed, false},
		{"cancelled to confirmed", StatusCancelled, StatusConfirmed, false},
		{"no-show to confirmed", StatusNoShow, StatusConfirmed, false},
		{"cancelled to waitlisted", StatusCancelled, StatusWaitlisted, false},
		{"same state", StatusConfirmed, StatusConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Fatalf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestStatus_Terminal(t *testing.T) {
	terminal := []Status{StatusCancelled, StatusAttended, StatusNoShow}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Fatalf("expected %s to be terminal", s)
		}
	}
	for _, s := range []Status{StatusWaitlisted, StatusConfirmed} {
		if s.Terminal() {
			t.Fatalf("expected %s to be non-terminal", s)
		}
	}
}

func TestStatus_Active(t *testing.T) {
	if StatusCancelled.Active() {
		t.Fatal("cancelled must not count as active")
	}
	for _, s := range []Status{StatusWaitlisted, StatusConfirmed, StatusAttended, StatusNoShow} {
		if !s.Active() {
			t.Fatalf("expected %s to count as active", s)
		}
	}
}

func TestRegistration_Transition(t *testing.T) {
	now := time.Now().UTC()
	reg := NewRegistration("e1", "p1", StatusConfirmed, now)

	later := now.Add(time.Minute)
	if err := reg.Transition(StatusAttended, later); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Status != StatusAttended {
		t.Fatalf("expected status ATTENDED, got %s", reg.Status)
	}
	if !reg.UpdatedAt.Equal(later) {
		t.Fatalf("expected UpdatedAt %v, got %v", later, reg.UpdatedAt)
	}

	err := reg.Transition(StatusConfirmed, later.Add(time.Minute))
	var transition *IllegalStatusTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected IllegalStatusTransitionError, got %v", err)
	}
	if transition.From != StatusAttended || transition.To != StatusConfirmed {
		t.Fatalf("error should carry from/to, got %+v", transition)
	}
	if reg.Status != StatusAttended {
		t.Fatalf("failed transition must not change status, got %s", reg.Status)
	}
}
