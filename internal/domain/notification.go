package domain

import (
	"context"
	"time"
)

// NotificationKind identifies what happened to a registration.
type NotificationKind string

const (
	NotificationRegistrationConfirmed  NotificationKind = "RegistrationConfirmed"
	NotificationRegistrationWaitlisted NotificationKind = "RegistrationWaitlisted"
	NotificationRegistrationPromoted   NotificationKind = "RegistrationPromoted"
	NotificationRegistrationCancelled  NotificationKind = "RegistrationCancelled"
	NotificationMarkedNoShow           NotificationKind = "MarkedNoShow"
)

// Notification is the event emitted to the notification dispatcher after an
// admission or promotion commits.
type Notification struct {
	Kind           NotificationKind `json:"kind"`
	EventID        string           `json:"event_id"`
	ParticipantID  string           `json:"participant_id"`
	RegistrationID string           `json:"registration_id"`
	OccurredAt     time.Time        `json:"occurred_at"`
}

// Notifier delivers notifications to participants. Dispatch is advisory:
// it runs after the state change commits and a failure must never fail or
// roll back the operation that produced it.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Mailer sends a single email message.
type Mailer interface {
	Send(to, subject, htmlBody, textBody string) error
}
