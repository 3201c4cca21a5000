package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"eventadmission/internal/domain"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(to, subject, htmlBody, textBody string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: textBody})
	return nil
}

type fakeDirectory struct {
	emails map[string]string
}

func (d *fakeDirectory) Exists(_ context.Context, participantID string) (bool, error) {
	_, ok := d.emails[participantID]
	return ok, nil
}

func (d *fakeDirectory) EmailFor(_ context.Context, participantID string) (string, error) {
	email, ok := d.emails[participantID]
	if !ok {
		return "", domain.ErrParticipantNotFound
	}
	return email, nil
}

func testNotification(kind domain.NotificationKind) domain.Notification {
	return domain.Notification{
		Kind:           kind,
		EventID:        "ev-1",
		ParticipantID:  "p-1",
		RegistrationID: "reg-1",
		OccurredAt:     time.Now().UTC(),
	}
}

func newTestNotifier(mailer domain.Mailer) domain.Notifier {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	directory := &fakeDirectory{emails: map[string]string{"p-1": "alice@example.com"}}
	return NewEmailNotifier(logger, mailer, directory)
}

func TestEmailNotifier_Notify(t *testing.T) {
	tests := []struct {
		kind        domain.NotificationKind
		wantSubject string
	}{
		{domain.NotificationRegistrationConfirmed, "confirmed"},
		{domain.NotificationRegistrationWaitlisted, "waitlist"},
		{domain.NotificationRegistrationPromoted, "spot opened up"},
		{domain.NotificationRegistrationCancelled, "cancelled"},
		{domain.NotificationMarkedNoShow, "no-show"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			mailer := &fakeMailer{}
			notifier := newTestNotifier(mailer)

			if err := notifier.Notify(context.Background(), testNotification(tt.kind)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(mailer.sent) != 1 {
				t.Fatalf("expected 1 email, got %d", len(mailer.sent))
			}
			mail := mailer.sent[0]
			if mail.to != "alice@example.com" {
				t.Fatalf("expected email to alice@example.com, got %s", mail.to)
			}
			if !strings.Contains(strings.ToLower(mail.subject), tt.wantSubject) {
				t.Fatalf("subject %q does not mention %q", mail.subject, tt.wantSubject)
			}
			if !strings.Contains(mail.body, "ev-1") {
				t.Fatalf("body %q does not name the event", mail.body)
			}
		})
	}
}

func TestEmailNotifier_UnknownParticipant(t *testing.T) {
	mailer := &fakeMailer{}
	notifier := newTestNotifier(mailer)

	n := testNotification(domain.NotificationRegistrationConfirmed)
	n.ParticipantID = "p-unknown"
	err := notifier.Notify(context.Background(), n)
	if !errors.Is(err, domain.ErrParticipantNotFound) {
		t.Fatalf("expected ErrParticipantNotFound, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatal("no email should be sent when the address cannot be resolved")
	}
}

func TestEmailNotifier_MailerFailure(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("ses throttled")}
	notifier := newTestNotifier(mailer)

	err := notifier.Notify(context.Background(), testNotification(domain.NotificationRegistrationConfirmed))
	if err == nil {
		t.Fatal("expected the mailer error to propagate")
	}
}
