package notify

import (
	"context"
	"fmt"
	"log/slog"

	"eventadmission/internal/domain"
)

type emailNotifier struct {
	logger    *slog.Logger
	mailer    domain.Mailer
	directory domain.ParticipantDirectory
}

// NewEmailNotifier returns a Notifier that emails the participant about
// their admission outcome or promotion. Delivery is best-effort; errors are
// reported to the caller, which logs and moves on.
func NewEmailNotifier(logger *slog.Logger, mailer domain.Mailer, directory domain.ParticipantDirectory) domain.Notifier {
	return &emailNotifier{
		logger:    logger,
		mailer:    mailer,
		directory: directory,
	}
}

func (n *emailNotifier) Notify(ctx context.Context, notification domain.Notification) error {
	to, err := n.directory.EmailFor(ctx, notification.ParticipantID)
	if err != nil {
		return fmt.Errorf("resolve participant email: %w", err)
	}
	subject, body := renderMessage(notification)
	if err := n.mailer.Send(to, subject, "", body); err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}
	n.logger.DebugContext(ctx, "notification delivered",
		"kind", string(notification.Kind), "registration_id", notification.RegistrationID)
	return nil
}

func renderMessage(n domain.Notification) (subject, body string) {
	switch n.Kind {
	case domain.NotificationRegistrationConfirmed:
		return "Your registration is confirmed",
			fmt.Sprintf("Your spot for event %s is confirmed. See you there!", n.EventID)
	case domain.NotificationRegistrationWaitlisted:
		return "You are on the waitlist",
			fmt.Sprintf("Event %s is currently full. You are on the waitlist and will be notified if a spot opens up.", n.EventID)
	case domain.NotificationRegistrationPromoted:
		return "A spot opened up - you are in",
			fmt.Sprintf("A spot opened up for event %s and your registration is now confirmed.", n.EventID)
	case domain.NotificationRegistrationCancelled:
		return "Your registration was cancelled",
			fmt.Sprintf("Your registration for event %s has been cancelled.", n.EventID)
	case domain.NotificationMarkedNoShow:
		return "You were marked as a no-show",
			fmt.Sprintf("You were marked absent for event %s and your spot was released.", n.EventID)
	default:
		return "Registration update",
			fmt.Sprintf("There is an update to your registration for event %s.", n.EventID)
	}
}
