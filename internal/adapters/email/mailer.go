package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"eventadmission/config"
	"eventadmission/internal/domain"
)

// NewMailer creates a Mailer from config. Provider "ses" uses AWS SES;
// "noop" or anything unknown logs instead of sending.
func NewMailer(cfg config.MailerConfig, logger *slog.Logger) domain.Mailer {
	switch cfg.Provider {
	case "ses":
		awsCfg := aws.Config{
			Region: cfg.SESRegion,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					cfg.SESAccessKeyID,
					cfg.SESSecretAccessKey,
					"",
				),
			),
		}
		return &sesMailer{
			client:      ses.NewFromConfig(awsCfg),
			fromAddress: cfg.FromAddress,
			fromName:    cfg.FromName,
			logger:      logger,
		}
	case "noop":
		return &noopMailer{logger: logger}
	default:
		logger.Warn("unknown mail provider, using noop", "provider", cfg.Provider)
		return &noopMailer{logger: logger}
	}
}

type sesMailer struct {
	client      *ses.Client
	fromAddress string
	fromName    string
	logger      *slog.Logger
}

func (s *sesMailer) Send(to, subject, htmlBody, textBody string) error {
	source := s.fromAddress
	if s.fromName != "" {
		source = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}
	input := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}
	if htmlBody != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(htmlBody),
			Charset: aws.String("UTF-8"),
		}
	}
	if textBody != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(textBody),
			Charset: aws.String("UTF-8"),
		}
	}
	result, err := s.client.SendEmail(context.Background(), input)
	if err != nil {
		return fmt.Errorf("send email via SES: %w", err)
	}
	s.logger.Debug("email sent via SES", "message_id", aws.ToString(result.MessageId))
	return nil
}

type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) Send(to, subject, htmlBody, textBody string) error {
	n.logger.Info("email would be sent (noop)", "to", to, "subject", subject)
	return nil
}
