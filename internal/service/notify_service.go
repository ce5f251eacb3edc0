package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"movextransfer/internal/logger"
)

var ErrNotConfigured = errors.New("provider not configured")

type EmailMessage struct {
	ToEmail   string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type SendGridSender struct {
	apiKey    string
	fromEmail string
	fromName  string
	client    *sendgrid.Client
	log       logger.ILogger
}

func NewSendGridSender(apiKey, fromEmail, fromName string, log logger.ILogger) *SendGridSender {
	s := &SendGridSender{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		log:       log,
	}
	if apiKey != "" {
		s.client = sendgrid.NewSendClient(apiKey)
	}
	return s
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.client == nil {
		return fmt.Errorf("SENDGRID_API_KEY: %w", ErrNotConfigured)
	}
	if s.fromEmail == "" {
		return fmt.Errorf("SENDGRID_FROM_EMAIL: %w", ErrNotConfigured)
	}
	if msg.ToEmail == "" {
		return fmt.Errorf("no recipient for %q", msg.Subject)
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.PlainText, msg.HTML)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s failed: %w", msg.ToEmail, err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		s.log.Info("email sent",
			logger.String("to", msg.ToEmail),
			logger.String("subject", msg.Subject),
			logger.Int("status", response.StatusCode),
		)
		return nil
	}

	return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
}
