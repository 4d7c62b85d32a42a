// Package mailer delivers rendered reports over authenticated STARTTLS SMTP.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"recruitcli/internal/config"
)

// Credentials are the sender account details, read from the settings store
// at send time.
type Credentials struct {
	User     string
	Password string
}

// Sender delivers one plain-text message to one recipient. A failed delivery
// is non-fatal to the caller; the send loop continues with the next address.
type Sender interface {
	Send(ctx context.Context, creds Credentials, recipient, subject, body string) error
}

// SMTPSender is the production Sender.
type SMTPSender struct {
	cfg    config.MailConfig
	logger *slog.Logger
}

// New creates an SMTPSender for the configured transport endpoint.
func New(cfg config.MailConfig, logger *slog.Logger) *SMTPSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPSender{cfg: cfg, logger: logger}
}

// Send delivers the body to recipient over an authenticated, encrypted
// session.
func (s *SMTPSender) Send(ctx context.Context, creds Credentials, recipient, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(creds.User); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(creds.User),
		mail.WithPassword(creds.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(s.cfg.Timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send to %s: %w", recipient, err)
	}

	s.logger.InfoContext(ctx, "Email sent", slog.String("recipient", recipient))
	return nil
}
