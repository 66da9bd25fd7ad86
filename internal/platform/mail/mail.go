// Package mail delivers rendered HTML messages over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	"courtier_backend/internal/platform/config"
)

// SMTPSender sends mail through the configured SMTP relay.
// The authenticated account is also the sender address.
type SMTPSender struct {
	client *gomail.Client
	from   string
}

// NewSMTPSender builds an SMTPSender from cfg. No connection is made until Send.
func NewSMTPSender(cfg config.Mail) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.User),
			gomail.WithPassword(cfg.Password),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.User}, nil
}

// Send delivers an HTML message to a single recipient.
func (s *SMTPSender) Send(ctx context.Context, to, subject, html string) error {
	msg, err := buildMessage(s.from, to, subject, html)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	slog.Info("mail sent", "to", to, "subject", subject)
	return nil
}

func buildMessage(from, to, subject, html string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, html)
	return msg, nil
}

// LogSender writes messages to the log instead of sending them.
// It is used when no SMTP host is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender returns a LogSender writing to logger, or slog.Default when nil.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send logs the message.
func (s *LogSender) Send(ctx context.Context, to, subject, html string) error {
	s.logger.InfoContext(ctx, "mail not sent: no SMTP host configured", "to", to, "subject", subject, "body", html)
	return nil
}
