// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"

	"courtier_backend/internal/platform/config"
	"courtier_backend/internal/platform/mail"
)

// Mailer is the sending side shared by the auth and user usecases.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// NewMailer creates an SMTP sender when EMAIL_HOST is set.
// Otherwise it falls back to a sender that only logs the message.
func NewMailer(cfg config.Mail) (Mailer, error) {
	if cfg.Host == "" {
		slog.Warn("EMAIL_HOST not set; mails are logged instead of sent")
		return mail.NewLogSender(nil), nil
	}
	sender, err := mail.NewSMTPSender(cfg)
	if err != nil {
		return nil, err
	}
	return sender, nil
}
