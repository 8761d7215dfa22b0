// Package service provides mail transports: a structured log sink for development,
// an SMTP relay client and a JSON HTTP mail API client.
package service

import (
	"context"
	"log/slog"

	mailDomain "github.com/allisson/linkvault/internal/mail/domain"
)

// LogMailer writes messages to the logger instead of delivering them. The body
// holds a live sign-in link, so it is only for local development.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs msg.
func (m *LogMailer) Send(ctx context.Context, msg *mailDomain.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	m.logger.InfoContext(ctx, "mail message",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
	)
	return nil
}
