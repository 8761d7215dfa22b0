// Package usecase implements business logic orchestration for passwordless sign-in.
package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"text/template"
	"time"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
	authService "github.com/allisson/linkvault/internal/auth/service"
	mailDomain "github.com/allisson/linkvault/internal/mail/domain"
	"github.com/allisson/linkvault/internal/validation"
)

const (
	// DefaultMailTimeout bounds a single mailer call.
	DefaultMailTimeout = 10 * time.Second

	// DefaultSubjectTemplate is the default for MagicLinkConfig.SubjectTemplate.
	DefaultSubjectTemplate = `Your sign-in link for {{.SiteName}}`

	// DefaultBodyTemplate is the default for MagicLinkConfig.BodyTemplate.
	DefaultBodyTemplate = `Hi {{.Email}},

Use the link below to sign in to {{.SiteName}}:

{{.Link}}

The link can be used once and is valid for {{printf "%.f" .Expiration.Minutes}} minutes.

If you did not request it, you can ignore this email.
`
)

// MagicLinkConfig configures the sign-in link and the message carrying it.
// Zero values fall back to the Default* constants.
type MagicLinkConfig struct {
	// BaseURL is the public origin, e.g. "https://files.example.com".
	BaseURL string
	// CallbackPath is the path of the redemption endpoint.
	CallbackPath string
	// SiteName is available to the templates.
	SiteName string
	// MailTimeout bounds the mailer call.
	MailTimeout time.Duration
	// SubjectTemplate and BodyTemplate are text/template sources.
	SubjectTemplate string
	BodyTemplate    string
}

// EmailParams is passed as data when executing the mail templates.
type EmailParams struct {
	Email      string
	SiteName   string
	Link       string
	Expiration time.Duration
}

type magicLinkUseCase struct {
	codec       authService.LoginTokenCodec
	mailer      Mailer
	logger      *slog.Logger
	linkBase    string
	siteName    string
	mailTimeout time.Duration
	subjectTmpl *template.Template
	bodyTmpl    *template.Template
}

// NewMagicLinkUseCase creates a MagicLinkUseCase. It fails when a template does not parse.
func NewMagicLinkUseCase(
	cfg MagicLinkConfig,
	codec authService.LoginTokenCodec,
	mailer Mailer,
	logger *slog.Logger,
) (MagicLinkUseCase, error) {
	if cfg.MailTimeout <= 0 {
		cfg.MailTimeout = DefaultMailTimeout
	}
	if cfg.SubjectTemplate == "" {
		cfg.SubjectTemplate = DefaultSubjectTemplate
	}
	if cfg.BodyTemplate == "" {
		cfg.BodyTemplate = DefaultBodyTemplate
	}

	subjectTmpl, err := template.New("subject").Parse(cfg.SubjectTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subject template: %w", err)
	}
	bodyTmpl, err := template.New("body").Parse(cfg.BodyTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse body template: %w", err)
	}

	return &magicLinkUseCase{
		codec:       codec,
		mailer:      mailer,
		logger:      logger,
		linkBase:    strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.TrimLeft(cfg.CallbackPath, "/"),
		siteName:    cfg.SiteName,
		mailTimeout: cfg.MailTimeout,
		subjectTmpl: subjectTmpl,
		bodyTmpl:    bodyTmpl,
	}, nil
}

// NormalizeEmail trims and lowercases an address. The result is the session subject.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RequestAccess mails a fresh sign-in link to email.
func (m *magicLinkUseCase) RequestAccess(ctx context.Context, email string) error {
	subject := NormalizeEmail(email)
	if !validation.IsEmail(subject) {
		return authDomain.ErrInvalidEmail
	}

	token, err := m.codec.Issue(subject)
	if err != nil {
		return fmt.Errorf("failed to issue login token: %w", err)
	}

	params := EmailParams{
		Email:      subject,
		SiteName:   m.siteName,
		Link:       m.linkBase + "?token=" + url.QueryEscape(token.Encoded),
		Expiration: token.ExpiresAt.Sub(token.IssuedAt),
	}

	msg, err := m.render(params)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, m.mailTimeout)
	defer cancel()

	if err := m.mailer.Send(sendCtx, msg); err != nil {
		m.logger.Error("failed to deliver sign-in link",
			slog.String("token_id", token.TokenID.String()),
			slog.Any("error", err),
		)
		return authDomain.ErrDeliveryFailed
	}

	m.logger.Info("sign-in link sent",
		slog.String("token_id", token.TokenID.String()),
		slog.Time("expires_at", token.ExpiresAt),
	)
	return nil
}

func (m *magicLinkUseCase) render(params EmailParams) (*mailDomain.Message, error) {
	var subject, body bytes.Buffer
	if err := m.subjectTmpl.Execute(&subject, params); err != nil {
		return nil, fmt.Errorf("failed to render subject: %w", err)
	}
	if err := m.bodyTmpl.Execute(&body, params); err != nil {
		return nil, fmt.Errorf("failed to render body: %w", err)
	}

	return &mailDomain.Message{
		To:      params.Email,
		Subject: strings.TrimSpace(subject.String()),
		Body:    body.String(),
	}, nil
}
