package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/allisson/linkvault/internal/httpclient"
	mailDomain "github.com/allisson/linkvault/internal/mail/domain"
)

// HTTPConfig configures an HTTPMailer.
type HTTPConfig struct {
	URL     string
	APIKey  string
	From    string
	Timeout time.Duration
}

type httpMailPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// HTTPMailer posts messages as JSON to a transactional mail API.
type HTTPMailer struct {
	client *resty.Client
	url    string
	from   string
}

// NewHTTPMailer creates an HTTPMailer.
func NewHTTPMailer(config HTTPConfig, logger *slog.Logger) *HTTPMailer {
	return &HTTPMailer{
		client: httpclient.New(
			httpclient.WithTimeout(config.Timeout),
			httpclient.WithAuthToken(config.APIKey),
			httpclient.WithRequestLogging(logger, "mail-api"),
		),
		url:  config.URL,
		from: config.From,
	}
}

// Send posts msg to the mail API. Any non-2xx answer is a delivery failure.
func (m *HTTPMailer) Send(ctx context.Context, msg *mailDomain.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(httpMailPayload{
			From:    m.from,
			To:      msg.To,
			Subject: msg.Subject,
			Text:    msg.Body,
		}).
		Post(m.url)
	if err != nil {
		return fmt.Errorf("mail api request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail api returned status %d", resp.StatusCode())
	}
	return nil
}
