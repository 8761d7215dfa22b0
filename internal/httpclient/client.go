// Package httpclient builds resty clients for outbound calls to collaborators
// such as the content store API and the mail API.
package httpclient

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Option configures a resty client.
type Option func(*resty.Client)

// New returns a resty client with opts applied in order.
func New(opts ...Option) *resty.Client {
	client := resty.New()
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// WithBaseURL sets the URL every relative request path is resolved against.
func WithBaseURL(url string) Option {
	return func(c *resty.Client) {
		c.SetBaseURL(url)
	}
}

// WithTimeout bounds each request on the underlying http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *resty.Client) {
		if timeout > 0 {
			c.SetTimeout(timeout)
		}
	}
}

// WithAuthToken sends token as a bearer credential.
func WithAuthToken(token string) Option {
	return func(c *resty.Client) {
		if token != "" {
			c.SetAuthToken(token)
		}
	}
}

// WithHeader sets a header on every request.
func WithHeader(name, value string) Option {
	return func(c *resty.Client) {
		c.SetHeader(name, value)
	}
}

// WithTransport replaces the round tripper, mostly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *resty.Client) {
		c.SetTransport(rt)
	}
}

// WithRequestLogging logs every completed call and every transport error.
// Request and response bodies are never logged.
func WithRequestLogging(logger *slog.Logger, destination string) Option {
	return func(c *resty.Client) {
		if logger == nil {
			return
		}

		c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			attrs := []any{
				slog.String("destination", destination),
				slog.String("method", resp.Request.Method),
				slog.String("url", resp.Request.URL),
				slog.Int("status", resp.StatusCode()),
				slog.Duration("duration", resp.Time()),
			}

			if resp.StatusCode() >= http.StatusInternalServerError {
				logger.Error("http call completed with internal error", attrs...)
			} else {
				logger.Debug("http call completed", attrs...)
			}
			return nil
		})

		c.OnError(func(req *resty.Request, err error) {
			logger.Error("http call completed with error",
				slog.String("destination", destination),
				slog.String("method", req.Method),
				slog.String("url", req.URL),
				slog.Any("error", err),
			)
		})
	}
}
