// Package domain defines outbound mail messages.
package domain

import (
	"strings"

	"github.com/allisson/linkvault/internal/errors"
)

// ErrInvalidHeader indicates a header value would break the message framing.
var ErrInvalidHeader = errors.Wrap(errors.ErrInvalidInput, "mail header contains a line break")

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Validate rejects recipients and subjects that could inject extra headers.
func (m *Message) Validate() error {
	if strings.ContainsAny(m.To, "\r\n") || strings.ContainsAny(m.Subject, "\r\n") {
		return ErrInvalidHeader
	}
	return nil
}
