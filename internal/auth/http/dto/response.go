package dto

import (
	"time"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
)

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// SessionResponse describes an established session. SessionToken is only set on
// the callback response, for API clients that send it as a Bearer credential.
type SessionResponse struct {
	Subject      string    `json:"subject"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	SessionToken string    `json:"session_token,omitempty"`
}

// MapSessionToResponse converts a session without exposing its credential.
func MapSessionToResponse(session *authDomain.Session) SessionResponse {
	return SessionResponse{
		Subject:   session.Subject,
		IssuedAt:  session.IssuedAt,
		ExpiresAt: session.ExpiresAt,
	}
}
