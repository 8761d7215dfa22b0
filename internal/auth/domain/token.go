package domain

import (
	"time"

	"github.com/google/uuid"
)

// LoginToken is the signed one-time credential embedded in a sign-in link.
// Encoded is the compact form sent to the user; the other fields are its claims.
type LoginToken struct {
	Subject   string
	TokenID   uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
	Encoded   string
}

// Redemption is a ledger entry proving a LoginToken was consumed.
// Once present for a TokenID, every later redemption of that token fails.
type Redemption struct {
	TokenID    uuid.UUID
	Subject    string
	ExpiresAt  time.Time
	RedeemedAt time.Time
}

// IsPrunable reports whether the entry can be dropped from the ledger. The
// token it guards has expired, so it can no longer be decoded anyway.
func (r *Redemption) IsPrunable(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Session is the credential returned after a successful redemption.
type Session struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Encoded   string
}

// IsExpired reports whether the session is past its expiry.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
