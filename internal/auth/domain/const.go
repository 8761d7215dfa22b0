// Package domain defines the passwordless authentication domain models.
//
// A sign-in link carries a LoginToken. Redeeming it records a Redemption in the
// ledger, which makes the token single-use, and yields a Session.
package domain

import "time"

// Audience separates login tokens from session credentials so one can never be
// presented as the other.
type Audience string

const (
	// LoginAudience is the "aud" claim of tokens embedded in sign-in links.
	LoginAudience Audience = "login"

	// SessionAudience is the "aud" claim of session credentials.
	SessionAudience Audience = "session"
)

const (
	// DefaultLoginTokenTTL is how long a sign-in link stays valid.
	DefaultLoginTokenTTL = 15 * time.Minute

	// DefaultSessionTTL is how long a session stays valid. Sessions are never renewed.
	DefaultSessionTTL = 6 * time.Hour

	// MinSigningSecretLength is the minimum master secret size in bytes.
	MinSigningSecretLength = 32
)
