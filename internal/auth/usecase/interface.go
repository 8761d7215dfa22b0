// Package usecase defines business logic interfaces for passwordless sign-in.
package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
	mailDomain "github.com/allisson/linkvault/internal/mail/domain"
)

// RedemptionRepository is the redemption ledger. Every implementation must make
// TryRedeem an atomic insert-if-absent keyed by TokenID.
type RedemptionRepository interface {
	// TryRedeem records redemption and returns true, or returns false when the
	// token ID is already present. Under any number of concurrent callers with
	// the same token ID exactly one receives true. An infrastructure failure is
	// returned as an error, never as false.
	TryRedeem(ctx context.Context, redemption *authDomain.Redemption) (bool, error)

	// DeleteExpired removes entries whose ExpiresAt is before the given time and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)

	// CountExpired returns how many entries DeleteExpired would remove.
	CountExpired(ctx context.Context, before time.Time) (int64, error)
}

// Mailer delivers outbound mail.
type Mailer interface {
	Send(ctx context.Context, msg *mailDomain.Message) error
}

// MagicLinkUseCase issues sign-in links.
type MagicLinkUseCase interface {
	// RequestAccess validates and normalizes email, issues a fresh login token and
	// mails a sign-in link to the address. Earlier unredeemed links stay valid.
	//
	// Returns ErrInvalidEmail without contacting any collaborator when the address
	// is malformed, and ErrDeliveryFailed when the mailer fails or times out.
	RequestAccess(ctx context.Context, email string) error
}

// SessionUseCase turns sign-in links into sessions and guards session credentials.
type SessionUseCase interface {
	// Redeem decodes the login token, records it in the ledger and mints a
	// session. Tampered, expired and already redeemed tokens all yield
	// ErrAuthFailed. A ledger failure is returned as is and does not consume
	// the token.
	Redeem(ctx context.Context, encodedToken string) (*authDomain.Session, error)

	// Authorize validates a session credential. Absent, malformed, tampered and
	// expired credentials all yield ErrUnauthenticated.
	Authorize(ctx context.Context, encodedSession string) (*authDomain.Session, error)
}

// RedemptionUseCase maintains the redemption ledger.
type RedemptionUseCase interface {
	// Prune removes ledger entries that expired more than olderThan ago.
	// When dryRun is true, it only counts them.
	Prune(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error)

	// Start prunes expired entries on every interval tick until ctx is done.
	Start(ctx context.Context, interval time.Duration) error
}
