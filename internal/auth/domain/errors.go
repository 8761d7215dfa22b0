package domain

import (
	"github.com/allisson/linkvault/internal/errors"
)

// Authentication errors.
var (
	// ErrInvalidEmail indicates the address failed syntactic validation.
	ErrInvalidEmail = errors.Wrap(errors.ErrInvalidInput, "invalid email address")

	// ErrInvalidSignature indicates a token failed its integrity, algorithm,
	// issuer or audience checks.
	ErrInvalidSignature = errors.Wrap(errors.ErrUnauthorized, "invalid token signature")

	// ErrExpired indicates the token is past its expiry.
	ErrExpired = errors.Wrap(errors.ErrUnauthorized, "token expired")

	// ErrAlreadyRedeemed indicates the token is already in the redemption ledger.
	ErrAlreadyRedeemed = errors.Wrap(errors.ErrConflict, "token already redeemed")

	// ErrAuthFailed is the single outcome reported to callers for any redemption
	// failure. The underlying cause is only logged.
	ErrAuthFailed = errors.Wrap(errors.ErrAuthFailed, "sign-in link is invalid or expired")

	// ErrUnauthenticated indicates a missing, malformed, tampered or expired session.
	ErrUnauthenticated = errors.Wrap(errors.ErrUnauthorized, "not authenticated")

	// ErrDeliveryFailed indicates the sign-in link could not be handed to the mailer.
	ErrDeliveryFailed = errors.Wrap(errors.ErrUnavailable, "failed to deliver sign-in link")

	// ErrInvalidSigningSecret indicates the configured master secret is missing or too short.
	ErrInvalidSigningSecret = errors.Wrap(errors.ErrInvalidInput, "signing secret must be at least 32 bytes")
)
