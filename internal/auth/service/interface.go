// Package service provides the cryptographic services behind passwordless sign-in:
// signing key derivation, the login token codec, the session codec and KMS access
// for the wrapped signing secret.
package service

import (
	"context"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
)

// LoginTokenCodec issues and decodes the one-time tokens embedded in sign-in links.
// Decode is stateless: it never consults the redemption ledger.
type LoginTokenCodec interface {
	// Issue creates a signed token for subject with a fresh random token ID.
	Issue(subject string) (*authDomain.LoginToken, error)

	// Decode verifies encoded and returns its claims. It returns
	// ErrInvalidSignature when integrity, algorithm, issuer or audience checks
	// fail, and ErrExpired when the current time is past the expiry.
	Decode(encoded string) (*authDomain.LoginToken, error)
}

// SessionCodec mints and verifies session credentials. Its key is independent
// from the login token key.
type SessionCodec interface {
	// Mint creates a signed session credential for subject.
	Mint(subject string) (*authDomain.Session, error)

	// Verify checks encoded and returns the session it carries, with the same
	// error contract as LoginTokenCodec.Decode.
	Verify(encoded string) (*authDomain.Session, error)
}

// KeyKeeper wraps and unwraps secrets with a KMS key. *secrets.Keeper implements it.
type KeyKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens KeyKeepers from provider URIs.
type KMSService interface {
	// OpenKeeper opens a keeper for keyURI.
	// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
	OpenKeeper(ctx context.Context, keyURI string) (KeyKeeper, error)
}
