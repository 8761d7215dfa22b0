package service

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
)

// HKDF info strings. Versioned so the derivation can change without key reuse.
const (
	loginKeyInfo   = "login-token-signing-v1"
	sessionKeyInfo = "session-signing-v1"
)

// SigningKeys holds the two HMAC keys derived from the master signing secret.
// They are read-only after startup.
type SigningKeys struct {
	Login   []byte
	Session []byte
}

// DeriveSigningKeys derives independent login and session keys from secret using
// HKDF-SHA256. The secret must be at least MinSigningSecretLength bytes.
func DeriveSigningKeys(secret []byte) (*SigningKeys, error) {
	if len(secret) < authDomain.MinSigningSecretLength {
		return nil, authDomain.ErrInvalidSigningSecret
	}

	login, err := deriveKey(secret, loginKeyInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to derive login key: %w", err)
	}
	session, err := deriveKey(secret, sessionKeyInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to derive session key: %w", err)
	}

	return &SigningKeys{Login: login, Session: session}, nil
}

// GenerateSigningSecret returns a new random master secret.
func GenerateSigningSecret() ([]byte, error) {
	secret := make([]byte, authDomain.MinSigningSecretLength)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate signing secret: %w", err)
	}
	return secret, nil
}

func deriveKey(secret []byte, info string) ([]byte, error) {
	r := hkdf.New(sha256.New, secret, nil, []byte(info))

	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Zero overwrites sensitive data in memory with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
