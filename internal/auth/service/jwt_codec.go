package service

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
	"github.com/allisson/linkvault/internal/clock"
)

// jwtCodec signs and verifies HS256 tokens bound to one audience.
type jwtCodec struct {
	key      []byte
	issuer   string
	audience authDomain.Audience
	ttl      time.Duration
	clock    clock.Clock
}

func (c *jwtCodec) sign(subject string, id string) (*jwt.RegisteredClaims, string, error) {
	// NumericDate has second precision; truncating keeps decoded claims equal to issued ones.
	now := c.clock.Now().UTC().Truncate(time.Second)

	claims := &jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{string(c.audience)},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		ID:        id,
	}

	encoded, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return nil, "", err
	}
	return claims, encoded, nil
}

// parse verifies the signature first and only then looks at the claims, so a
// forged token never reports ErrExpired.
func (c *jwtCodec) parse(encoded string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(
		encoded,
		claims,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !token.Valid {
		return nil, authDomain.ErrInvalidSignature
	}

	if claims.Issuer != c.issuer || !slices.Contains(claims.Audience, string(c.audience)) {
		return nil, authDomain.ErrInvalidSignature
	}
	if claims.Subject == "" || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, authDomain.ErrInvalidSignature
	}

	if c.clock.Now().After(claims.ExpiresAt.Time) {
		return nil, authDomain.ErrExpired
	}

	return claims, nil
}

type loginTokenCodec struct {
	jwtCodec
}

// NewLoginTokenCodec creates a LoginTokenCodec signing with key.
func NewLoginTokenCodec(key []byte, issuer string, ttl time.Duration, clk clock.Clock) LoginTokenCodec {
	return &loginTokenCodec{jwtCodec{
		key:      key,
		issuer:   issuer,
		audience: authDomain.LoginAudience,
		ttl:      ttl,
		clock:    clk,
	}}
}

// Issue creates a signed login token for subject with a random token ID.
func (c *loginTokenCodec) Issue(subject string) (*authDomain.LoginToken, error) {
	tokenID := uuid.New()

	claims, encoded, err := c.sign(subject, tokenID.String())
	if err != nil {
		return nil, err
	}

	return &authDomain.LoginToken{
		Subject:   subject,
		TokenID:   tokenID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		Encoded:   encoded,
	}, nil
}

// Decode verifies encoded and returns the login token it carries.
func (c *loginTokenCodec) Decode(encoded string) (*authDomain.LoginToken, error) {
	claims, err := c.parse(encoded)
	if err != nil {
		return nil, err
	}

	tokenID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, authDomain.ErrInvalidSignature
	}

	return &authDomain.LoginToken{
		Subject:   claims.Subject,
		TokenID:   tokenID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		Encoded:   encoded,
	}, nil
}

type sessionCodec struct {
	jwtCodec
}

// NewSessionCodec creates a SessionCodec signing with key.
func NewSessionCodec(key []byte, issuer string, ttl time.Duration, clk clock.Clock) SessionCodec {
	return &sessionCodec{jwtCodec{
		key:      key,
		issuer:   issuer,
		audience: authDomain.SessionAudience,
		ttl:      ttl,
		clock:    clk,
	}}
}

// Mint creates a session credential for subject.
func (c *sessionCodec) Mint(subject string) (*authDomain.Session, error) {
	claims, encoded, err := c.sign(subject, uuid.NewString())
	if err != nil {
		return nil, err
	}

	return &authDomain.Session{
		Subject:   subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		Encoded:   encoded,
	}, nil
}

// Verify checks encoded and returns the session it carries.
func (c *sessionCodec) Verify(encoded string) (*authDomain.Session, error) {
	claims, err := c.parse(encoded)
	if err != nil {
		return nil, err
	}

	return &authDomain.Session{
		Subject:   claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		Encoded:   encoded,
	}, nil
}
