// Package http provides the HTTP surface of passwordless sign-in: the sign-in
// handlers, the session middleware and the rate limiters.
package http

import (
	"context"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
)

// sessionKey is a context key type for storing the authenticated session.
type sessionKey struct{}

// WithSession stores an authenticated session in the context.
func WithSession(ctx context.Context, session *authDomain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSession retrieves the authenticated session from the context.
func GetSession(ctx context.Context) (*authDomain.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*authDomain.Session)
	return session, ok && session != nil
}

// GetSubject returns the subject of the authenticated session. File handlers take
// the storage namespace from here and nowhere else.
func GetSubject(ctx context.Context) (string, bool) {
	session, ok := GetSession(ctx)
	if !ok || session.Subject == "" {
		return "", false
	}
	return session.Subject, true
}
