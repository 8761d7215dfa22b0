package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
	authUseCase "github.com/allisson/linkvault/internal/auth/usecase"
	"github.com/allisson/linkvault/internal/httputil"
)

// SessionMiddleware authenticates requests with a session credential.
//
// The credential is read from the session cookie, or from an
// "Authorization: Bearer <session>" header for API clients. On success the
// session is stored in the request context (see GetSession and GetSubject).
//
// When both are present the cookie is tried first and a rejected cookie falls
// back to the header. Missing, malformed, tampered and expired credentials all
// answer 401.
func SessionMiddleware(
	sessionUseCase authUseCase.SessionUseCase,
	cookieName string,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			session *authDomain.Session
			err     = authDomain.ErrUnauthenticated
		)
		for _, credential := range sessionCredentials(c, cookieName) {
			session, err = sessionUseCase.Authorize(c.Request.Context(), credential)
			if err == nil {
				break
			}
		}
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, authDomain.ErrUnauthenticated, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithSession(c.Request.Context(), session))
		c.Next()
	}
}

// sessionCredentials returns the non-empty credentials of the request, cookie first.
func sessionCredentials(c *gin.Context, cookieName string) []string {
	var credentials []string
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		credentials = append(credentials, cookie)
	}

	const bearerPrefix = "bearer "
	header := c.GetHeader("Authorization")
	if len(header) > len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		if token := strings.TrimSpace(header[len(bearerPrefix):]); token != "" {
			credentials = append(credentials, token)
		}
	}
	return credentials
}
