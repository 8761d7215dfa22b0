package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
	"github.com/allisson/linkvault/internal/auth/http/dto"
	authUseCase "github.com/allisson/linkvault/internal/auth/usecase"
	"github.com/allisson/linkvault/internal/clock"
	"github.com/allisson/linkvault/internal/httputil"
	customValidation "github.com/allisson/linkvault/internal/validation"
)

// AuthHandler serves the sign-in endpoints.
type AuthHandler struct {
	magicLinkUseCase authUseCase.MagicLinkUseCase
	sessionUseCase   authUseCase.SessionUseCase
	cookie           CookieConfig
	redirectURL      string
	clock            clock.Clock
	logger           *slog.Logger
}

// NewAuthHandler creates an AuthHandler. When redirectURL is empty the callback
// answers with JSON instead of redirecting.
func NewAuthHandler(
	magicLinkUseCase authUseCase.MagicLinkUseCase,
	sessionUseCase authUseCase.SessionUseCase,
	cookie CookieConfig,
	redirectURL string,
	clk clock.Clock,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		magicLinkUseCase: magicLinkUseCase,
		sessionUseCase:   sessionUseCase,
		cookie:           cookie,
		redirectURL:      redirectURL,
		clock:            clk,
		logger:           logger,
	}
}

// RequestAccessHandler mails a sign-in link.
// POST /v1/auth/request-access
func (h *AuthHandler) RequestAccessHandler(c *gin.Context) {
	var req dto.RequestAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.magicLinkUseCase.RequestAccess(c.Request.Context(), req.Email); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "A sign-in link has been sent to your email address."})
}

// CallbackHandler redeems the token from a sign-in link and sets the session cookie.
// GET /v1/auth/callback?token=...
func (h *AuthHandler) CallbackHandler(c *gin.Context) {
	// The token travels in the URL; keep it out of caches and Referer headers.
	c.Header("Cache-Control", "no-store")
	c.Header("Referrer-Policy", "no-referrer")

	token := c.Query("token")
	if token == "" {
		httputil.HandleErrorGin(c, authDomain.ErrAuthFailed, h.logger)
		return
	}

	session, err := h.sessionUseCase.Redeem(c.Request.Context(), token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.cookie.set(c.Writer, session.Encoded, session.ExpiresAt, h.clock.Now())

	if h.redirectURL != "" {
		c.Redirect(http.StatusSeeOther, h.redirectURL)
		return
	}

	resp := dto.MapSessionToResponse(session)
	resp.SessionToken = session.Encoded
	c.JSON(http.StatusOK, resp)
}

// LogoutHandler clears the session cookie. The credential itself stays valid
// until it expires.
// POST /v1/auth/logout
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	h.cookie.clear(c.Writer)
	c.Status(http.StatusNoContent)
}

// SessionHandler describes the current session.
// GET /v1/auth/session - Requires SessionMiddleware.
func (h *AuthHandler) SessionHandler(c *gin.Context) {
	session, ok := GetSession(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrUnauthenticated, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapSessionToResponse(session))
}
