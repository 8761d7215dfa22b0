package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
	"github.com/allisson/linkvault/internal/auth/http/dto"
	"github.com/allisson/linkvault/internal/auth/usecase/mocks"
	"github.com/allisson/linkvault/internal/clock"
)

var testNow = time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)

var testCookie = CookieConfig{Name: "linkvault_session", Secure: true}

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSession() *authDomain.Session {
	return &authDomain.Session{
		Subject:   "alice@example.com",
		IssuedAt:  testNow,
		ExpiresAt: testNow.Add(6 * time.Hour),
		Encoded:   "session-credential",
	}
}

// setupAuthRouter wires an AuthHandler with mocked use cases onto a gin engine.
func setupAuthRouter(
	t *testing.T,
	redirectURL string,
) (*gin.Engine, *mocks.MockMagicLinkUseCase, *mocks.MockSessionUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	magicLink := &mocks.MockMagicLinkUseCase{}
	sessions := &mocks.MockSessionUseCase{}
	logger := createTestLogger()
	handler := NewAuthHandler(magicLink, sessions, testCookie, redirectURL, clock.NewFake(testNow), logger)

	router := gin.New()
	router.POST("/v1/auth/request-access", handler.RequestAccessHandler)
	router.GET("/v1/auth/callback", handler.CallbackHandler)
	router.POST("/v1/auth/logout", handler.LogoutHandler)
	router.GET("/v1/auth/session", SessionMiddleware(sessions, testCookie.Name, logger), handler.SessionHandler)

	return router, magicLink, sessions
}

func doRequest(router http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestAuthHandler_RequestAccessHandler(t *testing.T) {
	t.Run("Success_LinkSent", func(t *testing.T) {
		router, magicLink, _ := setupAuthRouter(t, "")
		magicLink.On("RequestAccess", mock.Anything, "alice@example.com").Return(nil).Once()

		w := doRequest(router, http.MethodPost, "/v1/auth/request-access", []byte(`{"email":"alice@example.com"}`))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.MessageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Message)
		magicLink.AssertExpectations(t)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		router, magicLink, _ := setupAuthRouter(t, "")

		w := doRequest(router, http.MethodPost, "/v1/auth/request-access", []byte("not json"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		magicLink.AssertNotCalled(t, "RequestAccess", mock.Anything, mock.Anything)
	})

	t.Run("Error_MissingEmail", func(t *testing.T) {
		router, magicLink, _ := setupAuthRouter(t, "")

		w := doRequest(router, http.MethodPost, "/v1/auth/request-access", []byte(`{}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		magicLink.AssertNotCalled(t, "RequestAccess", mock.Anything, mock.Anything)
	})

	t.Run("Error_InvalidEmail", func(t *testing.T) {
		router, magicLink, _ := setupAuthRouter(t, "")
		magicLink.On("RequestAccess", mock.Anything, "nope").Return(authDomain.ErrInvalidEmail).Once()

		w := doRequest(router, http.MethodPost, "/v1/auth/request-access", []byte(`{"email":"nope"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_DeliveryFailed", func(t *testing.T) {
		router, magicLink, _ := setupAuthRouter(t, "")
		magicLink.On("RequestAccess", mock.Anything, "alice@example.com").
			Return(authDomain.ErrDeliveryFailed).
			Once()

		w := doRequest(router, http.MethodPost, "/v1/auth/request-access", []byte(`{"email":"alice@example.com"}`))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAuthHandler_CallbackHandler(t *testing.T) {
	t.Run("Success_SetsCookieAndReturnsJSON", func(t *testing.T) {
		router, _, sessions := setupAuthRouter(t, "")
		sessions.On("Redeem", mock.Anything, "login-token").Return(testSession(), nil).Once()

		w := doRequest(router, http.MethodGet, "/v1/auth/callback?token=login-token", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

		cookie := findCookie(w, testCookie.Name)
		require.NotNil(t, cookie)
		assert.Equal(t, "session-credential", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.Equal(t, int((6 * time.Hour).Seconds()), cookie.MaxAge)

		var resp dto.SessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "alice@example.com", resp.Subject)
		assert.Equal(t, "session-credential", resp.SessionToken)
	})

	t.Run("Success_RedirectsWhenConfigured", func(t *testing.T) {
		router, _, sessions := setupAuthRouter(t, "https://app.example.com/files")
		sessions.On("Redeem", mock.Anything, "login-token").Return(testSession(), nil).Once()

		w := doRequest(router, http.MethodGet, "/v1/auth/callback?token=login-token", nil)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "https://app.example.com/files", w.Header().Get("Location"))
		assert.NotNil(t, findCookie(w, testCookie.Name))
	})

	t.Run("Error_InvalidLinkSetsNoCookie", func(t *testing.T) {
		router, _, sessions := setupAuthRouter(t, "")
		sessions.On("Redeem", mock.Anything, "garbage").Return(nil, authDomain.ErrAuthFailed).Once()

		w := doRequest(router, http.MethodGet, "/v1/auth/callback?token=garbage", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, w.Header().Get("Set-Cookie"))
		assert.Contains(t, w.Body.String(), "invalid_link")
	})

	t.Run("Error_MissingToken", func(t *testing.T) {
		router, _, sessions := setupAuthRouter(t, "")

		w := doRequest(router, http.MethodGet, "/v1/auth/callback", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, w.Header().Get("Set-Cookie"))
		sessions.AssertNotCalled(t, "Redeem", mock.Anything, mock.Anything)
	})

	t.Run("Error_LedgerFailureIs500", func(t *testing.T) {
		router, _, sessions := setupAuthRouter(t, "")
		sessions.On("Redeem", mock.Anything, "login-token").Return(nil, errors.New("database is locked")).Once()

		w := doRequest(router, http.MethodGet, "/v1/auth/callback?token=login-token", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, w.Header().Get("Set-Cookie"))
		assert.NotContains(t, w.Body.String(), "locked")
	})
}

func TestAuthHandler_LogoutHandler(t *testing.T) {
	router, _, _ := setupAuthRouter(t, "")

	w := doRequest(router, http.MethodPost, "/v1/auth/logout", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	cookie := findCookie(w, testCookie.Name)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestAuthHandler_SessionHandler(t *testing.T) {
	t.Run("Success_FromCookie", func(t *testing.T) {
		router, _, sessions := setupAuthRouter(t, "")
		sessions.On("Authorize", mock.Anything, "session-credential").Return(testSession(), nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/auth/session", nil)
		req.AddCookie(&http.Cookie{Name: testCookie.Name, Value: "session-credential"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.SessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "alice@example.com", resp.Subject)
		assert.Empty(t, resp.SessionToken)
	})

	t.Run("Error_NoCredential", func(t *testing.T) {
		router, _, sessions := setupAuthRouter(t, "")

		w := doRequest(router, http.MethodGet, "/v1/auth/session", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		sessions.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything)
	})
}
