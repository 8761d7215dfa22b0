package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
)

func TestMapSessionToResponse(t *testing.T) {
	issuedAt := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	session := &authDomain.Session{
		Subject:   "alice@example.com",
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(6 * time.Hour),
		Encoded:   "secret-credential",
	}

	resp := MapSessionToResponse(session)
	assert.Equal(t, "alice@example.com", resp.Subject)
	assert.Equal(t, issuedAt.Add(6*time.Hour), resp.ExpiresAt)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "secret-credential")
	assert.NotContains(t, string(body), "session_token")
}
