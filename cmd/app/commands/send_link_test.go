package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
	authMocks "github.com/allisson/linkvault/internal/auth/usecase/mocks"
	apperrors "github.com/allisson/linkvault/internal/errors"
)

func TestRunSendLink(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("success", func(t *testing.T) {
		mockUseCase := &authMocks.MockMagicLinkUseCase{}
		mockUseCase.On("RequestAccess", ctx, "alice@example.com").Return(nil)

		var out bytes.Buffer
		err := RunSendLink(ctx, mockUseCase, logger, &out, "alice@example.com")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Sign-in link sent to alice@example.com")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-email", func(t *testing.T) {
		mockUseCase := &authMocks.MockMagicLinkUseCase{}
		mockUseCase.On("RequestAccess", ctx, "not-an-email").Return(authDomain.ErrInvalidEmail)

		var out bytes.Buffer
		err := RunSendLink(ctx, mockUseCase, logger, &out, "not-an-email")

		require.Error(t, err)
		require.True(t, apperrors.Is(err, authDomain.ErrInvalidEmail))
		require.Empty(t, out.String())
	})
}
