package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/allisson/linkvault/internal/auth/usecase"
)

// RunSendLink mails a sign-in link to email through the configured mailer.
func RunSendLink(
	ctx context.Context,
	magicLinkUseCase authUseCase.MagicLinkUseCase,
	logger *slog.Logger,
	writer io.Writer,
	email string,
) error {
	if err := magicLinkUseCase.RequestAccess(ctx, email); err != nil {
		return fmt.Errorf("failed to send sign-in link: %w", err)
	}

	logger.Info("sign-in link sent")
	_, err := fmt.Fprintf(writer, "Sign-in link sent to %s\n", email)
	return err
}
