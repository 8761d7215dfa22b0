package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
	authService "github.com/allisson/linkvault/internal/auth/service"
	"github.com/allisson/linkvault/internal/clock"
)

type sessionUseCase struct {
	loginCodec   authService.LoginTokenCodec
	sessionCodec authService.SessionCodec
	ledger       RedemptionRepository
	clock        clock.Clock
	logger       *slog.Logger
}

// NewSessionUseCase creates a SessionUseCase.
func NewSessionUseCase(
	loginCodec authService.LoginTokenCodec,
	sessionCodec authService.SessionCodec,
	ledger RedemptionRepository,
	clk clock.Clock,
	logger *slog.Logger,
) SessionUseCase {
	return &sessionUseCase{
		loginCodec:   loginCodec,
		sessionCodec: sessionCodec,
		ledger:       ledger,
		clock:        clk,
		logger:       logger,
	}
}

// Redeem exchanges a sign-in link token for a session.
//
// The token moves from issued to exactly one terminal state: redeemed (first
// successful call), expired or invalid. Callers only ever see ErrAuthFailed for
// the failure states; the precise reason is logged.
func (s *sessionUseCase) Redeem(ctx context.Context, encodedToken string) (*authDomain.Session, error) {
	token, err := s.loginCodec.Decode(strings.TrimSpace(encodedToken))
	if err != nil {
		s.logger.Info("sign-in link rejected", slog.Any("reason", err))
		return nil, authDomain.ErrAuthFailed
	}

	redeemed, err := s.ledger.TryRedeem(ctx, &authDomain.Redemption{
		TokenID:    token.TokenID,
		Subject:    token.Subject,
		ExpiresAt:  token.ExpiresAt,
		RedeemedAt: s.clock.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record redemption: %w", err)
	}
	if !redeemed {
		s.logger.Warn("sign-in link replayed",
			slog.String("token_id", token.TokenID.String()),
			slog.Any("reason", authDomain.ErrAlreadyRedeemed),
		)
		return nil, authDomain.ErrAuthFailed
	}

	session, err := s.sessionCodec.Mint(token.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to mint session: %w", err)
	}

	s.logger.Info("session established",
		slog.String("token_id", token.TokenID.String()),
		slog.Time("expires_at", session.ExpiresAt),
	)
	return session, nil
}

// Authorize validates a session credential.
func (s *sessionUseCase) Authorize(_ context.Context, encodedSession string) (*authDomain.Session, error) {
	if encodedSession == "" {
		return nil, authDomain.ErrUnauthenticated
	}

	session, err := s.sessionCodec.Verify(encodedSession)
	if err != nil {
		return nil, authDomain.ErrUnauthenticated
	}
	return session, nil
}
