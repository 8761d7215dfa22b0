package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
	"github.com/allisson/linkvault/internal/metrics"
)

// magicLinkUseCaseWithMetrics decorates MagicLinkUseCase with metrics instrumentation.
type magicLinkUseCaseWithMetrics struct {
	next    MagicLinkUseCase
	metrics metrics.BusinessMetrics
}

// NewMagicLinkUseCaseWithMetrics wraps a MagicLinkUseCase with metrics recording.
func NewMagicLinkUseCaseWithMetrics(useCase MagicLinkUseCase, m metrics.BusinessMetrics) MagicLinkUseCase {
	return &magicLinkUseCaseWithMetrics{next: useCase, metrics: m}
}

// RequestAccess records metrics for sign-in link requests.
func (m *magicLinkUseCaseWithMetrics) RequestAccess(ctx context.Context, email string) error {
	start := time.Now()
	err := m.next.RequestAccess(ctx, email)
	metrics.Observe(ctx, m.metrics, "auth", "request_access", start, err)

	return err
}

// sessionUseCaseWithMetrics decorates SessionUseCase with metrics instrumentation.
type sessionUseCaseWithMetrics struct {
	next    SessionUseCase
	metrics metrics.BusinessMetrics
}

// NewSessionUseCaseWithMetrics wraps a SessionUseCase with metrics recording.
func NewSessionUseCaseWithMetrics(useCase SessionUseCase, m metrics.BusinessMetrics) SessionUseCase {
	return &sessionUseCaseWithMetrics{next: useCase, metrics: m}
}

// Redeem records metrics for sign-in link redemptions.
func (s *sessionUseCaseWithMetrics) Redeem(ctx context.Context, encodedToken string) (*authDomain.Session, error) {
	start := time.Now()
	session, err := s.next.Redeem(ctx, encodedToken)
	metrics.Observe(ctx, s.metrics, "auth", "redeem", start, err)

	return session, err
}

// Authorize records metrics for session checks.
func (s *sessionUseCaseWithMetrics) Authorize(ctx context.Context, encodedSession string) (*authDomain.Session, error) {
	start := time.Now()
	session, err := s.next.Authorize(ctx, encodedSession)
	metrics.Observe(ctx, s.metrics, "auth", "authorize", start, err)

	return session, err
}

// redemptionUseCaseWithMetrics decorates RedemptionUseCase with metrics instrumentation.
type redemptionUseCaseWithMetrics struct {
	next    RedemptionUseCase
	metrics metrics.BusinessMetrics
}

// NewRedemptionUseCaseWithMetrics wraps a RedemptionUseCase with metrics recording.
func NewRedemptionUseCaseWithMetrics(useCase RedemptionUseCase, m metrics.BusinessMetrics) RedemptionUseCase {
	return &redemptionUseCaseWithMetrics{next: useCase, metrics: m}
}

// Prune records metrics for ledger pruning.
func (r *redemptionUseCaseWithMetrics) Prune(
	ctx context.Context,
	olderThan time.Duration,
	dryRun bool,
) (int64, error) {
	start := time.Now()
	count, err := r.next.Prune(ctx, olderThan, dryRun)
	metrics.Observe(ctx, r.metrics, "auth", "ledger_prune", start, err)

	return count, err
}

// Start delegates to the wrapped use case. Each tick calls Prune on the wrapped
// use case, so individual runs are not recorded here.
func (r *redemptionUseCaseWithMetrics) Start(ctx context.Context, interval time.Duration) error {
	return r.next.Start(ctx, interval)
}
