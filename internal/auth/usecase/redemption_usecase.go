package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/allisson/linkvault/internal/clock"
)

type redemptionUseCase struct {
	ledger RedemptionRepository
	clock  clock.Clock
	logger *slog.Logger
}

// NewRedemptionUseCase creates a RedemptionUseCase.
func NewRedemptionUseCase(ledger RedemptionRepository, clk clock.Clock, logger *slog.Logger) RedemptionUseCase {
	return &redemptionUseCase{
		ledger: ledger,
		clock:  clk,
		logger: logger,
	}
}

// Prune removes (or, with dryRun, counts) entries that expired before now-olderThan.
// An expired token fails decoding, so dropping its entry cannot re-enable it.
func (r *redemptionUseCase) Prune(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error) {
	if olderThan < 0 {
		olderThan = 0
	}
	before := r.clock.Now().Add(-olderThan)

	if dryRun {
		return r.ledger.CountExpired(ctx, before)
	}
	return r.ledger.DeleteExpired(ctx, before)
}

// Start runs Prune on every tick until ctx is done.
func (r *redemptionUseCase) Start(ctx context.Context, interval time.Duration) error {
	r.logger.Info("starting redemption ledger pruner", slog.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("stopping redemption ledger pruner")
			return ctx.Err()
		case <-ticker.C:
			count, err := r.Prune(ctx, 0, false)
			if err != nil {
				r.logger.Error("failed to prune redemption ledger", slog.Any("error", err))
				continue
			}
			if count > 0 {
				r.logger.Info("pruned redemption ledger", slog.Int64("count", count))
			}
		}
	}
}
