package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	authUseCase "github.com/allisson/linkvault/internal/auth/usecase"
)

// RunCleanRedemptions removes redemption ledger entries that expired more than
// olderThan ago. With dryRun it only counts them. format is "text" or "json".
func RunCleanRedemptions(
	ctx context.Context,
	redemptionUseCase authUseCase.RedemptionUseCase,
	logger *slog.Logger,
	writer io.Writer,
	olderThan time.Duration,
	dryRun bool,
	format string,
) error {
	if olderThan < 0 {
		return fmt.Errorf("older-than must not be negative, got: %s", olderThan)
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}

	logger.Info("cleaning redemption ledger",
		slog.Duration("older_than", olderThan),
		slog.Bool("dry_run", dryRun),
	)

	count, err := redemptionUseCase.Prune(ctx, olderThan, dryRun)
	if err != nil {
		return fmt.Errorf("failed to prune redemption ledger: %w", err)
	}

	if format == "json" {
		err = writeJSON(writer, map[string]any{
			"count":      count,
			"older_than": olderThan.String(),
			"dry_run":    dryRun,
		})
	} else {
		err = outputCleanRedemptionsText(writer, count, olderThan, dryRun)
	}
	if err != nil {
		return err
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Duration("older_than", olderThan),
		slog.Bool("dry_run", dryRun),
	)
	return nil
}

func outputCleanRedemptionsText(w io.Writer, count int64, olderThan time.Duration, dryRun bool) error {
	var err error
	if dryRun {
		_, err = fmt.Fprintf(w, "Dry-run mode: Would delete %d redemption(s) expired more than %s ago\n", count, olderThan)
	} else {
		_, err = fmt.Fprintf(w, "Successfully deleted %d redemption(s) expired more than %s ago\n", count, olderThan)
	}
	return err
}
