package repository

import (
	"context"
	"database/sql"
	"time"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
	apperrors "github.com/allisson/linkvault/internal/errors"
)

// SQLiteRedemptionRepository implements the redemption ledger for SQLite.
// Timestamps are stored as Unix milliseconds.
type SQLiteRedemptionRepository struct {
	db *sql.DB
}

// TryRedeem inserts the redemption with ON CONFLICT DO NOTHING.
func (s *SQLiteRedemptionRepository) TryRedeem(ctx context.Context, redemption *authDomain.Redemption) (bool, error) {
	query := `INSERT INTO redemptions (token_id, subject, expires_at, redeemed_at)
			  VALUES (?, ?, ?, ?)
			  ON CONFLICT(token_id) DO NOTHING`

	result, err := s.db.ExecContext(
		ctx,
		query,
		redemption.TokenID.String(),
		redemption.Subject,
		redemption.ExpiresAt.UnixMilli(),
		redemption.RedeemedAt.UnixMilli(),
	)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to record redemption")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}
	return rows == 1, nil
}

// DeleteExpired removes entries that expired before the given time.
func (s *SQLiteRedemptionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM redemptions WHERE expires_at < ?`, before.UnixMilli())
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired redemptions")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}
	return count, nil
}

// CountExpired counts entries that expired before the given time.
func (s *SQLiteRedemptionRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM redemptions WHERE expires_at < ?`, before.UnixMilli()).
		Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired redemptions")
	}
	return count, nil
}

// NewSQLiteRedemptionRepository creates a new SQLite redemption ledger.
func NewSQLiteRedemptionRepository(db *sql.DB) *SQLiteRedemptionRepository {
	return &SQLiteRedemptionRepository{db: db}
}
