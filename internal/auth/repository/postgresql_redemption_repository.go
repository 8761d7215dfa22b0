package repository

import (
	"context"
	"database/sql"
	"time"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
	apperrors "github.com/allisson/linkvault/internal/errors"
)

// PostgreSQLRedemptionRepository implements the redemption ledger for PostgreSQL.
// The primary key on token_id makes the insert-if-absent atomic.
type PostgreSQLRedemptionRepository struct {
	db *sql.DB
}

// TryRedeem inserts the redemption with ON CONFLICT DO NOTHING. Zero affected rows
// means another caller already holds the token ID.
func (p *PostgreSQLRedemptionRepository) TryRedeem(
	ctx context.Context,
	redemption *authDomain.Redemption,
) (bool, error) {
	query := `INSERT INTO redemptions (token_id, subject, expires_at, redeemed_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (token_id) DO NOTHING`

	result, err := p.db.ExecContext(
		ctx,
		query,
		redemption.TokenID,
		redemption.Subject,
		redemption.ExpiresAt.UTC(),
		redemption.RedeemedAt.UTC(),
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
func (p *PostgreSQLRedemptionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := p.db.ExecContext(ctx, `DELETE FROM redemptions WHERE expires_at < $1`, before.UTC())
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
func (p *PostgreSQLRedemptionRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	var count int64
	err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM redemptions WHERE expires_at < $1`, before.UTC()).
		Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired redemptions")
	}
	return count, nil
}

// NewPostgreSQLRedemptionRepository creates a new PostgreSQL redemption ledger.
func NewPostgreSQLRedemptionRepository(db *sql.DB) *PostgreSQLRedemptionRepository {
	return &PostgreSQLRedemptionRepository{db: db}
}
