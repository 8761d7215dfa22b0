package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
	apperrors "github.com/allisson/linkvault/internal/errors"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// MySQLRedemptionRepository implements the redemption ledger for MySQL.
// Token IDs are stored as BINARY(16).
type MySQLRedemptionRepository struct {
	db *sql.DB
}

// TryRedeem inserts the redemption. A duplicate key error means the token was
// already redeemed; every other error is returned.
func (m *MySQLRedemptionRepository) TryRedeem(ctx context.Context, redemption *authDomain.Redemption) (bool, error) {
	id, err := redemption.TokenID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal token id")
	}

	query := `INSERT INTO redemptions (token_id, subject, expires_at, redeemed_at) VALUES (?, ?, ?, ?)`

	_, err = m.db.ExecContext(
		ctx,
		query,
		id,
		redemption.Subject,
		redemption.ExpiresAt.UTC(),
		redemption.RedeemedAt.UTC(),
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return false, nil
		}
		return false, apperrors.Wrap(err, "failed to record redemption")
	}
	return true, nil
}

// DeleteExpired removes entries that expired before the given time.
func (m *MySQLRedemptionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := m.db.ExecContext(ctx, `DELETE FROM redemptions WHERE expires_at < ?`, before.UTC())
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
func (m *MySQLRedemptionRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	var count int64
	err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM redemptions WHERE expires_at < ?`, before.UTC()).
		Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired redemptions")
	}
	return count, nil
}

// NewMySQLRedemptionRepository creates a new MySQL redemption ledger.
func NewMySQLRedemptionRepository(db *sql.DB) *MySQLRedemptionRepository {
	return &MySQLRedemptionRepository{db: db}
}
