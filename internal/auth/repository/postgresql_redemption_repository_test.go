package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/linkvault/internal/testutil"
)

func TestPostgreSQLRedemptionRepository(t *testing.T) {
	testLedgerContract(t, func(t *testing.T) ledger {
		db := testutil.SetupPostgresDB(t)
		t.Cleanup(func() { testutil.TeardownDB(t, db) })
		return NewPostgreSQLRedemptionRepository(db)
	})
}

func TestPostgreSQLRedemptionRepository_TryRedeem_Mock(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Inserted", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec("INSERT INTO redemptions .* ON CONFLICT \\(token_id\\) DO NOTHING").
			WithArgs(sqlmock.AnyArg(), "alice@example.com", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := NewPostgreSQLRedemptionRepository(db).TryRedeem(ctx, newRedemption(time.Minute))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_ConflictReturnsFalse", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec("INSERT INTO redemptions").WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := NewPostgreSQLRedemptionRepository(db).TryRedeem(ctx, newRedemption(time.Minute))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Error_DatabaseFailureIsNotAReplay", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec("INSERT INTO redemptions").WillReturnError(errors.New("connection reset"))

		ok, err := NewPostgreSQLRedemptionRepository(db).TryRedeem(ctx, newRedemption(time.Minute))
		assert.Error(t, err)
		assert.False(t, ok)
		assert.Contains(t, err.Error(), "failed to record redemption")
	})
}

func TestPostgreSQLRedemptionRepository_Prune_Mock(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM redemptions WHERE expires_at < \\$1").
		WithArgs(ledgerNow).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec("DELETE FROM redemptions WHERE expires_at < \\$1").
		WithArgs(ledgerNow).
		WillReturnResult(sqlmock.NewResult(0, 3))

	repo := NewPostgreSQLRedemptionRepository(db)

	count, err := repo.CountExpired(ctx, ledgerNow)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	deleted, err := repo.DeleteExpired(ctx, ledgerNow)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
