package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
)

// ledger is the behaviour shared by every redemption repository.
type ledger interface {
	TryRedeem(ctx context.Context, redemption *authDomain.Redemption) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
	CountExpired(ctx context.Context, before time.Time) (int64, error)
}

var ledgerNow = time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)

func newRedemption(expiresIn time.Duration) *authDomain.Redemption {
	return &authDomain.Redemption{
		TokenID:    uuid.New(),
		Subject:    "alice@example.com",
		ExpiresAt:  ledgerNow.Add(expiresIn),
		RedeemedAt: ledgerNow,
	}
}

// testLedgerContract exercises the insert-if-absent and pruning behaviour every
// backend must provide. newLedger must return an empty ledger.
func testLedgerContract(t *testing.T, newLedger func(t *testing.T) ledger) {
	ctx := context.Background()

	t.Run("Success_FirstRedeemWins", func(t *testing.T) {
		repo := newLedger(t)
		r := newRedemption(15 * time.Minute)

		ok, err := repo.TryRedeem(ctx, r)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.TryRedeem(ctx, r)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Success_DistinctTokensAreIndependent", func(t *testing.T) {
		repo := newLedger(t)

		for range 3 {
			ok, err := repo.TryRedeem(ctx, newRedemption(15*time.Minute))
			require.NoError(t, err)
			assert.True(t, ok)
		}
	})

	t.Run("Success_CountAndDeleteExpired", func(t *testing.T) {
		repo := newLedger(t)

		expired := newRedemption(-time.Hour)
		live := newRedemption(time.Hour)
		for _, r := range []*authDomain.Redemption{expired, newRedemption(-2 * time.Hour), live} {
			ok, err := repo.TryRedeem(ctx, r)
			require.NoError(t, err)
			require.True(t, ok)
		}

		count, err := repo.CountExpired(ctx, ledgerNow)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		deleted, err := repo.DeleteExpired(ctx, ledgerNow)
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		count, err = repo.CountExpired(ctx, ledgerNow)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		ok, err := repo.TryRedeem(ctx, live)
		require.NoError(t, err)
		assert.False(t, ok, "live entries must survive pruning")
	})

	t.Run("Success_ConcurrentRedeemHasOneWinner", func(t *testing.T) {
		repo := newLedger(t)
		r := newRedemption(15 * time.Minute)

		const workers = 50
		var (
			wg    sync.WaitGroup
			wins  atomic.Int32
			fails atomic.Int32
			start = make(chan struct{})
		)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				ok, err := repo.TryRedeem(ctx, r)
				if err != nil {
					fails.Add(1)
					return
				}
				if ok {
					wins.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(0), fails.Load())
		assert.Equal(t, int32(1), wins.Load())
	})
}
