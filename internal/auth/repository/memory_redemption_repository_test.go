package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRedemptionRepository(t *testing.T) {
	testLedgerContract(t, func(t *testing.T) ledger {
		return NewMemoryRedemptionRepository()
	})
}

func TestMemoryRedemptionRepository_Len(t *testing.T) {
	repo := NewMemoryRedemptionRepository()
	assert.Equal(t, 0, repo.Len())

	ok, err := repo.TryRedeem(context.Background(), newRedemption(time.Minute))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, repo.Len())
}
