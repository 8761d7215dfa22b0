package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/allisson/linkvault/internal/auth/usecase/mocks"
	"github.com/allisson/linkvault/internal/clock"
)

func TestRedemptionUseCase_Prune(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_DeletesOlderThan", func(t *testing.T) {
		ledger := &mocks.MockRedemptionRepository{}
		uc := NewRedemptionUseCase(ledger, clock.NewFake(testNow), createTestLogger())

		ledger.On("DeleteExpired", ctx, testNow.Add(-time.Hour)).Return(int64(4), nil).Once()

		count, err := uc.Prune(ctx, time.Hour, false)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
		ledger.AssertExpectations(t)
	})

	t.Run("Success_DryRunOnlyCounts", func(t *testing.T) {
		ledger := &mocks.MockRedemptionRepository{}
		uc := NewRedemptionUseCase(ledger, clock.NewFake(testNow), createTestLogger())

		ledger.On("CountExpired", ctx, testNow).Return(int64(2), nil).Once()

		count, err := uc.Prune(ctx, 0, true)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		ledger.AssertNotCalled(t, "DeleteExpired", mock.Anything, mock.Anything)
	})

	t.Run("Success_NegativeOlderThanIsNow", func(t *testing.T) {
		ledger := &mocks.MockRedemptionRepository{}
		uc := NewRedemptionUseCase(ledger, clock.NewFake(testNow), createTestLogger())

		ledger.On("DeleteExpired", ctx, testNow).Return(int64(0), nil).Once()

		_, err := uc.Prune(ctx, -time.Hour, false)
		require.NoError(t, err)
		ledger.AssertExpectations(t)
	})

	t.Run("Error_LedgerFailure", func(t *testing.T) {
		ledger := &mocks.MockRedemptionRepository{}
		uc := NewRedemptionUseCase(ledger, clock.NewFake(testNow), createTestLogger())

		ledger.On("DeleteExpired", ctx, testNow).Return(int64(0), errors.New("db down")).Once()

		_, err := uc.Prune(ctx, 0, false)
		assert.EqualError(t, err, "db down")
	})
}

func TestRedemptionUseCase_Start(t *testing.T) {
	defer goleak.VerifyNone(t)

	ledger := &mocks.MockRedemptionRepository{}
	uc := NewRedemptionUseCase(ledger, clock.NewFake(testNow), createTestLogger())

	var calls atomic.Int32
	ledger.On("DeleteExpired", mock.Anything, testNow).
		Run(func(mock.Arguments) { calls.Add(1) }).
		Return(int64(1), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- uc.Start(ctx, 10*time.Millisecond)
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("pruner did not stop")
	}
}

func TestRedemptionUseCase_Start_KeepsRunningOnError(t *testing.T) {
	defer goleak.VerifyNone(t)

	ledger := &mocks.MockRedemptionRepository{}
	uc := NewRedemptionUseCase(ledger, clock.NewFake(testNow), createTestLogger())

	var calls atomic.Int32
	ledger.On("DeleteExpired", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { calls.Add(1) }).
		Return(int64(0), errors.New("db down"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- uc.Start(ctx, 10*time.Millisecond)
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
