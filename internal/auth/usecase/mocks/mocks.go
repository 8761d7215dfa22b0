// Package mocks provides testify mocks for the auth use case interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
	mailDomain "github.com/allisson/linkvault/internal/mail/domain"
)

// MockRedemptionRepository is a mock implementation of usecase.RedemptionRepository.
type MockRedemptionRepository struct {
	mock.Mock
}

func (m *MockRedemptionRepository) TryRedeem(ctx context.Context, redemption *authDomain.Redemption) (bool, error) {
	args := m.Called(ctx, redemption)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedemptionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRedemptionRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockMailer is a mock implementation of usecase.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg *mailDomain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockMagicLinkUseCase is a mock implementation of usecase.MagicLinkUseCase.
type MockMagicLinkUseCase struct {
	mock.Mock
}

func (m *MockMagicLinkUseCase) RequestAccess(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockSessionUseCase is a mock implementation of usecase.SessionUseCase.
type MockSessionUseCase struct {
	mock.Mock
}

func (m *MockSessionUseCase) Redeem(ctx context.Context, encodedToken string) (*authDomain.Session, error) {
	args := m.Called(ctx, encodedToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Session), args.Error(1)
}

func (m *MockSessionUseCase) Authorize(ctx context.Context, encodedSession string) (*authDomain.Session, error) {
	args := m.Called(ctx, encodedSession)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Session), args.Error(1)
}

// MockRedemptionUseCase is a mock implementation of usecase.RedemptionUseCase.
type MockRedemptionUseCase struct {
	mock.Mock
}

func (m *MockRedemptionUseCase) Prune(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error) {
	args := m.Called(ctx, olderThan, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRedemptionUseCase) Start(ctx context.Context, interval time.Duration) error {
	args := m.Called(ctx, interval)
	return args.Error(0)
}
