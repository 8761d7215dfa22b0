package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
)

// MemoryRedemptionRepository keeps the redemption ledger in process memory.
// Entries are lost on restart, which re-enables any unexpired redeemed link.
type MemoryRedemptionRepository struct {
	mu      sync.Mutex
	entries map[uuid.UUID]authDomain.Redemption
}

// TryRedeem records the redemption unless the token ID is already present.
func (m *MemoryRedemptionRepository) TryRedeem(_ context.Context, redemption *authDomain.Redemption) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[redemption.TokenID]; ok {
		return false, nil
	}
	m.entries[redemption.TokenID] = *redemption
	return true, nil
}

// DeleteExpired removes entries that expired before the given time.
func (m *MemoryRedemptionRepository) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for id, entry := range m.entries {
		if entry.ExpiresAt.Before(before) {
			delete(m.entries, id)
			count++
		}
	}
	return count, nil
}

// CountExpired counts entries that expired before the given time.
func (m *MemoryRedemptionRepository) CountExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, entry := range m.entries {
		if entry.ExpiresAt.Before(before) {
			count++
		}
	}
	return count, nil
}

// Len returns the number of ledger entries.
func (m *MemoryRedemptionRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// NewMemoryRedemptionRepository creates an empty in-memory ledger.
func NewMemoryRedemptionRepository() *MemoryRedemptionRepository {
	return &MemoryRedemptionRepository{entries: make(map[uuid.UUID]authDomain.Redemption)}
}
