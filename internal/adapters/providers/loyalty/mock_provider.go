package loyalty

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dcastano/turnero/internal/domain/providers"
)

// MockLoyaltyProvider records credits in memory. Used when no loyalty
// service is configured and in tests.
type MockLoyaltyProvider struct {
	mu      sync.Mutex
	credits map[string]int
}

// NewMockLoyaltyProvider creates a new mock loyalty provider
func NewMockLoyaltyProvider() *MockLoyaltyProvider {
	return &MockLoyaltyProvider{
		credits: make(map[string]int),
	}
}

// Credit adds points to the in-memory balance for the account
func (m *MockLoyaltyProvider) Credit(ctx context.Context, customerAccountID string, points int, reservationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credits[customerAccountID] += points

	log.Debug().
		Str("account_id", customerAccountID).
		Int("points", points).
		Str("reservation_id", reservationID).
		Msg("mock loyalty credit recorded")
	return nil
}

// Balance returns the accumulated points for the account
func (m *MockLoyaltyProvider) Balance(customerAccountID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.credits[customerAccountID]
}

var _ providers.LoyaltyProvider = (*MockLoyaltyProvider)(nil)
