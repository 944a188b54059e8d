package memory

import (
	"context" // request-scoped context, unused by the in-memory store but part of the interfaces
	"slices"
	"sync" // RWMutex guarding the maps below

	interfaces "github.com/sheikh-saqib/balance-alerts/internal/interfaces"
	"github.com/sheikh-saqib/balance-alerts/internal/models"
)

// MemorySettingsStore is an in-memory implementation of the customer lookup
// and alert settings stores. It is safe for concurrent use.
type MemorySettingsStore struct {
	mu        sync.RWMutex                           // protects both maps
	customers map[string][]string                    // account id -> customer ids
	profiles  map[string]models.CustomerAlertProfile // customer id -> profile
}

// NewMemorySettingsStore creates and returns an empty MemorySettingsStore
func NewMemorySettingsStore() *MemorySettingsStore {
	return &MemorySettingsStore{
		customers: make(map[string][]string),
		profiles:  make(map[string]models.CustomerAlertProfile),
	}
}

// SetCustomers replaces the customers linked to an account.
func (m *MemorySettingsStore) SetCustomers(accountID string, customerIDs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.customers[accountID] = slices.Clone(customerIDs)
}

// CustomerIDs returns a copy so callers can't modify internal state.
func (m *MemorySettingsStore) CustomerIDs(ctx context.Context, accountID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.customers[accountID]), nil
}

// SaveAlertSettings stores (or replaces) a customer's profile.
func (m *MemorySettingsStore) SaveAlertSettings(ctx context.Context, profile models.CustomerAlertProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.profiles[profile.CustomerID] = profile
	return nil // always succeeds in memory
}

// AlertSettings returns nil, nil for customers without settings.
func (m *MemorySettingsStore) AlertSettings(ctx context.Context, customerID string) (*models.CustomerAlertProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profile, ok := m.profiles[customerID]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

// Compile-time checks: ensure MemorySettingsStore implements the store interfaces
var (
	_ interfaces.CustomerLookup = (*MemorySettingsStore)(nil)
	_ interfaces.SettingsStore  = (*MemorySettingsStore)(nil)
	_ interfaces.SettingsWriter = (*MemorySettingsStore)(nil)
)
