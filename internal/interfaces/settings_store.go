package interfaces

import (
	"context"

	"github.com/sheikh-saqib/balance-alerts/internal/models"
)

// CustomerLookup maps an account to the customers allowed to see it.
type CustomerLookup interface {
	CustomerIDs(ctx context.Context, accountID string) ([]string, error)
}

// SettingsStore returns a customer's alert profile, or nil when the customer has none.
type SettingsStore interface {
	AlertSettings(ctx context.Context, customerID string) (*models.CustomerAlertProfile, error)
}

// SettingsWriter persists alert profiles.
type SettingsWriter interface {
	SaveAlertSettings(ctx context.Context, profile models.CustomerAlertProfile) error
}
