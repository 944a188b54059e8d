package interfaces

import (
	"context"

	"github.com/sheikh-saqib/balance-alerts/internal/models"
)

// MessagePublisher hands an addressed message to the channel that owns its address.
type MessagePublisher interface {
	Publish(ctx context.Context, customerID string, msg models.AddressedMessage) error
}

// EntrySource yields account entries one at a time.
type EntrySource interface {
	ReadEntry(ctx context.Context) (*models.LedgerEntry, error)
}
