package alerts

import (
	"maps"
	"time"

	"github.com/sheikh-saqib/balance-alerts/internal/models"
)

// Generator produces addressed alerts. The zero value is not usable; use NewGenerator.
type Generator struct {
	now func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock replaces the wall clock used to stamp messages.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var defaultGenerator = NewGenerator()

// GenerateAlerts runs with the wall clock. See Generator.GenerateAlerts.
func GenerateAlerts(entry models.LedgerEntry, profile *models.CustomerAlertProfile) ([]models.AddressedMessage, error) {
	return defaultGenerator.GenerateAlerts(entry, profile)
}

// GenerateAlerts returns one addressed message per (fired rule, matching
// address) pair. A nil profile means the customer has no alerting configured
// and yields an empty result. Malformed amounts fail the whole entry.
func (g *Generator) GenerateAlerts(entry models.LedgerEntry, profile *models.CustomerAlertProfile) ([]models.AddressedMessage, error) {
	if profile == nil {
		return []models.AddressedMessage{}, nil
	}

	fired, err := Dispatch(entry, MatchingGroups(entry, profile.AccountAlertSettings))
	if err != nil {
		return nil, err
	}

	addressed := []models.AddressedMessage{}
	for _, alert := range fired {
		msg := BuildMessage(alert.Kind, alert.Params, g.now())
		for addr := range ResolveAddresses(alert.Channels, profile.Addresses) {
			own := msg
			own.Params = maps.Clone(msg.Params)
			addressed = append(addressed, models.AddressedMessage{Address: addr, Message: own})
		}
	}
	return addressed, nil
}
