package alerts

import (
	"iter"
	"slices"

	"github.com/sheikh-saqib/balance-alerts/internal/models"
)

// ResolveAddresses yields the addresses whose channel was requested.
// Addresses with an unknown channel are skipped.
func ResolveAddresses(channels []models.ChannelKind, addresses []models.Address) iter.Seq[models.Address] {
	return func(yield func(models.Address) bool) {
		for _, addr := range addresses {
			if !addr.Channel.Valid() || !slices.Contains(channels, addr.Channel) {
				continue
			}
			if !yield(addr) {
				return
			}
		}
	}
}
