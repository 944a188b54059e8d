package alerts

import (
	"fmt"

	"github.com/sheikh-saqib/balance-alerts/internal/models"
)

// Dispatch evaluates every rule in the given groups against the entry. The
// groups are expected to match the entry already (see MatchingGroups).
// Alerts come back in group order, then rule order.
func Dispatch(entry models.LedgerEntry, groups []models.AccountAlertSettings) ([]Alert, error) {
	var fired []Alert
	for _, group := range groups {
		for i, rule := range group.Settings {
			alert, err := Evaluate(entry, rule)
			if err != nil {
				return nil, fmt.Errorf("account %s rule %d (%s): %w", group.AccountID, i, rule.Kind, err)
			}
			if alert != nil {
				fired = append(fired, *alert)
			}
		}
	}
	return fired, nil
}

// MatchingGroups keeps the groups configured for the entry's account and currency.
func MatchingGroups(entry models.LedgerEntry, groups []models.AccountAlertSettings) []models.AccountAlertSettings {
	var matched []models.AccountAlertSettings
	for _, group := range groups {
		if group.Matches(entry) {
			matched = append(matched, group)
		}
	}
	return matched
}

// ValidateProfile checks that every threshold in the profile is a decimal
// number, so a stored profile cannot fail evaluation later.
func ValidateProfile(profile models.CustomerAlertProfile) error {
	for _, group := range profile.AccountAlertSettings {
		for i, rule := range group.Settings {
			if _, err := parseAmount("threshold", rule.Amount); err != nil {
				return fmt.Errorf("account %s rule %d (%s): %w", group.AccountID, i, rule.Kind, err)
			}
		}
	}
	return nil
}
