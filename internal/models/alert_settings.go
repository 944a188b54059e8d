package models

import "strings"

// AlertKind identifies which threshold rule a setting describes.
type AlertKind string

const (
	AlertBalanceAboveThreshold  AlertKind = "ALERT_BALANCE_ABOVE_THRESHOLD"
	AlertBalanceBelowThreshold  AlertKind = "ALERT_BALANCE_BELOW_THRESHOLD"
	AlertDebitedAboveThreshold  AlertKind = "ALERT_DEBITED_ABOVE_THRESHOLD"
	AlertCreditedAboveThreshold AlertKind = "ALERT_CREDITED_ABOVE_THRESHOLD"
)

// AlertKinds lists every supported kind in evaluation order.
var AlertKinds = []AlertKind{
	AlertBalanceAboveThreshold,
	AlertBalanceBelowThreshold,
	AlertCreditedAboveThreshold,
	AlertDebitedAboveThreshold,
}

// Valid reports whether k is a supported kind. Unknown kinds still decode so
// that a newer settings producer cannot break older consumers; they never fire.
func (k AlertKind) Valid() bool {
	for _, known := range AlertKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ChannelKind is a delivery medium.
type ChannelKind string

const (
	ChannelUnknown ChannelKind = ""
	ChannelEmail   ChannelKind = "EMAIL"
	ChannelSMS     ChannelKind = "SMS"
	ChannelPush    ChannelKind = "PUSH"
)

// Valid reports whether c is one of EMAIL, SMS or PUSH.
func (c ChannelKind) Valid() bool {
	return c == ChannelEmail || c == ChannelSMS || c == ChannelPush
}

// UnmarshalText maps unrecognised channel names to ChannelUnknown.
func (c *ChannelKind) UnmarshalText(text []byte) error {
	switch kind := ChannelKind(strings.ToUpper(strings.TrimSpace(string(text)))); kind {
	case ChannelEmail, ChannelSMS, ChannelPush:
		*c = kind
	default:
		*c = ChannelUnknown
	}
	return nil
}

// AlertRule is one customer-configured condition for an account.
type AlertRule struct {
	Kind     AlertKind     `json:"alert_type"`
	Amount   string        `json:"amount"` // threshold, minor units
	Channels []ChannelKind `json:"channels"`
}

// AccountAlertSettings groups the rules a customer configured for one account and currency.
type AccountAlertSettings struct {
	AccountID string      `json:"account_id"`
	Currency  string      `json:"currency"`
	Settings  []AlertRule `json:"settings"`
}

// Matches reports whether the group applies to the entry's account and currency.
func (s AccountAlertSettings) Matches(entry LedgerEntry) bool {
	return s.AccountID == entry.AccountID && s.Currency == entry.AccountCurrency
}

// CustomerAlertProfile is everything needed to alert one customer.
type CustomerAlertProfile struct {
	CustomerID           string                 `json:"customer_id"`
	AccountAlertSettings []AccountAlertSettings `json:"account_alert_settings"`
	Addresses            []Address              `json:"addresses"`
}
