// Package alerts turns a ledger entry and a customer's alert settings into
// addressed notification messages. Everything here is a pure function of its
// inputs: no I/O, no shared state, safe for concurrent use.
package alerts

import (
	"errors"
	"fmt"

	"github.com/sheikh-saqib/balance-alerts/internal/models"
	"github.com/shopspring/decimal"
)

// ErrMalformedAmount is returned when an amount or threshold is not a decimal number.
var ErrMalformedAmount = errors.New("malformed amount")

// Message parameter names.
const (
	ParamAccountNumber         = "alert_settings_account_number"
	ParamAccountCurrency       = "alert_settings_account_account"
	ParamThresholdAmount       = "alert_settings_amount"
	ParamThresholdCurrency     = "alert_settings_amount_currency"
	ParamBalanceAmount         = "balance_amount"
	ParamBalanceCurrency       = "balance_amount_currency"
	ParamTriggerAmount         = "alert_amount_amount"
	ParamTriggerAmountCurrency = "alert_amount_amount_currency"
)

// Param is one message parameter.
type Param struct {
	Key   string
	Value string
}

// Alert is a fired rule that has not been addressed yet.
type Alert struct {
	Kind     models.AlertKind
	Channels []models.ChannelKind
	Params   []Param
}

// evaluator returns nil when the rule is of another kind or its condition is not met.
type evaluator func(entry models.LedgerEntry, rule models.AlertRule) (*Alert, error)

var evaluators = []evaluator{
	balanceAbove,
	balanceBelow,
	creditedAbove,
	debitedAbove,
}

// Evaluate runs every evaluator against the rule. At most one of them can
// match the rule's kind, so at most one alert is returned.
func Evaluate(entry models.LedgerEntry, rule models.AlertRule) (*Alert, error) {
	for _, eval := range evaluators {
		alert, err := eval(entry, rule)
		if err != nil {
			return nil, err
		}
		if alert != nil {
			return alert, nil
		}
	}
	return nil, nil
}

// balanceAbove fires on the booking that lifts the balance over the threshold.
func balanceAbove(entry models.LedgerEntry, rule models.AlertRule) (*Alert, error) {
	if rule.Kind != models.AlertBalanceAboveThreshold {
		return nil, nil
	}
	f, err := bookingFiguresOf(entry)
	if err != nil {
		return nil, err
	}
	threshold, err := parseAmount("threshold", rule.Amount)
	if err != nil {
		return nil, err
	}

	if f.balance.GreaterThan(threshold) && f.prior.LessThanOrEqual(threshold) {
		return newAlert(rule, balanceParams(entry, threshold, f.balance)), nil
	}
	return nil, nil
}

// balanceBelow fires on the booking that drops the balance under the threshold.
func balanceBelow(entry models.LedgerEntry, rule models.AlertRule) (*Alert, error) {
	if rule.Kind != models.AlertBalanceBelowThreshold {
		return nil, nil
	}
	f, err := bookingFiguresOf(entry)
	if err != nil {
		return nil, err
	}
	threshold, err := parseAmount("threshold", rule.Amount)
	if err != nil {
		return nil, err
	}

	if f.balance.LessThan(threshold) && f.prior.GreaterThanOrEqual(threshold) {
		return newAlert(rule, balanceParams(entry, threshold, f.balance)), nil
	}
	return nil, nil
}

func creditedAbove(entry models.LedgerEntry, rule models.AlertRule) (*Alert, error) {
	if rule.Kind != models.AlertCreditedAboveThreshold {
		return nil, nil
	}
	return bookingAbove(entry, rule, models.Credit)
}

func debitedAbove(entry models.LedgerEntry, rule models.AlertRule) (*Alert, error) {
	if rule.Kind != models.AlertDebitedAboveThreshold {
		return nil, nil
	}
	return bookingAbove(entry, rule, models.Debit)
}

// bookingAbove compares the booking magnitude with the threshold. The sign of
// the booking only decides whether the rule applies at all.
func bookingAbove(entry models.LedgerEntry, rule models.AlertRule, want models.CreditDebitIndicator) (*Alert, error) {
	amount, err := parseAmount("booking_amount", entry.BookingAmount)
	if err != nil {
		return nil, err
	}
	threshold, err := parseAmount("threshold", rule.Amount)
	if err != nil {
		return nil, err
	}

	if entry.BookingIndicator != want || !amount.Abs().GreaterThan(threshold) {
		return nil, nil
	}

	balance, err := signedBalance(entry)
	if err != nil {
		return nil, err
	}
	params := append(balanceParams(entry, threshold, balance),
		Param{ParamTriggerAmount, majorUnits(amount.Abs())},
		Param{ParamTriggerAmountCurrency, entry.AccountCurrency},
	)
	return newAlert(rule, params), nil
}

type bookingFigures struct {
	balance decimal.Decimal // after booking
	amount  decimal.Decimal
	prior   decimal.Decimal // balance - amount
}

func bookingFiguresOf(entry models.LedgerEntry) (bookingFigures, error) {
	balance, err := signedBalance(entry)
	if err != nil {
		return bookingFigures{}, err
	}
	magnitude, err := parseAmount("booking_amount", entry.BookingAmount)
	if err != nil {
		return bookingFigures{}, err
	}
	amount, err := entry.BookingIndicator.Signed(magnitude)
	if err != nil {
		return bookingFigures{}, fmt.Errorf("booking amount: %w", err)
	}
	return bookingFigures{
		balance: balance,
		amount:  amount,
		prior:   balance.Sub(amount),
	}, nil
}

func signedBalance(entry models.LedgerEntry) (decimal.Decimal, error) {
	magnitude, err := parseAmount("balance_after_booking", entry.BalanceAfterBooking)
	if err != nil {
		return decimal.Zero, err
	}
	balance, err := entry.BalanceAfterBookingIndicator.Signed(magnitude)
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance after booking: %w", err)
	}
	return balance, nil
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q: %v", ErrMalformedAmount, field, value, err)
	}
	return d, nil
}

func balanceParams(entry models.LedgerEntry, threshold, balance decimal.Decimal) []Param {
	return []Param{
		{ParamAccountNumber, entry.AccountID},
		{ParamAccountCurrency, entry.AccountCurrency},
		{ParamThresholdAmount, majorUnits(threshold)},
		{ParamThresholdCurrency, entry.AccountCurrency},
		{ParamBalanceAmount, majorUnits(balance)},
		{ParamBalanceCurrency, entry.AccountCurrency},
	}
}

// majorUnits renders a minor-unit amount in major units without rounding,
// e.g. 10050 -> "100.50" and 10000.5 -> "100.005". At least two decimals are shown.
func majorUnits(minor decimal.Decimal) string {
	major := minor.Shift(-2)
	return major.StringFixed(max(2, -major.Exponent()))
}

func newAlert(rule models.AlertRule, params []Param) *Alert {
	return &Alert{
		Kind:     rule.Kind,
		Channels: rule.Channels,
		Params:   params,
	}
}
