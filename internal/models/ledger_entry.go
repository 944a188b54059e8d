package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnknownIndicator is returned when a credit/debit indicator is neither CRDT nor DBIT.
var ErrUnknownIndicator = errors.New("unknown credit/debit indicator")

// CreditDebitIndicator tells whether an amount is a credit or a debit.
type CreditDebitIndicator string

const (
	Credit CreditDebitIndicator = "CRDT"
	Debit  CreditDebitIndicator = "DBIT"
)

// Valid reports whether the indicator is one of the known values.
func (i CreditDebitIndicator) Valid() bool {
	return i == Credit || i == Debit
}

// Signed applies the indicator to a magnitude: credits are positive, debits negative.
func (i CreditDebitIndicator) Signed(magnitude decimal.Decimal) (decimal.Decimal, error) {
	switch i {
	case Credit:
		return magnitude, nil
	case Debit:
		return magnitude.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownIndicator, string(i))
	}
}

// LedgerEntry represents one posted booking on an account together with the
// balance it left behind. Amounts are decimal strings in minor units (cents)
// and are parsed by whoever needs the numbers.
type LedgerEntry struct {
	EntryID                      string               `json:"entry_id,omitempty"`
	AccountID                    string               `json:"account_id"`
	AccountCurrency              string               `json:"account_currency"`
	BookingAmount                string               `json:"booking_amount"`
	BookingIndicator             CreditDebitIndicator `json:"booking_credit_debit_indicator"`
	BalanceAfterBooking          string               `json:"balance_after_booking"`
	BalanceAfterBookingIndicator CreditDebitIndicator `json:"balance_after_booking_credit_debit_indicator"`
	BookedAt                     time.Time            `json:"booked_at,omitempty"`
}
