package currency

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the platform-wide currency configuration. There is exactly
// one row; every update bumps Version and appends to the rate history.
type Settings struct {
	ID              string           `json:"id"`
	BaseCurrency    string           `json:"base_currency"`    // prices are stored in this currency
	DisplayCurrency string           `json:"display_currency"` // tenants are shown and charged in this currency
	ExchangeRate    decimal.Decimal  `json:"exchange_rate"`    // 1 base unit = ExchangeRate display units
	PreviousRate    *decimal.Decimal `json:"previous_rate,omitempty"`
	Version         int              `json:"version"`
	UpdatedBy       *string          `json:"updated_by,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Snapshot returns an immutable view of the settings for use during a
// single billing computation, so one operation never sees two rates.
func (s *Settings) Snapshot() Snapshot {
	return Snapshot{
		BaseCurrency:    s.BaseCurrency,
		DisplayCurrency: s.DisplayCurrency,
		Rate:            s.ExchangeRate,
		Version:         s.Version,
	}
}

// Snapshot is a point-in-time copy of the conversion settings
type Snapshot struct {
	BaseCurrency    string          `json:"base_currency"`
	DisplayCurrency string          `json:"display_currency"`
	Rate            decimal.Decimal `json:"rate"`
	Version         int             `json:"version"`
}

// ToDisplay converts a base-currency amount to the display currency,
// rounded to 2 decimal places
func (s Snapshot) ToDisplay(base decimal.Decimal) decimal.Decimal {
	return base.Mul(s.Rate).Round(2)
}

// ToBase converts a display-currency amount back to the base currency,
// rounded to 2 decimal places
func (s Snapshot) ToBase(display decimal.Decimal) decimal.Decimal {
	return display.DivRound(s.Rate, 2)
}

// RateChange is one append-only entry in the exchange rate history
type RateChange struct {
	ID        string          `json:"id"`
	OldRate   decimal.Decimal `json:"old_rate"`
	NewRate   decimal.Decimal `json:"new_rate"`
	Version   int             `json:"version"`
	ChangedBy string          `json:"changed_by"`
	Note      *string         `json:"note,omitempty"`
	ChangedAt time.Time       `json:"changed_at"`
}
