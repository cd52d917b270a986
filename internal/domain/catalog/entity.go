package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// IntervalName identifies a billing interval
type IntervalName string

const (
	IntervalMonthly   IntervalName = "monthly"
	IntervalQuarterly IntervalName = "quarterly"
	IntervalBiannual  IntervalName = "biannual"
	IntervalAnnual    IntervalName = "annual"
)

// BillingInterval is immutable reference data describing how often a
// subscription renews
type BillingInterval struct {
	ID           string       `json:"id"`
	Name         IntervalName `json:"name"`
	Months       int          `json:"months"`
	DisplayOrder int          `json:"display_order"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
}

// IntervalsPerYear returns how many billing periods fit in a year
func (b *BillingInterval) IntervalsPerYear() int {
	if b.Months <= 0 {
		return 0
	}
	return 12 / b.Months
}

// PricingTier represents a congregation-size pricing tier with a USD price
// for each billing interval
type PricingTier struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	MinMembers int    `json:"min_members"`
	MaxMembers *int   `json:"max_members,omitempty"` // nil = unbounded

	MonthlyPriceUSD   decimal.Decimal `json:"monthly_price_usd"`
	QuarterlyPriceUSD decimal.Decimal `json:"quarterly_price_usd"`
	BiannualPriceUSD  decimal.Decimal `json:"biannual_price_usd"`
	AnnualPriceUSD    decimal.Decimal `json:"annual_price_usd"`

	QuarterlyDiscountPct decimal.Decimal `json:"quarterly_discount_pct"`
	BiannualDiscountPct  decimal.Decimal `json:"biannual_discount_pct"`
	AnnualDiscountPct    decimal.Decimal `json:"annual_discount_pct"`

	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Covers checks whether a congregation of the given size falls inside
// this tier's member range
func (t *PricingTier) Covers(memberCount int) bool {
	if memberCount < t.MinMembers {
		return false
	}
	if t.MaxMembers == nil {
		return true
	}
	return memberCount <= *t.MaxMembers
}

// PriceForInterval returns the USD price for the given interval
func (t *PricingTier) PriceForInterval(name IntervalName) (decimal.Decimal, error) {
	switch name {
	case IntervalMonthly:
		return t.MonthlyPriceUSD, nil
	case IntervalQuarterly:
		return t.QuarterlyPriceUSD, nil
	case IntervalBiannual:
		return t.BiannualPriceUSD, nil
	case IntervalAnnual:
		return t.AnnualPriceUSD, nil
	default:
		return decimal.Zero, ErrUnknownInterval
	}
}

// DiscountForInterval returns the discount percentage relative to paying
// monthly for the same stretch of time. Monthly has no discount.
func (t *PricingTier) DiscountForInterval(name IntervalName) (decimal.Decimal, error) {
	switch name {
	case IntervalMonthly:
		return decimal.Zero, nil
	case IntervalQuarterly:
		return t.QuarterlyDiscountPct, nil
	case IntervalBiannual:
		return t.BiannualDiscountPct, nil
	case IntervalAnnual:
		return t.AnnualDiscountPct, nil
	default:
		return decimal.Zero, ErrUnknownInterval
	}
}

// Savings returns how much USD is saved over paying monthly for the
// same number of months
func (t *PricingTier) Savings(interval BillingInterval) (decimal.Decimal, error) {
	price, err := t.PriceForInterval(interval.Name)
	if err != nil {
		return decimal.Zero, err
	}
	monthlyTotal := t.MonthlyPriceUSD.Mul(decimal.NewFromInt(int64(interval.Months)))
	return monthlyTotal.Sub(price), nil
}

// StorageAddon is a purchasable storage block billed monthly alongside
// the base subscription
type StorageAddon struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	StorageGB       int             `json:"storage_gb"`
	MonthlyPriceUSD decimal.Decimal `json:"monthly_price_usd"`
	DisplayOrder    int             `json:"display_order"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
}
