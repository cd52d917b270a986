package catalog

import "github.com/shopspring/decimal"

// ==================== Response DTOs ====================

// IntervalPriceResponse carries one interval's price in both currencies
type IntervalPriceResponse struct {
	Interval     IntervalName    `json:"interval"`
	Months       int             `json:"months"`
	PriceUSD     decimal.Decimal `json:"price_usd"`
	PriceDisplay decimal.Decimal `json:"price_display"`
	DiscountPct  decimal.Decimal `json:"discount_pct"`
	SavingsUSD   decimal.Decimal `json:"savings_usd"`
}

// TierResponse represents a pricing tier in API responses
type TierResponse struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	MinMembers      int                     `json:"min_members"`
	MaxMembers      *int                    `json:"max_members,omitempty"`
	DisplayCurrency string                  `json:"display_currency"`
	Prices          []IntervalPriceResponse `json:"prices"`
}

// IntervalResponse represents a billing interval in API responses
type IntervalResponse struct {
	ID               string       `json:"id"`
	Name             IntervalName `json:"name"`
	Months           int          `json:"months"`
	IntervalsPerYear int          `json:"intervals_per_year"`
}

// StorageAddonResponse represents a storage addon in API responses
type StorageAddonResponse struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	StorageGB           int             `json:"storage_gb"`
	MonthlyPriceUSD     decimal.Decimal `json:"monthly_price_usd"`
	MonthlyPriceDisplay decimal.Decimal `json:"monthly_price_display"`
	DisplayCurrency     string          `json:"display_currency"`
}
