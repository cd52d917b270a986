package currency

import (
	"context"

	"github.com/shopspring/decimal"
)

// CurrencyService handles currency conversion and rate administration
type CurrencyService interface {
	// GetSettings retrieves the current platform currency settings
	GetSettings(ctx context.Context) (SettingsResponse, error)

	// GetSnapshot returns an immutable conversion snapshot for use
	// throughout a single billing computation
	GetSnapshot(ctx context.Context) (Snapshot, error)

	// ConvertToDisplay converts a base-currency amount to the display currency
	ConvertToDisplay(ctx context.Context, base decimal.Decimal) (decimal.Decimal, error)

	// ConvertToBase converts a display-currency amount to the base currency
	ConvertToBase(ctx context.Context, display decimal.Decimal) (decimal.Decimal, error)

	// UpdateExchangeRate sets a new exchange rate. Operator only.
	UpdateExchangeRate(ctx context.Context, adminID string, req UpdateRateRequest) (SettingsResponse, error)

	// GetRateHistory retrieves the append-only rate change log, newest first
	GetRateHistory(ctx context.Context, limit int) ([]RateChangeResponse, error)

	// GetRateStats aggregates the rate history
	GetRateStats(ctx context.Context) (RateStats, error)
}
