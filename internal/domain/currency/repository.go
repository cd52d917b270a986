package currency

import "context"

// SettingsRepository handles currency settings data operations
type SettingsRepository interface {
	// Get retrieves the singleton settings row
	Get(ctx context.Context) (Settings, error)

	// UpdateRate sets a new exchange rate, keeping the old one as
	// PreviousRate and bumping Version. The expectedVersion guards
	// against concurrent updates.
	UpdateRate(ctx context.Context, newRate RateUpdate, expectedVersion int) (Settings, error)

	// AppendRateChange records one entry in the append-only rate history
	AppendRateChange(ctx context.Context, change RateChange) error

	// ListRateChanges retrieves the rate history, newest first
	ListRateChanges(ctx context.Context, limit int) ([]RateChange, error)

	// RateStats computes aggregate statistics over the rate history
	RateStats(ctx context.Context) (RateStats, error)
}
