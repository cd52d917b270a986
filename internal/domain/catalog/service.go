package catalog

import "context"

// CatalogService exposes the pricing catalog
type CatalogService interface {
	// GetTiers retrieves all active pricing tiers with dual-currency prices
	GetTiers(ctx context.Context) ([]TierResponse, error)

	// GetTierByID retrieves a specific tier with dual-currency prices
	GetTierByID(ctx context.Context, id string) (TierResponse, error)

	// GetIntervals retrieves all active billing intervals
	GetIntervals(ctx context.Context) ([]IntervalResponse, error)

	// GetStorageAddons retrieves all active storage addons with
	// dual-currency prices
	GetStorageAddons(ctx context.Context) ([]StorageAddonResponse, error)

	// ValidateTierSelection checks that the tier is active and covers the
	// given congregation size
	ValidateTierSelection(ctx context.Context, tierID string, memberCount int) (PricingTier, error)

	// RecommendTier finds the active tier covering the congregation size
	RecommendTier(ctx context.Context, memberCount int) (TierResponse, error)
}
