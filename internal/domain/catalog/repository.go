package catalog

import "context"

// TierRepository handles pricing tier data operations
type TierRepository interface {
	// GetByID retrieves a tier by its ID
	GetByID(ctx context.Context, id string) (PricingTier, error)

	// ListActive retrieves all active tiers ordered for display
	ListActive(ctx context.Context) ([]PricingTier, error)

	// FindForMemberCount retrieves the active tier whose member range
	// covers the given congregation size
	FindForMemberCount(ctx context.Context, memberCount int) (PricingTier, error)
}

// IntervalRepository handles billing interval data operations
type IntervalRepository interface {
	// GetByID retrieves an interval by its ID
	GetByID(ctx context.Context, id string) (BillingInterval, error)

	// GetByName retrieves an interval by its name
	GetByName(ctx context.Context, name IntervalName) (BillingInterval, error)

	// ListActive retrieves all active intervals ordered for display
	ListActive(ctx context.Context) ([]BillingInterval, error)
}

// StorageAddonRepository handles storage addon catalog operations
type StorageAddonRepository interface {
	// GetByID retrieves a storage addon by its ID
	GetByID(ctx context.Context, id string) (StorageAddon, error)

	// ListActive retrieves all active storage addons ordered for display
	ListActive(ctx context.Context) ([]StorageAddon, error)
}
