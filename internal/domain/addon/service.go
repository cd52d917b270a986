package addon

import "context"

// AddonService handles storage addon ownership
type AddonService interface {
	// Purchase charges the stored payment authorization for an addon,
	// prorated to the days left in the current billing period
	Purchase(ctx context.Context, churchID string, req PurchaseRequest) (PurchaseResponse, error)

	// Cancel cancels an owned addon; storage stays usable until the end
	// of the already-paid period
	Cancel(ctx context.Context, churchID, addonID string, req CancelOwnershipRequest) error

	// ListOwned retrieves all of a church's addon ownerships
	ListOwned(ctx context.Context, churchID string) ([]OwnershipResponse, error)

	// GetStorageSummary reports the church's total storage entitlement
	GetStorageSummary(ctx context.Context, churchID string) (StorageSummaryResponse, error)
}
