package addon

import (
	"context"
	"time"
)

// OwnershipRepository handles addon ownership data operations
type OwnershipRepository interface {
	// GetByID retrieves an ownership by its ID
	GetByID(ctx context.Context, id string) (Ownership, error)

	// GetActive retrieves the active ownership for a church and addon
	GetActive(ctx context.Context, churchID, addonID string) (Ownership, error)

	// ListByChurch retrieves all ownerships for a church with the addon joined
	ListByChurch(ctx context.Context, churchID string) ([]Ownership, error)

	// ListActiveByChurch retrieves a church's active ownerships
	ListActiveByChurch(ctx context.Context, churchID string) ([]Ownership, error)

	// Create creates a new ownership
	Create(ctx context.Context, o Ownership) (Ownership, error)

	// Update persists every mutable field of the ownership
	Update(ctx context.Context, o Ownership) error

	// SyncRenewalDates re-pins active ownerships to the subscription's
	// billing calendar after a renewal
	SyncRenewalDates(ctx context.Context, churchID string, nextRenewalDate, periodEnd time.Time) error

	// SuspendActive suspends all active ownerships for a church and
	// returns how many were affected
	SuspendActive(ctx context.Context, churchID string, suspendedAt time.Time) (int64, error)

	// ReactivateSuspended returns suspended ownerships to active and
	// returns how many were affected
	ReactivateSuspended(ctx context.Context, churchID string) (int64, error)
}
