package billing

import (
	"context"
	"time"
)

// SubscriptionRepository handles subscription data operations
type SubscriptionRepository interface {
	// GetByID retrieves a subscription by its ID
	GetByID(ctx context.Context, id string) (Subscription, error)

	// GetByChurchID retrieves a church's subscription
	GetByChurchID(ctx context.Context, churchID string) (Subscription, error)

	// GetByChurchIDWithCatalog retrieves a subscription with its tier
	// and interval joined
	GetByChurchIDWithCatalog(ctx context.Context, churchID string) (Subscription, error)

	// Create creates a new subscription
	Create(ctx context.Context, sub Subscription) (Subscription, error)

	// Update persists every mutable field of the subscription
	Update(ctx context.Context, sub Subscription) error

	// UpdateStatus updates only the subscription status
	UpdateStatus(ctx context.Context, id string, status Status) error

	// ListDueForRenewal retrieves active and past-due auto-renewing
	// subscriptions whose next billing date is on or before asOf, so a
	// failed charge is re-attempted on later runs
	ListDueForRenewal(ctx context.Context, asOf time.Time) ([]Subscription, error)

	// ListPastDue retrieves all past-due subscriptions
	ListPastDue(ctx context.Context) ([]Subscription, error)

	// ListSuspended retrieves all suspended subscriptions
	ListSuspended(ctx context.Context) ([]Subscription, error)

	// CountByStatus returns the number of subscriptions per status
	CountByStatus(ctx context.Context) (map[Status]int, error)
}
