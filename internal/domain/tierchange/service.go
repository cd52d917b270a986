package tierchange

import "context"

// TierChangeService handles mid-period tier and interval changes
type TierChangeService interface {
	// Preview computes the proration for a change without mutating anything
	Preview(ctx context.Context, churchID string, req ChangeRequest) (PreviewResponse, error)

	// Initiate records a pending change and charges the net amount
	// against the stored payment authorization. At most one pending
	// change may exist per church.
	Initiate(ctx context.Context, churchID string, req ChangeRequest) (InitiateResponse, error)

	// CancelPending abandons the church's pending change
	CancelPending(ctx context.Context, churchID string) error

	// Complete settles a change after gateway confirmation and applies
	// the new tier and interval to the subscription. Idempotent for
	// already-completed references.
	Complete(ctx context.Context, reference string) error

	// Fail marks a pending change as failed; the subscription is untouched
	Fail(ctx context.Context, reference string, reason string) error

	// History retrieves a church's change records, newest first
	History(ctx context.Context, churchID string) ([]RecordResponse, error)
}
