package tierchange

import (
	"context"
	"time"
)

// RecordRepository handles tier change record data operations
type RecordRepository interface {
	// GetByID retrieves a record by its ID
	GetByID(ctx context.Context, id string) (Record, error)

	// GetByReference retrieves a record by its payment reference
	GetByReference(ctx context.Context, reference string) (Record, error)

	// GetPendingByChurch retrieves the church's pending record, if any
	GetPendingByChurch(ctx context.Context, churchID string) (Record, error)

	// HasPending checks whether a church has a pending change
	HasPending(ctx context.Context, churchID string) (bool, error)

	// ListByChurch retrieves a church's change history, newest first
	ListByChurch(ctx context.Context, churchID string) ([]Record, error)

	// Create creates a new record
	Create(ctx context.Context, rec Record) (Record, error)

	// MarkCompleted settles a pending record
	MarkCompleted(ctx context.Context, reference string, completedAt time.Time) error

	// MarkFailed fails a pending record with a reason
	MarkFailed(ctx context.Context, reference string, reason string) error
}
