package partnership

import "context"

// CodeRepository handles partnership code data operations
type CodeRepository interface {
	// GetByCode retrieves a code by its value
	GetByCode(ctx context.Context, code string) (Code, error)

	// ListActive retrieves all active codes
	ListActive(ctx context.Context) ([]Code, error)

	// CountUsagesByChurch counts how many times a church has redeemed a code
	CountUsagesByChurch(ctx context.Context, codeID, churchID string) (int, error)

	// RecordUsage records one redemption and increments the code's use
	// counter. The usage table's unique constraint is the exactly-once
	// guarantee under concurrent redemption.
	RecordUsage(ctx context.Context, usage Usage) error
}
