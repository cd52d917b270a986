package jobs

import (
	"context"
	"time"
)

// ExecutionRepository handles job ledger data operations
type ExecutionRepository interface {
	// GetByID retrieves an execution by its ID
	GetByID(ctx context.Context, id string) (Execution, error)

	// Create creates a new execution row
	Create(ctx context.Context, e Execution) (Execution, error)

	// Update persists the execution's outcome fields
	Update(ctx context.Context, e Execution) error

	// ListRecent retrieves the newest executions across all jobs
	ListRecent(ctx context.Context, limit int) ([]Execution, error)

	// ListRunning retrieves executions still marked running
	ListRunning(ctx context.Context) ([]Execution, error)

	// ListFailed retrieves the newest failed executions
	ListFailed(ctx context.Context, limit int) ([]Execution, error)

	// ListByJobName retrieves the newest executions of one job
	ListByJobName(ctx context.Context, jobName string, limit int) ([]Execution, error)

	// DeleteOlderThan prunes terminal executions created before cutoff
	// and returns how many were removed
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
