package jobs

import "context"

// RunnerFunc is the work behind one named job. It reports how many
// items it handled and how many of those failed.
type RunnerFunc func(ctx context.Context) (processed, failed int, err error)

// JobService runs named jobs and keeps the execution ledger
type JobService interface {
	// Register binds a job name to its work. Names not registered here
	// cannot be executed.
	Register(jobName string, fn RunnerFunc)

	// Run executes a registered job, recording the run in the ledger.
	// Used by the scheduler for cadenced runs.
	Run(ctx context.Context, jobName string) error

	// Execute runs a job on demand, recording who triggered it
	Execute(ctx context.Context, jobName string, triggeredBy string) (ExecutionResponse, error)

	// Retry re-runs a failed execution's job, incrementing its retry count
	Retry(ctx context.Context, executionID string, triggeredBy string) (ExecutionResponse, error)

	// Cancel marks a running execution as canceled
	Cancel(ctx context.Context, executionID string) error

	// GetExecution retrieves one ledger row
	GetExecution(ctx context.Context, executionID string) (ExecutionResponse, error)

	// ListRecent retrieves the newest executions across all jobs
	ListRecent(ctx context.Context, limit int) ([]ExecutionResponse, error)

	// ListRunning retrieves executions still in flight
	ListRunning(ctx context.Context) ([]ExecutionResponse, error)

	// ListFailed retrieves the newest failed executions
	ListFailed(ctx context.Context, limit int) ([]ExecutionResponse, error)

	// CleanupOldExecutions prunes terminal ledger rows past the retention
	// window and returns how many were removed
	CleanupOldExecutions(ctx context.Context) (int64, error)
}
