package jobs

import "time"

// JobStatus represents the state of one job run
type JobStatus string

const (
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCanceled  JobStatus = "canceled"
)

// Well-known job names. The runner only executes names it knows.
const (
	JobRenewals         = "subscription_renewals"
	JobSuspensions      = "suspend_overdue_subscriptions"
	JobDeletionWarnings = "send_deletion_warnings"
	JobDeletionFlags    = "flag_deletion_eligible"
	JobLedgerCleanup    = "job_ledger_cleanup"
)

// Execution is one row in the job ledger: a single run of a named job,
// its timing, and its outcome
type Execution struct {
	ID      string    `json:"id"`
	JobName string    `json:"job_name"`
	Status  JobStatus `json:"status"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DurationMs  *int64     `json:"duration_ms,omitempty"`

	ItemsProcessed int `json:"items_processed"`
	ItemsFailed    int `json:"items_failed"`

	ErrorMessage *string `json:"error_message,omitempty"`
	StackTrace   *string `json:"stack_trace,omitempty"`
	RetryCount   int     `json:"retry_count"`

	ManuallyTriggered bool    `json:"manually_triggered"`
	TriggeredBy       *string `json:"triggered_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// MarkCompleted finishes the run successfully
func (e *Execution) MarkCompleted(now time.Time, processed, failed int) {
	e.Status = StatusCompleted
	e.CompletedAt = &now
	e.ItemsProcessed = processed
	e.ItemsFailed = failed
	ms := now.Sub(e.StartedAt).Milliseconds()
	e.DurationMs = &ms
}

// MarkFailed finishes the run with an error
func (e *Execution) MarkFailed(now time.Time, message, stackTrace string) {
	e.Status = StatusFailed
	e.CompletedAt = &now
	e.ErrorMessage = &message
	if stackTrace != "" {
		e.StackTrace = &stackTrace
	}
	ms := now.Sub(e.StartedAt).Milliseconds()
	e.DurationMs = &ms
}

// MarkCanceled abandons the run
func (e *Execution) MarkCanceled(now time.Time) {
	e.Status = StatusCanceled
	e.CompletedAt = &now
	ms := now.Sub(e.StartedAt).Milliseconds()
	e.DurationMs = &ms
}

// IsTerminal reports whether the run has finished one way or another
func (e *Execution) IsTerminal() bool {
	return e.Status != StatusRunning
}
