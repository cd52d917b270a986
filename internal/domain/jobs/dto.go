package jobs

// ==================== Response DTOs ====================

// ExecutionResponse represents one job run in API responses
type ExecutionResponse struct {
	ID                string    `json:"id"`
	JobName           string    `json:"job_name"`
	Status            JobStatus `json:"status"`
	StartedAt         string    `json:"started_at"`
	CompletedAt       *string   `json:"completed_at,omitempty"`
	DurationMs        *int64    `json:"duration_ms,omitempty"`
	ItemsProcessed    int       `json:"items_processed"`
	ItemsFailed       int       `json:"items_failed"`
	ErrorMessage      *string   `json:"error_message,omitempty"`
	RetryCount        int       `json:"retry_count"`
	ManuallyTriggered bool      `json:"manually_triggered"`
	TriggeredBy       *string   `json:"triggered_by,omitempty"`
}
