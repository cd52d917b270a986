package postgresql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pastcare/pastcare-billing-go/internal/domain/jobs"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/database"
)

// ==================== Job Execution Repository ====================

type jobExecutionRepository struct {
	db *database.DB
}

func NewJobExecutionRepository(db *database.DB) jobs.ExecutionRepository {
	return &jobExecutionRepository{db: db}
}

const executionColumns = `
	id, job_name, status, started_at, completed_at, duration_ms,
	items_processed, items_failed, error_message, stack_trace, retry_count,
	manually_triggered, triggered_by, created_at
`

func scanExecutionFields(e *jobs.Execution) []any {
	return []any{
		&e.ID, &e.JobName, &e.Status, &e.StartedAt, &e.CompletedAt, &e.DurationMs,
		&e.ItemsProcessed, &e.ItemsFailed, &e.ErrorMessage, &e.StackTrace, &e.RetryCount,
		&e.ManuallyTriggered, &e.TriggeredBy, &e.CreatedAt,
	}
}

func (r *jobExecutionRepository) GetByID(ctx context.Context, id string) (jobs.Execution, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + executionColumns + ` FROM job_executions WHERE id = $1`

	var e jobs.Execution
	err := q.QueryRow(ctx, query, id).Scan(scanExecutionFields(&e)...)
	return e, err
}

func (r *jobExecutionRepository) Create(ctx context.Context, e jobs.Execution) (jobs.Execution, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO job_executions (job_name, status, started_at, retry_count, manually_triggered, triggered_by)
		VALUES ($1, $2::job_status, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		e.JobName, string(e.Status), e.StartedAt, e.RetryCount, e.ManuallyTriggered, e.TriggeredBy,
	).Scan(&e.ID, &e.CreatedAt)

	return e, err
}

func (r *jobExecutionRepository) Update(ctx context.Context, e jobs.Execution) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE job_executions
		SET status = $2::job_status, completed_at = $3, duration_ms = $4,
			items_processed = $5, items_failed = $6, error_message = $7, stack_trace = $8
		WHERE id = $1
	`

	_, err := q.Exec(ctx, query,
		e.ID, string(e.Status), e.CompletedAt, e.DurationMs,
		e.ItemsProcessed, e.ItemsFailed, e.ErrorMessage, e.StackTrace,
	)
	return err
}

func (r *jobExecutionRepository) ListRecent(ctx context.Context, limit int) ([]jobs.Execution, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + executionColumns + ` FROM job_executions ORDER BY started_at DESC LIMIT $1`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.parseExecutionRows(rows)
}

func (r *jobExecutionRepository) ListRunning(ctx context.Context) ([]jobs.Execution, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + executionColumns + ` FROM job_executions WHERE status = 'running' ORDER BY started_at`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.parseExecutionRows(rows)
}

func (r *jobExecutionRepository) ListFailed(ctx context.Context, limit int) ([]jobs.Execution, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + executionColumns + ` FROM job_executions WHERE status = 'failed' ORDER BY started_at DESC LIMIT $1`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.parseExecutionRows(rows)
}

func (r *jobExecutionRepository) ListByJobName(ctx context.Context, jobName string, limit int) ([]jobs.Execution, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + executionColumns + ` FROM job_executions WHERE job_name = $1 ORDER BY started_at DESC LIMIT $2`

	rows, err := q.Query(ctx, query, jobName, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.parseExecutionRows(rows)
}

func (r *jobExecutionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM job_executions WHERE created_at < $1 AND status != 'running'`

	tag, err := q.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *jobExecutionRepository) parseExecutionRows(rows pgx.Rows) ([]jobs.Execution, error) {
	var executions []jobs.Execution
	for rows.Next() {
		var e jobs.Execution
		if err := rows.Scan(scanExecutionFields(&e)...); err != nil {
			return nil, err
		}
		executions = append(executions, e)
	}
	return executions, rows.Err()
}
