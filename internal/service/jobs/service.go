package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pastcare/pastcare-billing-go/internal/config"
	"github.com/pastcare/pastcare-billing-go/internal/domain/jobs"
)

const defaultListLimit = 50

type jobService struct {
	executionRepo jobs.ExecutionRepository
	cfg           *config.Config

	mu      sync.RWMutex
	runners map[string]jobs.RunnerFunc
}

func NewJobService(
	executionRepo jobs.ExecutionRepository,
	cfg *config.Config,
) jobs.JobService {
	return &jobService{
		executionRepo: executionRepo,
		cfg:           cfg,
		runners:       make(map[string]jobs.RunnerFunc),
	}
}

func (s *jobService) Register(jobName string, fn jobs.RunnerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runners[jobName] = fn
}

func (s *jobService) Run(ctx context.Context, jobName string) error {
	_, err := s.run(ctx, jobName, 0, false, nil)
	return err
}

func (s *jobService) Execute(ctx context.Context, jobName string, triggeredBy string) (jobs.ExecutionResponse, error) {
	execution, err := s.run(ctx, jobName, 0, true, &triggeredBy)
	if err != nil && !errors.Is(err, errRunFailed) {
		return jobs.ExecutionResponse{}, err
	}
	return toExecutionResponse(execution), nil
}

func (s *jobService) Retry(ctx context.Context, executionID string, triggeredBy string) (jobs.ExecutionResponse, error) {
	prev, err := s.executionRepo.GetByID(ctx, executionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return jobs.ExecutionResponse{}, jobs.ErrExecutionNotFound
		}
		return jobs.ExecutionResponse{}, fmt.Errorf("get execution: %w", err)
	}

	if prev.Status != jobs.StatusFailed {
		return jobs.ExecutionResponse{}, jobs.ErrExecutionNotFailed
	}

	execution, err := s.run(ctx, prev.JobName, prev.RetryCount+1, true, &triggeredBy)
	if err != nil && !errors.Is(err, errRunFailed) {
		return jobs.ExecutionResponse{}, err
	}
	return toExecutionResponse(execution), nil
}

func (s *jobService) Cancel(ctx context.Context, executionID string) error {
	execution, err := s.executionRepo.GetByID(ctx, executionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return jobs.ErrExecutionNotFound
		}
		return fmt.Errorf("get execution: %w", err)
	}

	if execution.Status != jobs.StatusRunning {
		return jobs.ErrExecutionNotRunning
	}

	execution.MarkCanceled(time.Now())
	if err := s.executionRepo.Update(ctx, execution); err != nil {
		return fmt.Errorf("update execution: %w", err)
	}
	return nil
}

func (s *jobService) GetExecution(ctx context.Context, executionID string) (jobs.ExecutionResponse, error) {
	execution, err := s.executionRepo.GetByID(ctx, executionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return jobs.ExecutionResponse{}, jobs.ErrExecutionNotFound
		}
		return jobs.ExecutionResponse{}, fmt.Errorf("get execution: %w", err)
	}
	return toExecutionResponse(execution), nil
}

func (s *jobService) ListRecent(ctx context.Context, limit int) ([]jobs.ExecutionResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	executions, err := s.executionRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	return toExecutionResponses(executions), nil
}

func (s *jobService) ListRunning(ctx context.Context) ([]jobs.ExecutionResponse, error) {
	executions, err := s.executionRepo.ListRunning(ctx)
	if err != nil {
		return nil, fmt.Errorf("list running executions: %w", err)
	}
	return toExecutionResponses(executions), nil
}

func (s *jobService) ListFailed(ctx context.Context, limit int) ([]jobs.ExecutionResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	executions, err := s.executionRepo.ListFailed(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list failed executions: %w", err)
	}
	return toExecutionResponses(executions), nil
}

func (s *jobService) CleanupOldExecutions(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.Billing.JobHistoryRetentionDays)
	removed, err := s.executionRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old executions: %w", err)
	}
	return removed, nil
}

// errRunFailed marks a run that finished with a recorded failure, so
// callers can still return the ledger row to the API.
var errRunFailed = errors.New("job run failed")

func (s *jobService) run(ctx context.Context, jobName string, retryCount int, manual bool, triggeredBy *string) (jobs.Execution, error) {
	s.mu.RLock()
	fn, ok := s.runners[jobName]
	s.mu.RUnlock()
	if !ok {
		return jobs.Execution{}, jobs.ErrUnknownJob
	}

	execution, err := s.executionRepo.Create(ctx, jobs.Execution{
		JobName:           jobName,
		Status:            jobs.StatusRunning,
		StartedAt:         time.Now(),
		RetryCount:        retryCount,
		ManuallyTriggered: manual,
		TriggeredBy:       triggeredBy,
	})
	if err != nil {
		return jobs.Execution{}, fmt.Errorf("create execution: %w", err)
	}

	processed, failed, runErr := s.invoke(ctx, fn)

	if runErr != nil {
		execution.MarkFailed(time.Now(), runErr.Error(), stackFor(runErr))
		execution.ItemsProcessed = processed
		execution.ItemsFailed = failed
	} else {
		execution.MarkCompleted(time.Now(), processed, failed)
	}

	if err := s.executionRepo.Update(ctx, execution); err != nil {
		return execution, fmt.Errorf("update execution: %w", err)
	}

	if runErr != nil {
		slog.Error("Job failed", "job", jobName, "execution_id", execution.ID, "error", runErr)
		return execution, errRunFailed
	}

	slog.Info("Job completed", "job", jobName, "execution_id", execution.ID,
		"processed", processed, "failed", failed, "duration_ms", *execution.DurationMs)
	return execution, nil
}

// invoke runs the job body, converting a panic into an error so the
// ledger row is always closed out.
func (s *jobService) invoke(ctx context.Context, fn jobs.RunnerFunc) (processed, failed int, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &panicError{value: p, stack: string(debug.Stack())}
		}
	}()
	return fn(ctx)
}

type panicError struct {
	value any
	stack string
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func stackFor(err error) string {
	var pe *panicError
	if errors.As(err, &pe) {
		return pe.stack
	}
	return ""
}

func toExecutionResponse(e jobs.Execution) jobs.ExecutionResponse {
	resp := jobs.ExecutionResponse{
		ID:                e.ID,
		JobName:           e.JobName,
		Status:            e.Status,
		StartedAt:         e.StartedAt.Format(time.RFC3339),
		DurationMs:        e.DurationMs,
		ItemsProcessed:    e.ItemsProcessed,
		ItemsFailed:       e.ItemsFailed,
		ErrorMessage:      e.ErrorMessage,
		RetryCount:        e.RetryCount,
		ManuallyTriggered: e.ManuallyTriggered,
		TriggeredBy:       e.TriggeredBy,
	}
	if e.CompletedAt != nil {
		completed := e.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completed
	}
	return resp
}

func toExecutionResponses(executions []jobs.Execution) []jobs.ExecutionResponse {
	responses := make([]jobs.ExecutionResponse, len(executions))
	for i, e := range executions {
		responses[i] = toExecutionResponse(e)
	}
	return responses
}
