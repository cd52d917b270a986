package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pastcare/pastcare-billing-go/internal/domain/jobs"
	"github.com/pastcare/pastcare-billing-go/internal/handler/http/response"
)

const defaultExecutionListLimit = 20

// JobHandler handles job execution ledger HTTP requests
type JobHandler interface {
	Trigger(w http.ResponseWriter, r *http.Request)
	Retry(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	GetExecution(w http.ResponseWriter, r *http.Request)
	ListRecent(w http.ResponseWriter, r *http.Request)
	ListRunning(w http.ResponseWriter, r *http.Request)
	ListFailed(w http.ResponseWriter, r *http.Request)
}

type jobHandlerImpl struct {
	jobService jobs.JobService
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService jobs.JobService) JobHandler {
	return &jobHandlerImpl{jobService: jobService}
}

// Trigger runs a job on demand, outside its cadence
// POST /api/v1/admin/jobs/{name}/trigger - Operator
func (h *jobHandlerImpl) Trigger(w http.ResponseWriter, r *http.Request) {
	adminID, ok := getAdminID(r)
	if !ok {
		response.Unauthorized(w, "admin ID is required")
		return
	}

	jobName := chi.URLParam(r, "name")
	if jobName == "" {
		response.BadRequest(w, "job name is required", nil)
		return
	}

	execution, err := h.jobService.Execute(r.Context(), jobName, adminID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, execution)
}

// Retry re-runs a failed execution's job
// POST /api/v1/admin/jobs/executions/{id}/retry - Operator
func (h *jobHandlerImpl) Retry(w http.ResponseWriter, r *http.Request) {
	adminID, ok := getAdminID(r)
	if !ok {
		response.Unauthorized(w, "admin ID is required")
		return
	}

	executionID := chi.URLParam(r, "id")
	if executionID == "" {
		response.BadRequest(w, "execution ID is required", nil)
		return
	}

	execution, err := h.jobService.Retry(r.Context(), executionID, adminID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, execution)
}

// Cancel marks a running execution as canceled
// POST /api/v1/admin/jobs/executions/{id}/cancel - Operator
func (h *jobHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	executionID := chi.URLParam(r, "id")
	if executionID == "" {
		response.BadRequest(w, "execution ID is required", nil)
		return
	}

	if err := h.jobService.Cancel(r.Context(), executionID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]string{
		"message": "Execution canceled",
	})
}

// GetExecution retrieves one ledger row
// GET /api/v1/admin/jobs/executions/{id} - Operator
func (h *jobHandlerImpl) GetExecution(w http.ResponseWriter, r *http.Request) {
	executionID := chi.URLParam(r, "id")
	if executionID == "" {
		response.BadRequest(w, "execution ID is required", nil)
		return
	}

	execution, err := h.jobService.GetExecution(r.Context(), executionID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, execution)
}

// ListRecent retrieves the newest executions across all jobs
// GET /api/v1/admin/jobs/executions?limit=N - Operator
func (h *jobHandlerImpl) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(r, defaultExecutionListLimit)
	if !ok {
		response.BadRequest(w, "limit must be a positive integer", nil)
		return
	}

	executions, err := h.jobService.ListRecent(r.Context(), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, executions)
}

// ListRunning retrieves executions still in flight
// GET /api/v1/admin/jobs/executions/running - Operator
func (h *jobHandlerImpl) ListRunning(w http.ResponseWriter, r *http.Request) {
	executions, err := h.jobService.ListRunning(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, executions)
}

// ListFailed retrieves the newest failed executions
// GET /api/v1/admin/jobs/executions/failed?limit=N - Operator
func (h *jobHandlerImpl) ListFailed(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(r, defaultExecutionListLimit)
	if !ok {
		response.BadRequest(w, "limit must be a positive integer", nil)
		return
	}

	executions, err := h.jobService.ListFailed(r.Context(), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, executions)
}

func limitParam(r *http.Request, fallback int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, false
	}
	return limit, true
}
