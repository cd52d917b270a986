package http

import (
	"encoding/json"
	"net/http"

	"github.com/pastcare/pastcare-billing-go/internal/domain/tierchange"
	"github.com/pastcare/pastcare-billing-go/internal/handler/http/response"
)

// TierChangeHandler handles mid-period tier change HTTP requests
type TierChangeHandler interface {
	Preview(w http.ResponseWriter, r *http.Request)
	Initiate(w http.ResponseWriter, r *http.Request)
	CancelPending(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type tierChangeHandlerImpl struct {
	tierChangeService tierchange.TierChangeService
}

// NewTierChangeHandler creates a new tier change handler
func NewTierChangeHandler(tierChangeService tierchange.TierChangeService) TierChangeHandler {
	return &tierChangeHandlerImpl{tierChangeService: tierChangeService}
}

// Preview computes the proration for a change without mutating anything
// POST /api/v1/churches/{churchID}/tier-changes/preview - Tenant
func (h *tierChangeHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}

	var req tierchange.ChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", nil)
		return
	}

	preview, err := h.tierChangeService.Preview(r.Context(), churchID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, preview)
}

// Initiate records a pending change and charges the net amount
// POST /api/v1/churches/{churchID}/tier-changes - Tenant
func (h *tierChangeHandlerImpl) Initiate(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}

	var req tierchange.ChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", nil)
		return
	}

	result, err := h.tierChangeService.Initiate(r.Context(), churchID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "tier change initiated", result)
}

// CancelPending abandons the church's pending change
// DELETE /api/v1/churches/{churchID}/tier-changes/pending - Tenant
func (h *tierChangeHandlerImpl) CancelPending(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}

	if err := h.tierChangeService.CancelPending(r.Context(), churchID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]string{
		"message": "Pending tier change canceled",
	})
}

// History retrieves a church's change records, newest first
// GET /api/v1/churches/{churchID}/tier-changes - Tenant
func (h *tierChangeHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}

	records, err := h.tierChangeService.History(r.Context(), churchID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}
