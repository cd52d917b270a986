package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pastcare/pastcare-billing-go/internal/domain/addon"
	"github.com/pastcare/pastcare-billing-go/internal/handler/http/response"
)

// AddonHandler handles storage addon ownership HTTP requests
type AddonHandler interface {
	Purchase(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	ListOwned(w http.ResponseWriter, r *http.Request)
	GetStorageSummary(w http.ResponseWriter, r *http.Request)
}

type addonHandlerImpl struct {
	addonService addon.AddonService
}

// NewAddonHandler creates a new addon handler
func NewAddonHandler(addonService addon.AddonService) AddonHandler {
	return &addonHandlerImpl{addonService: addonService}
}

// Purchase charges the stored authorization for an addon, prorated to
// the days left in the billing period
// POST /api/v1/churches/{churchID}/addons - Tenant
func (h *addonHandlerImpl) Purchase(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}

	var req addon.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", nil)
		return
	}

	result, err := h.addonService.Purchase(r.Context(), churchID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "addon purchased", result)
}

// Cancel cancels an owned addon; storage stays usable until the end of
// the paid period
// DELETE /api/v1/churches/{churchID}/addons/{addonID} - Tenant
func (h *addonHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}

	addonID := chi.URLParam(r, "addonID")
	if addonID == "" {
		response.BadRequest(w, "addon ID is required", nil)
		return
	}

	var req addon.CancelOwnershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", nil)
		return
	}

	if err := h.addonService.Cancel(r.Context(), churchID, addonID, req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]string{
		"message": "Addon canceled. Storage remains usable until the end of the paid period.",
	})
}

// ListOwned retrieves all of a church's addon ownerships
// GET /api/v1/churches/{churchID}/addons - Tenant
func (h *addonHandlerImpl) ListOwned(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}

	owned, err := h.addonService.ListOwned(r.Context(), churchID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, owned)
}

// GetStorageSummary reports the church's total storage entitlement
// GET /api/v1/churches/{churchID}/addons/storage - Tenant
func (h *addonHandlerImpl) GetStorageSummary(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}

	summary, err := h.addonService.GetStorageSummary(r.Context(), churchID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}
