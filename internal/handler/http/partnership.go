package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pastcare/pastcare-billing-go/internal/domain/partnership"
	"github.com/pastcare/pastcare-billing-go/internal/handler/http/response"
)

// PartnershipHandler handles partnership code HTTP requests
type PartnershipHandler interface {
	Validate(w http.ResponseWriter, r *http.Request)
	Redeem(w http.ResponseWriter, r *http.Request)
}

type partnershipHandlerImpl struct {
	partnershipService partnership.PartnershipService
}

// NewPartnershipHandler creates a new partnership handler
func NewPartnershipHandler(partnershipService partnership.PartnershipService) PartnershipHandler {
	return &partnershipHandlerImpl{partnershipService: partnershipService}
}

// Validate checks a code without redeeming it
// GET /api/v1/partnership-codes/{code} - Public
func (h *partnershipHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		response.BadRequest(w, "code is required", nil)
		return
	}

	result, err := h.partnershipService.Validate(r.Context(), code)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Redeem grants the code's grace days to the church's subscription
// POST /api/v1/churches/{churchID}/partnership-codes/redeem - Tenant
func (h *partnershipHandlerImpl) Redeem(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}

	var req partnership.RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", nil)
		return
	}

	result, err := h.partnershipService.Redeem(r.Context(), churchID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
