package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pastcare/pastcare-billing-go/internal/domain/billing"
	"github.com/pastcare/pastcare-billing-go/internal/handler/http/response"
)

// BillingHandler handles subscription lifecycle HTTP requests
type BillingHandler interface {
	// Tenant endpoints
	GetSubscription(w http.ResponseWriter, r *http.Request)
	CreateInitialSubscription(w http.ResponseWriter, r *http.Request)
	StartSubscription(w http.ResponseWriter, r *http.Request)
	CancelSubscription(w http.ResponseWriter, r *http.Request)
	GetGraceStatus(w http.ResponseWriter, r *http.Request)
	GetPromotionalCredits(w http.ResponseWriter, r *http.Request)

	// Operator endpoints
	ReactivateSubscription(w http.ResponseWriter, r *http.Request)
	GrantGracePeriod(w http.ResponseWriter, r *http.Request)
	RevokeGracePeriod(w http.ResponseWriter, r *http.Request)
	GrantPromotionalCredits(w http.ResponseWriter, r *http.Request)
	RevokePromotionalCredits(w http.ResponseWriter, r *http.Request)
	ExtendRetention(w http.ResponseWriter, r *http.Request)
	ListDeletionEligible(w http.ResponseWriter, r *http.Request)
	GetStats(w http.ResponseWriter, r *http.Request)
}

type billingHandlerImpl struct {
	billingService billing.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService billing.BillingService) BillingHandler {
	return &billingHandlerImpl{billingService: billingService}
}

// GetSubscription retrieves a church's subscription
// GET /api/v1/churches/{churchID}/subscription - Tenant
func (h *billingHandlerImpl) GetSubscription(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}

	sub, err := h.billingService.GetSubscription(r.Context(), churchID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, sub)
}

// CreateInitialSubscription creates the baseline subscription record for a
// newly registered church, called by the registration flow
// POST /api/v1/churches/{churchID}/subscription - Tenant
func (h *billingHandlerImpl) CreateInitialSubscription(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}

	sub, err := h.billingService.CreateInitialSubscription(r.Context(), churchID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "subscription record created", sub)
}

// StartSubscription initializes a gateway payment for a new subscription
// POST /api/v1/churches/{churchID}/subscription/start - Tenant
func (h *billingHandlerImpl) StartSubscription(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}

	var req billing.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", nil)
		return
	}

	checkout, err := h.billingService.StartSubscription(r.Context(), churchID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "checkout created", checkout)
}

// CancelSubscription cancels; access continues until the period end
// POST /api/v1/churches/{churchID}/subscription/cancel - Tenant
func (h *billingHandlerImpl) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}

	var req billing.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", nil)
		return
	}

	if err := h.billingService.CancelSubscription(r.Context(), churchID, req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]string{
		"message": "Subscription canceled. Access continues until the end of the current period.",
	})
}

// ReactivateSubscription returns a suspended subscription to active
// POST /api/v1/admin/churches/{churchID}/subscription/reactivate - Operator
func (h *billingHandlerImpl) ReactivateSubscription(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}
	adminID, ok := getAdminID(r)
	if !ok {
		response.Unauthorized(w, "admin ID is required")
		return
	}

	if err := h.billingService.ReactivateSubscription(r.Context(), churchID, adminID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]string{
		"message": "Subscription reactivated",
	})
}

// GetGraceStatus reports the grace window of a subscription
// GET /api/v1/churches/{churchID}/subscription/grace - Tenant
func (h *billingHandlerImpl) GetGraceStatus(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}

	status, err := h.billingService.GetGraceStatus(r.Context(), churchID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// GrantGracePeriod explicitly grants grace days
// POST /api/v1/admin/churches/{churchID}/subscription/grace - Operator
func (h *billingHandlerImpl) GrantGracePeriod(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}
	adminID, ok := getAdminID(r)
	if !ok {
		response.Unauthorized(w, "admin ID is required")
		return
	}

	var req billing.GrantGraceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", nil)
		return
	}

	result, err := h.billingService.GrantGracePeriod(r.Context(), churchID, adminID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// RevokeGracePeriod resets the grace window to zero
// DELETE /api/v1/admin/churches/{churchID}/subscription/grace - Operator
func (h *billingHandlerImpl) RevokeGracePeriod(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}
	adminID, ok := getAdminID(r)
	if !ok {
		response.Unauthorized(w, "admin ID is required")
		return
	}

	if err := h.billingService.RevokeGracePeriod(r.Context(), churchID, adminID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]string{
		"message": "Grace period revoked",
	})
}

// GetPromotionalCredits reports the credit balance
// GET /api/v1/churches/{churchID}/subscription/credits - Tenant
func (h *billingHandlerImpl) GetPromotionalCredits(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}

	credits, err := h.billingService.GetPromotionalCredits(r.Context(), churchID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, credits)
}

// GrantPromotionalCredits grants free renewal months
// POST /api/v1/admin/churches/{churchID}/subscription/credits - Operator
func (h *billingHandlerImpl) GrantPromotionalCredits(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}
	adminID, ok := getAdminID(r)
	if !ok {
		response.Unauthorized(w, "admin ID is required")
		return
	}

	var req billing.GrantPromoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", nil)
		return
	}

	result, err := h.billingService.GrantPromotionalCredits(r.Context(), churchID, adminID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// RevokePromotionalCredits zeroes the credit balance
// DELETE /api/v1/admin/churches/{churchID}/subscription/credits - Operator
func (h *billingHandlerImpl) RevokePromotionalCredits(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}
	adminID, ok := getAdminID(r)
	if !ok {
		response.Unauthorized(w, "admin ID is required")
		return
	}

	if err := h.billingService.RevokePromotionalCredits(r.Context(), churchID, adminID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]string{
		"message": "Promotional credits revoked",
	})
}

// ExtendRetention lengthens the retention window of a suspended subscription
// POST /api/v1/admin/churches/{churchID}/subscription/retention - Operator
func (h *billingHandlerImpl) ExtendRetention(w http.ResponseWriter, r *http.Request) {
	churchID, ok := getChurchID(r)
	if !ok {
		response.BadRequest(w, "church ID is required", nil)
		return
	}
	adminID, ok := getAdminID(r)
	if !ok {
		response.Unauthorized(w, "admin ID is required")
		return
	}

	var req billing.ExtendRetentionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", nil)
		return
	}

	sub, err := h.billingService.ExtendRetention(r.Context(), churchID, adminID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, sub)
}

// ListDeletionEligible retrieves subscriptions whose data may be purged
// GET /api/v1/admin/subscriptions/deletion-eligible - Operator
func (h *billingHandlerImpl) ListDeletionEligible(w http.ResponseWriter, r *http.Request) {
	subs, err := h.billingService.ListDeletionEligible(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, subs)
}

// GetStats aggregates subscriptions by status
// GET /api/v1/admin/subscriptions/stats - Operator
func (h *billingHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.billingService.GetStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// Helper to read the church ID path parameter
func getChurchID(r *http.Request) (string, bool) {
	churchID := chi.URLParam(r, "churchID")
	return churchID, churchID != ""
}

// Helper to read the operator identity header. Upstream API gateway
// authenticates operators and forwards their ID here.
func getAdminID(r *http.Request) (string, bool) {
	adminID := r.Header.Get("X-Admin-ID")
	return adminID, adminID != ""
}
