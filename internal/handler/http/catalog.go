package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pastcare/pastcare-billing-go/internal/domain/catalog"
	"github.com/pastcare/pastcare-billing-go/internal/handler/http/response"
)

// CatalogHandler handles pricing catalog HTTP requests
type CatalogHandler interface {
	GetTiers(w http.ResponseWriter, r *http.Request)
	GetTierByID(w http.ResponseWriter, r *http.Request)
	GetIntervals(w http.ResponseWriter, r *http.Request)
	GetStorageAddons(w http.ResponseWriter, r *http.Request)
	RecommendTier(w http.ResponseWriter, r *http.Request)
}

type catalogHandlerImpl struct {
	catalogService catalog.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService catalog.CatalogService) CatalogHandler {
	return &catalogHandlerImpl{catalogService: catalogService}
}

// GetTiers retrieves all active pricing tiers with dual-currency prices
// GET /api/v1/catalog/tiers - Public
func (h *catalogHandlerImpl) GetTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.catalogService.GetTiers(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, tiers)
}

// GetTierByID retrieves a specific tier with dual-currency prices
// GET /api/v1/catalog/tiers/{id} - Public
func (h *catalogHandlerImpl) GetTierByID(w http.ResponseWriter, r *http.Request) {
	tierID := chi.URLParam(r, "id")
	if tierID == "" {
		response.BadRequest(w, "tier ID is required", nil)
		return
	}

	tier, err := h.catalogService.GetTierByID(r.Context(), tierID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, tier)
}

// GetIntervals retrieves all active billing intervals
// GET /api/v1/catalog/intervals - Public
func (h *catalogHandlerImpl) GetIntervals(w http.ResponseWriter, r *http.Request) {
	intervals, err := h.catalogService.GetIntervals(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, intervals)
}

// GetStorageAddons retrieves all active storage addons
// GET /api/v1/catalog/addons - Public
func (h *catalogHandlerImpl) GetStorageAddons(w http.ResponseWriter, r *http.Request) {
	addons, err := h.catalogService.GetStorageAddons(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, addons)
}

// RecommendTier finds the tier covering a congregation size
// GET /api/v1/catalog/tiers/recommend?member_count=N - Public
func (h *catalogHandlerImpl) RecommendTier(w http.ResponseWriter, r *http.Request) {
	memberCount, err := strconv.Atoi(r.URL.Query().Get("member_count"))
	if err != nil || memberCount < 1 {
		response.BadRequest(w, "member_count must be a positive integer", nil)
		return
	}

	tier, err := h.catalogService.RecommendTier(r.Context(), memberCount)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, tier)
}
