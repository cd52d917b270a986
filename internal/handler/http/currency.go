package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pastcare/pastcare-billing-go/internal/domain/currency"
	"github.com/pastcare/pastcare-billing-go/internal/handler/http/response"
)

// CurrencyHandler handles currency settings HTTP requests
type CurrencyHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateExchangeRate(w http.ResponseWriter, r *http.Request)
	GetRateHistory(w http.ResponseWriter, r *http.Request)
	GetRateStats(w http.ResponseWriter, r *http.Request)
}

type currencyHandlerImpl struct {
	currencyService currency.CurrencyService
}

// NewCurrencyHandler creates a new currency handler
func NewCurrencyHandler(currencyService currency.CurrencyService) CurrencyHandler {
	return &currencyHandlerImpl{currencyService: currencyService}
}

// GetSettings retrieves the platform currency settings
// GET /api/v1/currency - Public
func (h *currencyHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.currencyService.GetSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, settings)
}

// UpdateExchangeRate sets a new exchange rate
// PUT /api/v1/admin/currency/rate - Operator
func (h *currencyHandlerImpl) UpdateExchangeRate(w http.ResponseWriter, r *http.Request) {
	adminID, ok := getAdminID(r)
	if !ok {
		response.Unauthorized(w, "admin ID is required")
		return
	}

	var req currency.UpdateRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", nil)
		return
	}

	settings, err := h.currencyService.UpdateExchangeRate(r.Context(), adminID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, settings)
}

// GetRateHistory retrieves the append-only rate change log, newest first
// GET /api/v1/admin/currency/history?limit=N - Operator
func (h *currencyHandlerImpl) GetRateHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(w, "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}

	history, err := h.currencyService.GetRateHistory(r.Context(), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, history)
}

// GetRateStats aggregates the rate history
// GET /api/v1/admin/currency/stats - Operator
func (h *currencyHandlerImpl) GetRateStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.currencyService.GetRateStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
