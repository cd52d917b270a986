package currency

import (
	"time"

	"github.com/pastcare/pastcare-billing-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ==================== Request DTOs ====================

// UpdateRateRequest updates the platform exchange rate
type UpdateRateRequest struct {
	Rate decimal.Decimal `json:"rate"`
	Note string          `json:"note,omitempty"`
}

func (r *UpdateRateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsPositiveAmount(r.Rate) {
		errs = append(errs, validator.ValidationError{Field: "rate", Message: "rate must be greater than zero"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RateUpdate is the repository-level payload for a rate change
type RateUpdate struct {
	Rate      decimal.Decimal
	UpdatedBy string
}

// ==================== Response DTOs ====================

// SettingsResponse represents currency settings in API responses
type SettingsResponse struct {
	BaseCurrency    string           `json:"base_currency"`
	DisplayCurrency string           `json:"display_currency"`
	ExchangeRate    decimal.Decimal  `json:"exchange_rate"`
	PreviousRate    *decimal.Decimal `json:"previous_rate,omitempty"`
	Version         int              `json:"version"`
	UpdatedAt       string           `json:"updated_at"`
}

// RateChangeResponse represents one rate history entry in API responses
type RateChangeResponse struct {
	OldRate   decimal.Decimal `json:"old_rate"`
	NewRate   decimal.Decimal `json:"new_rate"`
	Version   int             `json:"version"`
	ChangedBy string          `json:"changed_by"`
	Note      *string         `json:"note,omitempty"`
	ChangedAt string          `json:"changed_at"`
}

// RateStats aggregates the rate history
type RateStats struct {
	MinRate     decimal.Decimal `json:"min_rate"`
	MaxRate     decimal.Decimal `json:"max_rate"`
	ChangeCount int             `json:"change_count"`
	FirstChange *time.Time      `json:"first_change,omitempty"`
	LastChange  *time.Time      `json:"last_change,omitempty"`
}
