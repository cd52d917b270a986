package addon

import (
	"github.com/pastcare/pastcare-billing-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ==================== Request DTOs ====================

// PurchaseRequest buys one storage addon using the stored payment
// authorization
type PurchaseRequest struct {
	AddonID string `json:"addon_id"`
}

func (r *PurchaseRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.AddonID == "" {
		errs = append(errs, validator.ValidationError{Field: "addon_id", Message: "addon_id is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CancelOwnershipRequest cancels an owned addon
type CancelOwnershipRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ==================== Response DTOs ====================

// OwnershipResponse represents one owned addon in API responses
type OwnershipResponse struct {
	ID                 string           `json:"id"`
	AddonID            string           `json:"addon_id"`
	AddonName          string           `json:"addon_name"`
	StorageGB          int              `json:"storage_gb"`
	Status             OwnershipStatus  `json:"status"`
	PurchasePriceUSD   decimal.Decimal  `json:"purchase_price_usd"`
	IsProrated         bool             `json:"is_prorated"`
	ProratedAmountUSD  *decimal.Decimal `json:"prorated_amount_usd,omitempty"`
	ProratedDays       *int             `json:"prorated_days,omitempty"`
	CurrentPeriodStart string           `json:"current_period_start"`
	CurrentPeriodEnd   string           `json:"current_period_end"`
	NextRenewalDate    string           `json:"next_renewal_date"`
	CanceledAt         *string          `json:"canceled_at,omitempty"`
}

// PurchaseResponse reports the outcome of an addon purchase
type PurchaseResponse struct {
	Ownership        OwnershipResponse `json:"ownership"`
	ChargedUSD       decimal.Decimal   `json:"charged_usd"`
	ChargedDisplay   decimal.Decimal   `json:"charged_display"`
	Currency         string            `json:"currency"`
	PaymentReference string            `json:"payment_reference"`
}

// StorageSummaryResponse reports a church's total storage entitlement
type StorageSummaryResponse struct {
	BaseGB  int `json:"base_gb"`
	AddonGB int `json:"addon_gb"`
	TotalGB int `json:"total_gb"`
}
