package tierchange

import (
	"github.com/pastcare/pastcare-billing-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ==================== Request DTOs ====================

// ChangeRequest asks to move a subscription to a new tier and/or interval
type ChangeRequest struct {
	NewTierID     string `json:"new_tier_id"`
	NewIntervalID string `json:"new_interval_id"`
}

func (r *ChangeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.NewTierID == "" {
		errs = append(errs, validator.ValidationError{Field: "new_tier_id", Message: "new_tier_id is required"})
	}
	if r.NewIntervalID == "" {
		errs = append(errs, validator.ValidationError{Field: "new_interval_id", Message: "new_interval_id is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ==================== Response DTOs ====================

// PreviewResponse shows the proration math without mutating anything
type PreviewResponse struct {
	ChangeType       ChangeType      `json:"change_type"`
	OldTierName      string          `json:"old_tier_name"`
	NewTierName      string          `json:"new_tier_name"`
	OldIntervalName  string          `json:"old_interval_name"`
	NewIntervalName  string          `json:"new_interval_name"`
	Calculation      Calculation     `json:"calculation"`
	CreditDisplay    decimal.Decimal `json:"credit_display"`
	ChargeDisplay    decimal.Decimal `json:"charge_display"`
	NetChargeDisplay decimal.Decimal `json:"net_charge_display"`
	DisplayCurrency  string          `json:"display_currency"`
	NextBillingDate  string          `json:"next_billing_date"`
}

// RecordResponse represents a change record in API responses
type RecordResponse struct {
	ID               string          `json:"id"`
	ChangeType       ChangeType      `json:"change_type"`
	OldTierName      string          `json:"old_tier_name"`
	NewTierName      string          `json:"new_tier_name"`
	OldIntervalName  string          `json:"old_interval_name"`
	NewIntervalName  string          `json:"new_interval_name"`
	DaysRemaining    int             `json:"days_remaining"`
	CreditUSD        decimal.Decimal `json:"credit_usd"`
	ChargeUSD        decimal.Decimal `json:"charge_usd"`
	NetChargeUSD     decimal.Decimal `json:"net_charge_usd"`
	NetChargeDisplay decimal.Decimal `json:"net_charge_display"`
	DisplayCurrency  string          `json:"display_currency"`
	PaymentReference string          `json:"payment_reference"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
	FailureReason    *string         `json:"failure_reason,omitempty"`
	CompletedAt      *string         `json:"completed_at,omitempty"`
	CreatedAt        string          `json:"created_at"`
}

// InitiateResponse reports a newly initiated change
type InitiateResponse struct {
	Record    RecordResponse  `json:"record"`
	Settled   bool            `json:"settled"`
	NetCharge decimal.Decimal `json:"net_charge_display"`
	Currency  string          `json:"currency"`
}
