package partnership

import "github.com/pastcare/pastcare-billing-go/internal/pkg/validator"

// ==================== Request DTOs ====================

// RedeemRequest redeems a partnership code for the calling church
type RedeemRequest struct {
	Code string `json:"code"`
}

func (r *RedeemRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "code is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ==================== Response DTOs ====================

// CodeResponse represents a partnership code in API responses
type CodeResponse struct {
	Code            string  `json:"code"`
	GracePeriodDays int     `json:"grace_period_days"`
	Description     *string `json:"description,omitempty"`
	ExpiresAt       *string `json:"expires_at,omitempty"`
	UsesLeft        *int    `json:"uses_left,omitempty"`
}

// RedeemResponse reports a successful redemption
type RedeemResponse struct {
	Code             string `json:"code"`
	GraceDaysGranted int    `json:"grace_days_granted"`
	TotalGraceDays   int    `json:"total_grace_period_days"`
}
