package billing

import (
	"github.com/pastcare/pastcare-billing-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ==================== Request DTOs ====================

// StartRequest begins a paid subscription for a church
type StartRequest struct {
	TierID      string `json:"tier_id"`
	IntervalID  string `json:"interval_id"`
	MemberCount int    `json:"member_count"`
	PayerEmail  string `json:"payer_email"`
}

func (r *StartRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.TierID == "" {
		errs = append(errs, validator.ValidationError{Field: "tier_id", Message: "tier_id is required"})
	}
	if r.IntervalID == "" {
		errs = append(errs, validator.ValidationError{Field: "interval_id", Message: "interval_id is required"})
	}
	if r.MemberCount < 1 {
		errs = append(errs, validator.ValidationError{Field: "member_count", Message: "member_count must be at least 1"})
	}
	if r.PayerEmail == "" {
		errs = append(errs, validator.ValidationError{Field: "payer_email", Message: "payer_email is required"})
	} else if !validator.IsValidEmail(r.PayerEmail) {
		errs = append(errs, validator.ValidationError{Field: "payer_email", Message: "payer_email must be a valid email address"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// GrantGraceRequest explicitly grants grace days to a subscription
type GrantGraceRequest struct {
	Days   int    `json:"days"`
	Reason string `json:"reason,omitempty"`
}

func (r *GrantGraceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Days < 1 || r.Days > 30 {
		errs = append(errs, validator.ValidationError{Field: "days", Message: "days must be between 1 and 30"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// GrantPromoRequest grants free renewal months
type GrantPromoRequest struct {
	Months int    `json:"months"`
	Note   string `json:"note,omitempty"`
}

func (r *GrantPromoRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Months < 1 {
		errs = append(errs, validator.ValidationError{Field: "months", Message: "months must be at least 1"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CancelRequest cancels a subscription
type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ExtendRetentionRequest extends the data retention window of a
// suspended subscription
type ExtendRetentionRequest struct {
	Days   int    `json:"days"`
	Reason string `json:"reason,omitempty"`
}

func (r *ExtendRetentionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Days < 1 {
		errs = append(errs, validator.ValidationError{Field: "days", Message: "days must be at least 1"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ==================== Response DTOs ====================

// CheckoutResponse points the payer at the gateway's hosted payment page
type CheckoutResponse struct {
	Reference        string          `json:"reference"`
	AuthorizationURL string          `json:"authorization_url"`
	AmountDisplay    decimal.Decimal `json:"amount_display"`
	Currency         string          `json:"currency"`
}

// SubscriptionResponse represents a subscription in API responses
type SubscriptionResponse struct {
	ID                      string  `json:"id"`
	ChurchID                string  `json:"church_id"`
	Status                  Status  `json:"status"`
	TierName                string  `json:"tier_name"`
	IntervalName            string  `json:"interval_name"`
	CurrentPeriodStart      string  `json:"current_period_start"`
	CurrentPeriodEnd        string  `json:"current_period_end"`
	NextBillingDate         string  `json:"next_billing_date"`
	AutoRenew               bool    `json:"auto_renew"`
	GracePeriodDays         int     `json:"grace_period_days"`
	InGracePeriod           bool    `json:"in_grace_period"`
	FailedPaymentAttempts   int     `json:"failed_payment_attempts"`
	LastPaymentError        *string `json:"last_payment_error,omitempty"`
	PromotionalCreditMonths int     `json:"promotional_credit_months"`
	SuspendedAt             *string `json:"suspended_at,omitempty"`
	DataRetentionEndDate    *string `json:"data_retention_end_date,omitempty"`
	DeletionWarningSentAt   *string `json:"deletion_warning_sent_at,omitempty"`
	CanceledAt              *string `json:"canceled_at,omitempty"`
	EndsAt                  *string `json:"ends_at,omitempty"`
	CardLast4               *string `json:"card_last4,omitempty"`
	CardBrand               *string `json:"card_brand,omitempty"`
}

// GraceStatusResponse reports the grace window of a subscription
type GraceStatusResponse struct {
	GracePeriodDays int     `json:"grace_period_days"`
	InGracePeriod   bool    `json:"in_grace_period"`
	GraceEndsAt     *string `json:"grace_ends_at,omitempty"`
}

// PromoCreditResponse reports the promotional credit balance
type PromoCreditResponse struct {
	Months    int     `json:"months"`
	Note      *string `json:"note,omitempty"`
	GrantedBy *string `json:"granted_by,omitempty"`
	GrantedAt *string `json:"granted_at,omitempty"`
}

// StatsResponse aggregates subscriptions by status
type StatsResponse struct {
	Active    int `json:"active"`
	PastDue   int `json:"past_due"`
	Suspended int `json:"suspended"`
	Canceled  int `json:"canceled"`
	Total     int `json:"total"`
}

// BatchResult summarizes one lifecycle batch step
type BatchResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}
