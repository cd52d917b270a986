package tierchange

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChangeType classifies what is being changed
type ChangeType string

const (
	ChangeTypeTier     ChangeType = "tier_change"
	ChangeTypeInterval ChangeType = "interval_change"
	ChangeTypeCombined ChangeType = "combined"
)

// DetectChangeType classifies a requested change from what differs
func DetectChangeType(oldTierID, newTierID, oldIntervalID, newIntervalID string) ChangeType {
	tierChanged := oldTierID != newTierID
	intervalChanged := oldIntervalID != newIntervalID
	switch {
	case tierChanged && intervalChanged:
		return ChangeTypeCombined
	case intervalChanged:
		return ChangeTypeInterval
	default:
		return ChangeTypeTier
	}
}

// PaymentStatus tracks the settlement of a change's net charge
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Record is the audit trail of one tier or interval change. Tier and
// interval names are denormalized so the history stays readable after
// catalog edits, and every amount is recorded in both currencies.
type Record struct {
	ID             string     `json:"id"`
	ChurchID       string     `json:"church_id"`
	SubscriptionID string     `json:"subscription_id"`
	ChangeType     ChangeType `json:"change_type"`

	OldTierID       string `json:"old_tier_id"`
	NewTierID       string `json:"new_tier_id"`
	OldTierName     string `json:"old_tier_name"`
	NewTierName     string `json:"new_tier_name"`
	OldIntervalID   string `json:"old_interval_id"`
	NewIntervalID   string `json:"new_interval_id"`
	OldIntervalName string `json:"old_interval_name"`
	NewIntervalName string `json:"new_interval_name"`

	PeriodLengthDays int `json:"period_length_days"`
	DaysUsed         int `json:"days_used"`
	DaysRemaining    int `json:"days_remaining"`

	OldDailyRateUSD decimal.Decimal `json:"old_daily_rate_usd"`
	NewDailyRateUSD decimal.Decimal `json:"new_daily_rate_usd"`
	CreditUSD       decimal.Decimal `json:"credit_usd"`
	ChargeUSD       decimal.Decimal `json:"charge_usd"`
	NetChargeUSD    decimal.Decimal `json:"net_charge_usd"`

	CreditDisplay    decimal.Decimal `json:"credit_display"`
	ChargeDisplay    decimal.Decimal `json:"charge_display"`
	NetChargeDisplay decimal.Decimal `json:"net_charge_display"`
	DisplayCurrency  string          `json:"display_currency"`
	ExchangeRateUsed decimal.Decimal `json:"exchange_rate_used"`

	PaymentReference string        `json:"payment_reference"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	FailureReason    *string       `json:"failure_reason,omitempty"`

	OldNextBillingDate time.Time  `json:"old_next_billing_date"`
	NewNextBillingDate time.Time  `json:"new_next_billing_date"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPending reports whether the change is still awaiting settlement
func (r *Record) IsPending() bool {
	return r.PaymentStatus == PaymentPending
}
