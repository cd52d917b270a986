package billing

import (
	"time"

	"github.com/pastcare/pastcare-billing-go/internal/domain/catalog"
)

// Status represents the lifecycle state of a subscription
type Status string

const (
	StatusActive    Status = "active"
	StatusPastDue   Status = "past_due"
	StatusSuspended Status = "suspended"
	StatusCanceled  Status = "canceled"
)

// IsValid reports whether s is one of the known statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPastDue, StatusSuspended, StatusCanceled:
		return true
	}
	return false
}

// Subscription is one church's billing record. Exactly one exists per
// church; tier and interval changes mutate this record rather than
// creating a new one.
type Subscription struct {
	ID         string `json:"id"`
	ChurchID   string `json:"church_id"`
	TierID     string `json:"tier_id"`
	IntervalID string `json:"interval_id"`
	Status     Status `json:"status"`

	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	NextBillingDate    time.Time `json:"next_billing_date"`
	AutoRenew          bool      `json:"auto_renew"`

	// Grace periods default to zero and are only ever granted explicitly,
	// by an operator or through a partnership code.
	GracePeriodDays int `json:"grace_period_days"`

	FailedPaymentAttempts int     `json:"failed_payment_attempts"`
	LastPaymentError      *string `json:"last_payment_error,omitempty"`

	PromotionalCreditMonths    int        `json:"promotional_credit_months"`
	PromotionalCreditNote      *string    `json:"promotional_credit_note,omitempty"`
	PromotionalCreditGrantedBy *string    `json:"promotional_credit_granted_by,omitempty"`
	PromotionalCreditGrantedAt *time.Time `json:"promotional_credit_granted_at,omitempty"`

	// Suspension and data retention. All four are set on suspension and
	// cleared on reactivation.
	SuspendedAt            *time.Time `json:"suspended_at,omitempty"`
	DataRetentionEndDate   *time.Time `json:"data_retention_end_date,omitempty"`
	DeletionWarningSentAt  *time.Time `json:"deletion_warning_sent_at,omitempty"`
	DeletionEligibleAt     *time.Time `json:"deletion_eligible_at,omitempty"`
	RetentionExtensionDays int        `json:"retention_extension_days"`

	CanceledAt *time.Time `json:"canceled_at,omitempty"`
	EndsAt     *time.Time `json:"ends_at,omitempty"`

	// Payment gateway identity for recurring charges
	PayerEmail               *string `json:"payer_email,omitempty"`
	GatewayCustomerCode      *string `json:"gateway_customer_code,omitempty"`
	GatewayAuthorizationCode *string `json:"gateway_authorization_code,omitempty"`
	CardLast4                *string `json:"card_last4,omitempty"`
	CardBrand                *string `json:"card_brand,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined data
	Tier     *catalog.PricingTier     `json:"tier,omitempty"`
	Interval *catalog.BillingInterval `json:"interval,omitempty"`
}

// IsDueForRenewal checks whether the renewal batch should bill this
// subscription today
func (s *Subscription) IsDueForRenewal(today time.Time) bool {
	return s.Status == StatusActive && s.AutoRenew && !s.NextBillingDate.After(today)
}

// IsInGracePeriod checks whether a past-due subscription is still inside
// its explicitly granted grace window. The window is measured from the
// missed billing date, not from when payment actually failed.
func (s *Subscription) IsInGracePeriod(today time.Time) bool {
	if s.Status != StatusPastDue {
		return false
	}
	graceEnd := s.NextBillingDate.AddDate(0, 0, s.GracePeriodDays)
	return today.Before(graceEnd)
}

// ShouldSuspend checks whether a past-due subscription has exhausted its
// grace window
func (s *Subscription) ShouldSuspend(today time.Time) bool {
	return s.Status == StatusPastDue && !s.IsInGracePeriod(today)
}

// HasPromotionalCredits reports whether a free month is available to
// consume instead of charging
func (s *Subscription) HasPromotionalCredits() bool {
	return s.PromotionalCreditMonths > 0
}

// HasPaymentAuthorization reports whether the gateway can be charged
// without the payer present
func (s *Subscription) HasPaymentAuthorization() bool {
	return s.GatewayAuthorizationCode != nil && *s.GatewayAuthorizationCode != ""
}

// NeedsDeletionWarning checks whether the deletion warning should go out:
// the subscription is suspended, no warning has been sent, and the
// retention end is at most warningDays away.
func (s *Subscription) NeedsDeletionWarning(today time.Time, warningDays int) bool {
	if s.Status != StatusSuspended || s.DataRetentionEndDate == nil || s.DeletionWarningSentAt != nil {
		return false
	}
	warnFrom := s.DataRetentionEndDate.AddDate(0, 0, -warningDays)
	return !today.Before(warnFrom)
}

// IsEligibleForDeletion checks whether tenant data may be purged: the
// retention window has fully elapsed and the warning went out at least
// warningDays ago. Once true for a given today, it stays true for every
// later date.
func (s *Subscription) IsEligibleForDeletion(today time.Time, warningDays int) bool {
	if s.Status != StatusSuspended || s.DataRetentionEndDate == nil || s.DeletionWarningSentAt == nil {
		return false
	}
	if !today.After(*s.DataRetentionEndDate) {
		return false
	}
	return !today.Before(s.DeletionWarningSentAt.AddDate(0, 0, warningDays))
}

// ComputeRetentionEnd rebases the retention end date from the moment of
// suspension. Extensions accumulate in extensionDays and the result is
// always recomputed from suspendedAt, never stacked on a prior end date.
func ComputeRetentionEnd(suspendedAt time.Time, retentionDays, extensionDays int) time.Time {
	return suspendedAt.AddDate(0, 0, retentionDays+extensionDays)
}
