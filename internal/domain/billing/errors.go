package billing

import (
	"errors"
	"fmt"
)

var (
	// Subscription errors
	ErrSubscriptionNotFound     = errors.New("subscription not found")
	ErrAlreadySubscribed        = errors.New("church already has a subscription")
	ErrInvalidSubscriptionState = errors.New("invalid subscription state for this operation")
	ErrNotSuspended             = errors.New("subscription is not suspended")
	ErrConcurrencyConflict      = errors.New("subscription was modified concurrently")

	// Payment errors
	ErrPaymentFailed          = errors.New("payment failed")
	ErrNoPaymentAuthorization = errors.New("no stored payment authorization")

	// Grace period errors
	ErrGraceDaysOutOfRange = errors.New("grace period days must be between 1 and 30")

	// Promotional credit errors
	ErrNoPromotionalCredits = errors.New("no promotional credits to revoke")

	// Retention errors
	ErrRetentionDaysInvalid = errors.New("retention extension days must be greater than zero")
)

// PaymentError carries the gateway's failure detail for a specific
// charge attempt. Unwraps to ErrPaymentFailed.
type PaymentError struct {
	Reference string
	Reason    string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed (ref %s): %s", e.Reference, e.Reason)
}

func (e *PaymentError) Unwrap() error {
	return ErrPaymentFailed
}
