package response

import (
	"errors"
	"net/http"

	"github.com/pastcare/pastcare-billing-go/internal/domain/addon"
	"github.com/pastcare/pastcare-billing-go/internal/domain/billing"
	"github.com/pastcare/pastcare-billing-go/internal/domain/catalog"
	"github.com/pastcare/pastcare-billing-go/internal/domain/currency"
	"github.com/pastcare/pastcare-billing-go/internal/domain/jobs"
	"github.com/pastcare/pastcare-billing-go/internal/domain/partnership"
	"github.com/pastcare/pastcare-billing-go/internal/domain/tierchange"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Billing domain errors
	case errors.Is(err, billing.ErrSubscriptionNotFound):
		NotFound(w, "Subscription not found")
	case errors.Is(err, billing.ErrAlreadySubscribed):
		Conflict(w, "Church already has an active subscription")
	case errors.Is(err, billing.ErrInvalidSubscriptionState):
		BadRequest(w, "Subscription state does not allow this operation", nil)
	case errors.Is(err, billing.ErrNotSuspended):
		BadRequest(w, "Subscription is not suspended", nil)
	case errors.Is(err, billing.ErrConcurrencyConflict):
		Conflict(w, "Subscription was modified concurrently, retry the request")
	case errors.Is(err, billing.ErrPaymentFailed):
		PaymentRequired(w, err.Error())
	case errors.Is(err, billing.ErrNoPaymentAuthorization):
		BadRequest(w, "No stored payment authorization for this church", nil)
	case errors.Is(err, billing.ErrGraceDaysOutOfRange):
		BadRequest(w, "Grace period days must be between 1 and 30", nil)
	case errors.Is(err, billing.ErrNoPromotionalCredits):
		BadRequest(w, "No promotional credits to revoke", nil)
	case errors.Is(err, billing.ErrRetentionDaysInvalid):
		BadRequest(w, "Retention extension days must be greater than zero", nil)

	// Catalog domain errors
	case errors.Is(err, catalog.ErrTierNotFound):
		NotFound(w, "Pricing tier not found")
	case errors.Is(err, catalog.ErrTierNotActive):
		BadRequest(w, "Pricing tier is not active", nil)
	case errors.Is(err, catalog.ErrMemberCountOutOfRange):
		BadRequest(w, "Congregation size does not fit the selected tier", nil)
	case errors.Is(err, catalog.ErrIntervalNotFound):
		NotFound(w, "Billing interval not found")
	case errors.Is(err, catalog.ErrIntervalNotActive):
		BadRequest(w, "Billing interval is not active", nil)
	case errors.Is(err, catalog.ErrStorageAddonNotFound):
		NotFound(w, "Storage addon not found")
	case errors.Is(err, catalog.ErrStorageAddonNotActive):
		BadRequest(w, "Storage addon is not active", nil)

	// Addon ownership errors
	case errors.Is(err, addon.ErrOwnershipNotFound):
		NotFound(w, "Storage addon ownership not found")
	case errors.Is(err, addon.ErrAddonAlreadyActive):
		Conflict(w, "Church already has this addon active")
	case errors.Is(err, addon.ErrAddonNotActive):
		BadRequest(w, "Storage addon is not active for this church", nil)
	case errors.Is(err, addon.ErrSubscriptionNotEligible):
		BadRequest(w, "Subscription must be active to purchase addons", nil)

	// Tier change errors
	case errors.Is(err, tierchange.ErrRecordNotFound):
		NotFound(w, "Tier change record not found")
	case errors.Is(err, tierchange.ErrPendingChangeExists):
		Conflict(w, "A pending tier change already exists for this church")
	case errors.Is(err, tierchange.ErrNoPendingChange):
		NotFound(w, "No pending tier change to cancel")
	case errors.Is(err, tierchange.ErrSameTierAndInterval):
		BadRequest(w, "Requested tier and interval match the current subscription", nil)
	case errors.Is(err, tierchange.ErrSubscriptionNotActive):
		BadRequest(w, "Subscription must be active to change tiers", nil)
	case errors.Is(err, tierchange.ErrChangeNotPending):
		Conflict(w, "Tier change is no longer pending")

	// Currency errors
	case errors.Is(err, currency.ErrSettingsNotFound):
		NotFound(w, "Currency settings not found")
	case errors.Is(err, currency.ErrInvalidExchangeRate):
		BadRequest(w, "Exchange rate must be greater than zero", nil)
	case errors.Is(err, currency.ErrVersionConflict):
		Conflict(w, "Currency settings were modified concurrently, retry with the latest version")

	// Job errors
	case errors.Is(err, jobs.ErrExecutionNotFound):
		NotFound(w, "Job execution not found")
	case errors.Is(err, jobs.ErrUnknownJob):
		NotFound(w, "Unknown job name")
	case errors.Is(err, jobs.ErrExecutionNotFailed):
		BadRequest(w, "Only failed executions can be retried", nil)
	case errors.Is(err, jobs.ErrExecutionNotRunning):
		BadRequest(w, "Only running executions can be canceled", nil)

	// Partnership code errors
	case errors.Is(err, partnership.ErrCodeNotFound):
		NotFound(w, "Partnership code not found")
	case errors.Is(err, partnership.ErrCodeInactive):
		BadRequest(w, "Partnership code is not active", nil)
	case errors.Is(err, partnership.ErrCodeExpired):
		BadRequest(w, "Partnership code has expired", nil)
	case errors.Is(err, partnership.ErrCodeExhausted):
		BadRequest(w, "Partnership code has no uses left", nil)
	case errors.Is(err, partnership.ErrCodeAlreadyRedeemed):
		Conflict(w, "Partnership code already redeemed by this church")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
