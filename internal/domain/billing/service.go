package billing

import "context"

// WebhookPayload is the gateway-agnostic shape of a payment callback.
// The HTTP layer converts the raw gateway payload into this before
// handing it to any service.
type WebhookPayload struct {
	Event             string            `json:"event"`
	Reference         string            `json:"reference"`
	Status            string            `json:"status"`
	CustomerCode      string            `json:"customer_code,omitempty"`
	PayerEmail        string            `json:"payer_email,omitempty"`
	AuthorizationCode string            `json:"authorization_code,omitempty"`
	CardLast4         string            `json:"card_last4,omitempty"`
	CardBrand         string            `json:"card_brand,omitempty"`
	GatewayResponse   string            `json:"gateway_response,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// Webhook metadata kinds, set when a hosted payment is initialized and
// read back when the gateway calls us
const (
	PaymentKindActivation = "activation"
	PaymentKindTierChange = "tier_change"
	PaymentKindAddon      = "storage_addon"
)

// BillingService handles the subscription lifecycle
type BillingService interface {
	// ==================== Subscription Operations ====================

	// GetSubscription retrieves a church's subscription
	GetSubscription(ctx context.Context, churchID string) (SubscriptionResponse, error)

	// CreateInitialSubscription creates the baseline canceled record for
	// a newly registered church
	CreateInitialSubscription(ctx context.Context, churchID string) (Subscription, error)

	// StartSubscription initializes a gateway payment for a new or
	// returning subscriber and returns the hosted payment page
	StartSubscription(ctx context.Context, churchID string, req StartRequest) (CheckoutResponse, error)

	// HandleActivationWebhook finalizes a subscription activation after
	// the gateway confirms payment
	HandleActivationWebhook(ctx context.Context, payload WebhookPayload) error

	// CancelSubscription cancels; access continues until the period end
	CancelSubscription(ctx context.Context, churchID string, req CancelRequest) error

	// ReactivateSubscription manually returns a suspended subscription to
	// active and clears the retention clock. Operator only.
	ReactivateSubscription(ctx context.Context, churchID string, adminID string) error

	// ==================== Grace Periods ====================

	// GrantGracePeriod explicitly grants grace days. Operator only.
	GrantGracePeriod(ctx context.Context, churchID string, adminID string, req GrantGraceRequest) (GraceStatusResponse, error)

	// RevokeGracePeriod resets the grace window to zero. Operator only.
	RevokeGracePeriod(ctx context.Context, churchID string, adminID string) error

	// GetGraceStatus reports the current grace window
	GetGraceStatus(ctx context.Context, churchID string) (GraceStatusResponse, error)

	// ==================== Promotional Credits ====================

	// GrantPromotionalCredits grants free renewal months. Operator only.
	GrantPromotionalCredits(ctx context.Context, churchID string, adminID string, req GrantPromoRequest) (PromoCreditResponse, error)

	// RevokePromotionalCredits zeroes the credit balance. Operator only.
	RevokePromotionalCredits(ctx context.Context, churchID string, adminID string) error

	// GetPromotionalCredits reports the credit balance
	GetPromotionalCredits(ctx context.Context, churchID string) (PromoCreditResponse, error)

	// ==================== Data Retention ====================

	// ExtendRetention lengthens the retention window of a suspended
	// subscription. The end date is rebased from suspendedAt. Operator only.
	ExtendRetention(ctx context.Context, churchID string, adminID string, req ExtendRetentionRequest) (SubscriptionResponse, error)

	// ListDeletionEligible retrieves suspended subscriptions whose data
	// may be purged as of today
	ListDeletionEligible(ctx context.Context) ([]SubscriptionResponse, error)

	// ==================== Stats ====================

	// GetStats aggregates subscriptions by status
	GetStats(ctx context.Context) (StatsResponse, error)

	// ==================== Lifecycle Batch Operations ====================

	// ProcessRenewals bills every subscription due today, consuming a
	// promotional credit before charging the gateway. One church's
	// failure never aborts the batch.
	ProcessRenewals(ctx context.Context) (BatchResult, error)

	// SuspendOverdueSubscriptions suspends past-due subscriptions whose
	// grace window has elapsed and starts their retention clock
	SuspendOverdueSubscriptions(ctx context.Context) (BatchResult, error)

	// SendDeletionWarnings notifies suspended tenants approaching their
	// retention end. At most one warning per suspension.
	SendDeletionWarnings(ctx context.Context) (BatchResult, error)

	// FlagDeletionEligible marks suspended subscriptions whose retention
	// window has fully elapsed. Flagging only; the purge is a separate
	// manual operation.
	FlagDeletionEligible(ctx context.Context) (BatchResult, error)
}
