package billing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pastcare/pastcare-billing-go/internal/config"
	"github.com/pastcare/pastcare-billing-go/internal/domain/addon"
	"github.com/pastcare/pastcare-billing-go/internal/domain/billing"
	"github.com/pastcare/pastcare-billing-go/internal/domain/catalog"
	"github.com/pastcare/pastcare-billing-go/internal/domain/currency"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/paystack"
	"github.com/shopspring/decimal"
)

func usd(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

// ==================== Fakes ====================

type fakeSubscriptionRepo struct {
	billing.SubscriptionRepository
	due     []billing.Subscription
	updated []billing.Subscription
}

func (f *fakeSubscriptionRepo) ListDueForRenewal(ctx context.Context, asOf time.Time) ([]billing.Subscription, error) {
	return f.due, nil
}

func (f *fakeSubscriptionRepo) Update(ctx context.Context, sub billing.Subscription) error {
	f.updated = append(f.updated, sub)
	return nil
}

type fakeTierRepo struct {
	catalog.TierRepository
	tier catalog.PricingTier
}

func (f *fakeTierRepo) GetByID(ctx context.Context, id string) (catalog.PricingTier, error) {
	return f.tier, nil
}

type fakeIntervalRepo struct {
	catalog.IntervalRepository
	interval catalog.BillingInterval
}

func (f *fakeIntervalRepo) GetByID(ctx context.Context, id string) (catalog.BillingInterval, error) {
	return f.interval, nil
}

type syncCall struct {
	churchID  string
	next      time.Time
	periodEnd time.Time
}

type fakeOwnershipRepo struct {
	addon.OwnershipRepository
	active []addon.Ownership
	syncs  []syncCall
}

func (f *fakeOwnershipRepo) ListActiveByChurch(ctx context.Context, churchID string) ([]addon.Ownership, error) {
	return f.active, nil
}

func (f *fakeOwnershipRepo) SyncRenewalDates(ctx context.Context, churchID string, nextRenewalDate, periodEnd time.Time) error {
	f.syncs = append(f.syncs, syncCall{churchID: churchID, next: nextRenewalDate, periodEnd: periodEnd})
	return nil
}

type fakeCurrencySvc struct {
	currency.CurrencyService
}

func (f *fakeCurrencySvc) GetSnapshot(ctx context.Context) (currency.Snapshot, error) {
	return currency.Snapshot{BaseCurrency: "USD", DisplayCurrency: "GHS", Rate: usd("15.50"), Version: 1}, nil
}

// successfulGateway serves a charge_authorization endpoint that approves
// every charge.
func successfulGateway(t *testing.T) *paystack.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":true,"message":"Charge attempted","data":{"status":"success","reference":"ref","gateway_response":"Approved"}}`)
	}))
	t.Cleanup(srv.Close)
	return paystack.NewClient(config.PaystackConfig{SecretKey: "sk_test", BaseURL: srv.URL})
}

func newRenewalService(subRepo *fakeSubscriptionRepo, ownRepo *fakeOwnershipRepo, client *paystack.Client) *billingService {
	return &billingService{
		subscriptionRepo: subRepo,
		tierRepo:         &fakeTierRepo{tier: catalog.PricingTier{ID: "tier-starter", Name: "Starter", MonthlyPriceUSD: usd("9.00")}},
		intervalRepo:     &fakeIntervalRepo{interval: catalog.BillingInterval{ID: "int-monthly", Name: catalog.IntervalMonthly, Months: 1}},
		ownershipRepo:    ownRepo,
		currencySvc:      &fakeCurrencySvc{},
		paystackClient:   client,
		cfg: &config.Config{Billing: config.BillingConfig{
			RenewalWorkers:      2,
			DeletionWarningDays: 7,
		}},
		withTx: func(ctx context.Context, fn func(tx pgx.Tx) error) error {
			return fn(nil)
		},
	}
}

// ==================== Tests ====================

// After a charge renewal the addon calendar must be re-pinned to the
// subscription's new next billing date.
func TestProcessRenewalsPinsAddonDatesAfterCharge(t *testing.T) {
	billedAt := time.Now().AddDate(0, -1, 0)
	sub := billing.Subscription{
		ID:                       "sub-1",
		ChurchID:                 "ch-1",
		TierID:                   "tier-starter",
		IntervalID:               "int-monthly",
		Status:                   billing.StatusActive,
		AutoRenew:                true,
		NextBillingDate:          billedAt,
		PayerEmail:               strPtr("treasurer@example.org"),
		GatewayAuthorizationCode: strPtr("AUTH_x9k2"),
	}

	subRepo := &fakeSubscriptionRepo{due: []billing.Subscription{sub}}
	ownRepo := &fakeOwnershipRepo{active: []addon.Ownership{{ID: "own-1", ChurchID: "ch-1", PurchasePriceUSD: usd("6.00")}}}
	svc := newRenewalService(subRepo, ownRepo, successfulGateway(t))

	result, err := svc.ProcessRenewals(context.Background())
	if err != nil {
		t.Fatalf("ProcessRenewals error = %v", err)
	}
	if result.Processed != 1 || result.Failed != 0 {
		t.Fatalf("result = %d processed / %d failed, want 1/0", result.Processed, result.Failed)
	}

	if len(subRepo.updated) != 1 {
		t.Fatalf("subscription updates = %d, want 1", len(subRepo.updated))
	}
	renewed := subRepo.updated[0]
	wantNext := billedAt.AddDate(0, 1, 0)
	if !renewed.NextBillingDate.Equal(wantNext) {
		t.Errorf("next billing date = %v, want %v", renewed.NextBillingDate, wantNext)
	}

	if len(ownRepo.syncs) != 1 {
		t.Fatalf("addon syncs = %d, want 1", len(ownRepo.syncs))
	}
	sync := ownRepo.syncs[0]
	if sync.churchID != "ch-1" {
		t.Errorf("synced church = %q, want ch-1", sync.churchID)
	}
	if !sync.next.Equal(renewed.NextBillingDate) {
		t.Errorf("addon next renewal = %v, want subscription next billing date %v", sync.next, renewed.NextBillingDate)
	}
	if !sync.periodEnd.Equal(renewed.CurrentPeriodEnd) {
		t.Errorf("addon period end = %v, want subscription period end %v", sync.periodEnd, renewed.CurrentPeriodEnd)
	}
}

// A renewal covered by a promotional credit charges nothing but still
// advances the calendar and re-pins the addon dates.
func TestProcessRenewalsPinsAddonDatesAfterCreditRenewal(t *testing.T) {
	billedAt := time.Now().AddDate(0, -1, 0)
	sub := billing.Subscription{
		ID:                      "sub-1",
		ChurchID:                "ch-1",
		TierID:                  "tier-starter",
		IntervalID:              "int-monthly",
		Status:                  billing.StatusActive,
		AutoRenew:               true,
		NextBillingDate:         billedAt,
		PromotionalCreditMonths: 2,
	}

	subRepo := &fakeSubscriptionRepo{due: []billing.Subscription{sub}}
	ownRepo := &fakeOwnershipRepo{active: []addon.Ownership{{ID: "own-1", ChurchID: "ch-1", PurchasePriceUSD: usd("6.00")}}}
	// No gateway configured: a credit renewal must never reach it
	svc := newRenewalService(subRepo, ownRepo, nil)

	result, err := svc.ProcessRenewals(context.Background())
	if err != nil {
		t.Fatalf("ProcessRenewals error = %v", err)
	}
	if result.Processed != 1 || result.Failed != 0 {
		t.Fatalf("result = %d processed / %d failed, want 1/0", result.Processed, result.Failed)
	}

	renewed := subRepo.updated[0]
	if renewed.PromotionalCreditMonths != 1 {
		t.Errorf("credits = %d, want 1", renewed.PromotionalCreditMonths)
	}
	if len(ownRepo.syncs) != 1 {
		t.Fatalf("addon syncs = %d, want 1", len(ownRepo.syncs))
	}
	if !ownRepo.syncs[0].next.Equal(renewed.NextBillingDate) {
		t.Errorf("addon next renewal = %v, want %v", ownRepo.syncs[0].next, renewed.NextBillingDate)
	}
}

// A past-due church inside its grace window is re-charged, and a
// successful charge restores it to active with a clean failure record.
func TestProcessRenewalsRecoversPastDueSubscription(t *testing.T) {
	missedAt := time.Now().AddDate(0, 0, -3)
	sub := billing.Subscription{
		ID:                       "sub-1",
		ChurchID:                 "ch-1",
		TierID:                   "tier-starter",
		IntervalID:               "int-monthly",
		Status:                   billing.StatusPastDue,
		AutoRenew:                true,
		NextBillingDate:          missedAt,
		GracePeriodDays:          10,
		FailedPaymentAttempts:    2,
		LastPaymentError:         strPtr("Insufficient funds"),
		PayerEmail:               strPtr("treasurer@example.org"),
		GatewayAuthorizationCode: strPtr("AUTH_x9k2"),
	}

	subRepo := &fakeSubscriptionRepo{due: []billing.Subscription{sub}}
	ownRepo := &fakeOwnershipRepo{}
	svc := newRenewalService(subRepo, ownRepo, successfulGateway(t))

	result, err := svc.ProcessRenewals(context.Background())
	if err != nil {
		t.Fatalf("ProcessRenewals error = %v", err)
	}
	if result.Processed != 1 || result.Failed != 0 {
		t.Fatalf("result = %d processed / %d failed, want 1/0", result.Processed, result.Failed)
	}

	if len(subRepo.updated) != 1 {
		t.Fatalf("subscription updates = %d, want 1", len(subRepo.updated))
	}
	recovered := subRepo.updated[0]
	if recovered.Status != billing.StatusActive {
		t.Errorf("status = %q, want %q", recovered.Status, billing.StatusActive)
	}
	if recovered.FailedPaymentAttempts != 0 {
		t.Errorf("failed attempts = %d, want 0", recovered.FailedPaymentAttempts)
	}
	if recovered.LastPaymentError != nil {
		t.Errorf("last payment error = %q, want nil", *recovered.LastPaymentError)
	}
	// The calendar advances from the missed date, not from today
	wantNext := missedAt.AddDate(0, 1, 0)
	if !recovered.NextBillingDate.Equal(wantNext) {
		t.Errorf("next billing date = %v, want %v", recovered.NextBillingDate, wantNext)
	}
}
