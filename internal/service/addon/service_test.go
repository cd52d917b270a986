package addon

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
	sub billing.Subscription
}

func (f *fakeSubscriptionRepo) GetByChurchID(ctx context.Context, churchID string) (billing.Subscription, error) {
	return f.sub, nil
}

type fakeAddonCatalogRepo struct {
	catalog.StorageAddonRepository
	addon catalog.StorageAddon
}

func (f *fakeAddonCatalogRepo) GetByID(ctx context.Context, id string) (catalog.StorageAddon, error) {
	return f.addon, nil
}

type fakeOwnershipRepo struct {
	addon.OwnershipRepository
	owned   []addon.Ownership
	created *addon.Ownership
}

func (f *fakeOwnershipRepo) ListByChurch(ctx context.Context, churchID string) ([]addon.Ownership, error) {
	return f.owned, nil
}

func (f *fakeOwnershipRepo) GetActive(ctx context.Context, churchID, addonID string) (addon.Ownership, error) {
	return addon.Ownership{}, pgx.ErrNoRows
}

func (f *fakeOwnershipRepo) Create(ctx context.Context, o addon.Ownership) (addon.Ownership, error) {
	o.ID = "own-1"
	f.created = &o
	return o, nil
}

type fakeCurrencySvc struct {
	currency.CurrencyService
}

func (f *fakeCurrencySvc) GetSnapshot(ctx context.Context) (currency.Snapshot, error) {
	return currency.Snapshot{BaseCurrency: "USD", DisplayCurrency: "GHS", Rate: usd("15.50"), Version: 1}, nil
}

func successfulGateway(t *testing.T) *paystack.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":true,"message":"Charge attempted","data":{"status":"success","reference":"ref","gateway_response":"Approved"}}`)
	}))
	t.Cleanup(srv.Close)
	return paystack.NewClient(config.PaystackConfig{SecretKey: "sk_test", BaseURL: srv.URL})
}

func newPurchaseService(t *testing.T, sub billing.Subscription, ownRepo *fakeOwnershipRepo) *addonService {
	t.Helper()
	return &addonService{
		ownershipRepo:    ownRepo,
		addonCatalogRepo: &fakeAddonCatalogRepo{addon: catalog.StorageAddon{ID: "addon-25", Name: "25 GB", StorageGB: 25, MonthlyPriceUSD: usd("6.00"), IsActive: true}},
		subscriptionRepo: &fakeSubscriptionRepo{sub: sub},
		currencySvc:      &fakeCurrencySvc{},
		paystackClient:   successfulGateway(t),
	}
}

func activeSubscription(nextBillingDate time.Time) billing.Subscription {
	return billing.Subscription{
		ID:                       "sub-1",
		ChurchID:                 "ch-1",
		Status:                   billing.StatusActive,
		NextBillingDate:          nextBillingDate,
		PayerEmail:               strPtr("treasurer@example.org"),
		GatewayAuthorizationCode: strPtr("AUTH_x9k2"),
	}
}

// ==================== Tests ====================

// The first-cycle charge runs the daily rate for every day until the
// subscription's next billing date, with no one-month cap: an annual
// subscriber 200 days from renewal pays 200 days of addon.
func TestPurchaseProratesAcrossLongIntervals(t *testing.T) {
	nextBilling := time.Now().AddDate(0, 0, 200)
	ownRepo := &fakeOwnershipRepo{}
	svc := newPurchaseService(t, activeSubscription(nextBilling), ownRepo)

	resp, err := svc.Purchase(context.Background(), "ch-1", addon.PurchaseRequest{AddonID: "addon-25"})
	if err != nil {
		t.Fatalf("Purchase error = %v", err)
	}

	// 6.00 / 30 = 0.2000 daily, * 200 days
	if !resp.ChargedUSD.Equal(usd("40.00")) {
		t.Errorf("charged = %s, want 40.00", resp.ChargedUSD)
	}
	if !resp.ChargedDisplay.Equal(usd("620.00")) {
		t.Errorf("charged display = %s, want 620.00", resp.ChargedDisplay)
	}
	if !resp.Ownership.IsProrated {
		t.Error("purchase not marked prorated")
	}
	if resp.Ownership.ProratedDays == nil || *resp.Ownership.ProratedDays != 200 {
		t.Errorf("prorated days = %v, want 200", resp.Ownership.ProratedDays)
	}
	// The locked price stays the monthly catalog price, not the charge
	if !resp.Ownership.PurchasePriceUSD.Equal(usd("6.00")) {
		t.Errorf("locked price = %s, want 6.00", resp.Ownership.PurchasePriceUSD)
	}
	if ownRepo.created == nil {
		t.Fatal("ownership not created")
	}
	if !ownRepo.created.NextRenewalDate.Equal(nextBilling) {
		t.Errorf("addon next renewal = %v, want subscription next billing date %v", ownRepo.created.NextRenewalDate, nextBilling)
	}
}

func TestPurchaseProratesWithinMonthlyPeriod(t *testing.T) {
	nextBilling := time.Now().AddDate(0, 0, 10)
	ownRepo := &fakeOwnershipRepo{}
	svc := newPurchaseService(t, activeSubscription(nextBilling), ownRepo)

	resp, err := svc.Purchase(context.Background(), "ch-1", addon.PurchaseRequest{AddonID: "addon-25"})
	if err != nil {
		t.Fatalf("Purchase error = %v", err)
	}
	if !resp.ChargedUSD.Equal(usd("2.00")) {
		t.Errorf("charged = %s, want 2.00", resp.ChargedUSD)
	}
	if !resp.Ownership.IsProrated {
		t.Error("purchase not marked prorated")
	}
}

// Below the proration floor the purchase pays the plain monthly price.
func TestPurchaseChargesFullPriceNearRenewal(t *testing.T) {
	nextBilling := time.Now().AddDate(0, 0, 2)
	ownRepo := &fakeOwnershipRepo{}
	svc := newPurchaseService(t, activeSubscription(nextBilling), ownRepo)

	resp, err := svc.Purchase(context.Background(), "ch-1", addon.PurchaseRequest{AddonID: "addon-25"})
	if err != nil {
		t.Fatalf("Purchase error = %v", err)
	}
	if !resp.ChargedUSD.Equal(usd("6.00")) {
		t.Errorf("charged = %s, want 6.00", resp.ChargedUSD)
	}
	if resp.Ownership.IsProrated {
		t.Error("near-renewal purchase must not be prorated")
	}
}

// Every church has a 2 GB included quota; active and still-paid canceled
// addons stack on top of it.
func TestStorageSummary(t *testing.T) {
	now := time.Now()
	ownRepo := &fakeOwnershipRepo{owned: []addon.Ownership{
		{
			Status:           addon.StatusActive,
			CurrentPeriodEnd: now.AddDate(0, 0, 20),
			Addon:            &catalog.StorageAddon{StorageGB: 25},
		},
		{
			Status:           addon.StatusCanceled,
			CurrentPeriodEnd: now.AddDate(0, 0, 5),
			Addon:            &catalog.StorageAddon{StorageGB: 10},
		},
		{
			Status:           addon.StatusCanceled,
			CurrentPeriodEnd: now.AddDate(0, 0, -5),
			Addon:            &catalog.StorageAddon{StorageGB: 100},
		},
	}}
	svc := &addonService{ownershipRepo: ownRepo}

	summary, err := svc.GetStorageSummary(context.Background(), "ch-1")
	if err != nil {
		t.Fatalf("GetStorageSummary error = %v", err)
	}
	if summary.BaseGB != 2 {
		t.Errorf("base = %d GB, want 2", summary.BaseGB)
	}
	if summary.AddonGB != 35 {
		t.Errorf("addons = %d GB, want 35", summary.AddonGB)
	}
	if summary.TotalGB != 37 {
		t.Errorf("total = %d GB, want 37", summary.TotalGB)
	}
}
