package addon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pastcare/pastcare-billing-go/internal/domain/addon"
	"github.com/pastcare/pastcare-billing-go/internal/domain/billing"
	"github.com/pastcare/pastcare-billing-go/internal/domain/catalog"
	"github.com/pastcare/pastcare-billing-go/internal/domain/currency"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/database"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/paystack"
	"github.com/shopspring/decimal"
)

// Every tier includes this much storage; addons stack on top.
const baseStorageGB = 2

const referencePrefix = "ADDON-"

type addonService struct {
	ownershipRepo    addon.OwnershipRepository
	addonCatalogRepo catalog.StorageAddonRepository
	subscriptionRepo billing.SubscriptionRepository
	currencySvc      currency.CurrencyService
	paystackClient   *paystack.Client
	db               *database.DB
}

func NewAddonService(
	ownershipRepo addon.OwnershipRepository,
	addonCatalogRepo catalog.StorageAddonRepository,
	subscriptionRepo billing.SubscriptionRepository,
	currencySvc currency.CurrencyService,
	paystackClient *paystack.Client,
	db *database.DB,
) addon.AddonService {
	return &addonService{
		ownershipRepo:    ownershipRepo,
		addonCatalogRepo: addonCatalogRepo,
		subscriptionRepo: subscriptionRepo,
		currencySvc:      currencySvc,
		paystackClient:   paystackClient,
		db:               db,
	}
}

func (s *addonService) Purchase(ctx context.Context, churchID string, req addon.PurchaseRequest) (addon.PurchaseResponse, error) {
	if err := req.Validate(); err != nil {
		return addon.PurchaseResponse{}, err
	}

	sub, err := s.subscriptionRepo.GetByChurchID(ctx, churchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return addon.PurchaseResponse{}, billing.ErrSubscriptionNotFound
		}
		return addon.PurchaseResponse{}, fmt.Errorf("get subscription: %w", err)
	}
	if sub.Status != billing.StatusActive {
		return addon.PurchaseResponse{}, addon.ErrSubscriptionNotEligible
	}
	if !sub.HasPaymentAuthorization() {
		return addon.PurchaseResponse{}, billing.ErrNoPaymentAuthorization
	}

	catalogAddon, err := s.addonCatalogRepo.GetByID(ctx, req.AddonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return addon.PurchaseResponse{}, catalog.ErrStorageAddonNotFound
		}
		return addon.PurchaseResponse{}, fmt.Errorf("get storage addon: %w", err)
	}
	if !catalogAddon.IsActive {
		return addon.PurchaseResponse{}, catalog.ErrStorageAddonNotActive
	}

	_, err = s.ownershipRepo.GetActive(ctx, churchID, req.AddonID)
	if err == nil {
		return addon.PurchaseResponse{}, addon.ErrAddonAlreadyActive
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return addon.PurchaseResponse{}, fmt.Errorf("check existing ownership: %w", err)
	}

	now := time.Now()
	daysRemaining := daysUntil(now, sub.NextBillingDate)

	// The first cycle is charged at the daily rate for every day until the
	// subscription's next billing date, so on quarterly and longer
	// intervals it exceeds a single month's price. Too close to renewal,
	// the proration floor charges the plain monthly price instead.
	chargeUSD := catalogAddon.MonthlyPriceUSD
	isProrated := false
	var proratedAmount *decimal.Decimal
	var proratedDays *int
	if addon.ShouldProrate(daysRemaining) {
		amount := addon.ProratedCharge(catalogAddon.MonthlyPriceUSD, daysRemaining)
		chargeUSD = amount
		isProrated = true
		proratedAmount = &amount
		proratedDays = &daysRemaining
	}

	snap, err := s.currencySvc.GetSnapshot(ctx)
	if err != nil {
		return addon.PurchaseResponse{}, err
	}
	chargeDisplay := snap.ToDisplay(chargeUSD)

	reference := referencePrefix + uuid.New().String()
	chargeResp, err := s.paystackClient.ChargeAuthorization(ctx, paystack.ChargeRequest{
		Email:             customerEmail(sub),
		Amount:            chargeDisplay,
		Currency:          snap.DisplayCurrency,
		AuthorizationCode: *sub.GatewayAuthorizationCode,
		Reference:         reference,
		Metadata: map[string]string{
			paystack.MetadataKindKey: billing.PaymentKindAddon,
			"church_id":              churchID,
			"addon_id":               req.AddonID,
		},
	})
	if err != nil {
		return addon.PurchaseResponse{}, fmt.Errorf("charge addon purchase: %w", err)
	}
	if !chargeResp.Succeeded() {
		return addon.PurchaseResponse{}, &billing.PaymentError{Reference: reference, Reason: chargeResp.GatewayResponse}
	}

	ownership := addon.Ownership{
		ChurchID:           churchID,
		AddonID:            req.AddonID,
		Status:             addon.StatusActive,
		PurchasePriceUSD:   catalogAddon.MonthlyPriceUSD,
		PurchaseReference:  reference,
		IsProrated:         isProrated,
		ProratedAmountUSD:  proratedAmount,
		ProratedDays:       proratedDays,
		PurchasedAt:        now,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   sub.NextBillingDate.AddDate(0, 0, -1),
		NextRenewalDate:    sub.NextBillingDate,
	}

	created, err := s.ownershipRepo.Create(ctx, ownership)
	if err != nil {
		return addon.PurchaseResponse{}, fmt.Errorf("create ownership: %w", err)
	}
	created.Addon = &catalogAddon

	return addon.PurchaseResponse{
		Ownership:        toOwnershipResponse(created),
		ChargedUSD:       chargeUSD,
		ChargedDisplay:   chargeDisplay,
		Currency:         snap.DisplayCurrency,
		PaymentReference: reference,
	}, nil
}

func (s *addonService) Cancel(ctx context.Context, churchID, addonID string, req addon.CancelOwnershipRequest) error {
	ownership, err := s.ownershipRepo.GetActive(ctx, churchID, addonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return addon.ErrAddonNotActive
		}
		return fmt.Errorf("get ownership: %w", err)
	}

	now := time.Now()
	ownership.Status = addon.StatusCanceled
	ownership.CanceledAt = &now
	if req.Reason != "" {
		ownership.CancelReason = &req.Reason
	}

	if err := s.ownershipRepo.Update(ctx, ownership); err != nil {
		return fmt.Errorf("update ownership: %w", err)
	}
	return nil
}

func (s *addonService) ListOwned(ctx context.Context, churchID string) ([]addon.OwnershipResponse, error) {
	ownerships, err := s.ownershipRepo.ListByChurch(ctx, churchID)
	if err != nil {
		return nil, fmt.Errorf("list ownerships: %w", err)
	}

	responses := make([]addon.OwnershipResponse, len(ownerships))
	for i, o := range ownerships {
		responses[i] = toOwnershipResponse(o)
	}
	return responses, nil
}

func (s *addonService) GetStorageSummary(ctx context.Context, churchID string) (addon.StorageSummaryResponse, error) {
	ownerships, err := s.ownershipRepo.ListByChurch(ctx, churchID)
	if err != nil {
		return addon.StorageSummaryResponse{}, fmt.Errorf("list ownerships: %w", err)
	}

	now := time.Now()
	addonGB := 0
	for _, o := range ownerships {
		if o.Addon != nil && o.IsUsable(now) {
			addonGB += o.Addon.StorageGB
		}
	}

	return addon.StorageSummaryResponse{
		BaseGB:  baseStorageGB,
		AddonGB: addonGB,
		TotalGB: baseStorageGB + addonGB,
	}, nil
}

func daysUntil(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

func customerEmail(sub billing.Subscription) string {
	if sub.PayerEmail != nil {
		return *sub.PayerEmail
	}
	return ""
}

func toOwnershipResponse(o addon.Ownership) addon.OwnershipResponse {
	resp := addon.OwnershipResponse{
		ID:                 o.ID,
		AddonID:            o.AddonID,
		Status:             o.Status,
		PurchasePriceUSD:   o.PurchasePriceUSD,
		IsProrated:         o.IsProrated,
		ProratedAmountUSD:  o.ProratedAmountUSD,
		ProratedDays:       o.ProratedDays,
		CurrentPeriodStart: o.CurrentPeriodStart.Format(time.RFC3339),
		CurrentPeriodEnd:   o.CurrentPeriodEnd.Format(time.RFC3339),
		NextRenewalDate:    o.NextRenewalDate.Format(time.RFC3339),
	}
	if o.Addon != nil {
		resp.AddonName = o.Addon.Name
		resp.StorageGB = o.Addon.StorageGB
	}
	if o.CanceledAt != nil {
		canceled := o.CanceledAt.Format(time.RFC3339)
		resp.CanceledAt = &canceled
	}
	return resp
}
