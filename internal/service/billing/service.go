package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pastcare/pastcare-billing-go/internal/config"
	"github.com/pastcare/pastcare-billing-go/internal/domain/addon"
	"github.com/pastcare/pastcare-billing-go/internal/domain/billing"
	"github.com/pastcare/pastcare-billing-go/internal/domain/catalog"
	"github.com/pastcare/pastcare-billing-go/internal/domain/currency"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/database"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/notify"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/paystack"
	"github.com/pastcare/pastcare-billing-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	activationReferencePrefix = "SUB-"
	renewalReferencePrefix    = "RENEWAL-"
)

type billingService struct {
	subscriptionRepo billing.SubscriptionRepository
	tierRepo         catalog.TierRepository
	intervalRepo     catalog.IntervalRepository
	ownershipRepo    addon.OwnershipRepository
	catalogSvc       catalog.CatalogService
	currencySvc      currency.CurrencyService
	paystackClient   *paystack.Client
	notifier         notify.Dispatcher
	db               *database.DB
	cfg              *config.Config

	// withTx runs fn inside a database transaction; a seam so the batch
	// paths can run against fakes
	withTx func(ctx context.Context, fn func(tx pgx.Tx) error) error
}

func NewBillingService(
	subscriptionRepo billing.SubscriptionRepository,
	tierRepo catalog.TierRepository,
	intervalRepo catalog.IntervalRepository,
	ownershipRepo addon.OwnershipRepository,
	catalogSvc catalog.CatalogService,
	currencySvc currency.CurrencyService,
	paystackClient *paystack.Client,
	notifier notify.Dispatcher,
	db *database.DB,
	cfg *config.Config,
) billing.BillingService {
	return &billingService{
		subscriptionRepo: subscriptionRepo,
		tierRepo:         tierRepo,
		intervalRepo:     intervalRepo,
		ownershipRepo:    ownershipRepo,
		catalogSvc:       catalogSvc,
		currencySvc:      currencySvc,
		paystackClient:   paystackClient,
		notifier:         notifier,
		db:               db,
		cfg:              cfg,
		withTx: func(ctx context.Context, fn func(tx pgx.Tx) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
	}
}

// ==================== Subscription Operations ====================

func (s *billingService) GetSubscription(ctx context.Context, churchID string) (billing.SubscriptionResponse, error) {
	sub, err := s.subscriptionRepo.GetByChurchIDWithCatalog(ctx, churchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return billing.SubscriptionResponse{}, billing.ErrSubscriptionNotFound
		}
		return billing.SubscriptionResponse{}, fmt.Errorf("get subscription: %w", err)
	}
	return toSubscriptionResponse(sub), nil
}

func (s *billingService) CreateInitialSubscription(ctx context.Context, churchID string) (billing.Subscription, error) {
	_, err := s.subscriptionRepo.GetByChurchID(ctx, churchID)
	if err == nil {
		return billing.Subscription{}, billing.ErrAlreadySubscribed
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return billing.Subscription{}, fmt.Errorf("check existing subscription: %w", err)
	}

	tiers, err := s.tierRepo.ListActive(ctx)
	if err != nil {
		return billing.Subscription{}, fmt.Errorf("list tiers: %w", err)
	}
	if len(tiers) == 0 {
		return billing.Subscription{}, catalog.ErrTierNotFound
	}

	monthly, err := s.intervalRepo.GetByName(ctx, catalog.IntervalMonthly)
	if err != nil {
		return billing.Subscription{}, fmt.Errorf("get monthly interval: %w", err)
	}

	// A church starts with a canceled baseline record; activation happens
	// through StartSubscription once payment details exist.
	now := time.Now()
	sub := billing.Subscription{
		ChurchID:           churchID,
		TierID:             tiers[0].ID,
		IntervalID:         monthly.ID,
		Status:             billing.StatusCanceled,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now,
		NextBillingDate:    now,
		AutoRenew:          false,
	}

	created, err := s.subscriptionRepo.Create(ctx, sub)
	if err != nil {
		return billing.Subscription{}, fmt.Errorf("create subscription: %w", err)
	}
	return created, nil
}

func (s *billingService) StartSubscription(ctx context.Context, churchID string, req billing.StartRequest) (billing.CheckoutResponse, error) {
	if err := req.Validate(); err != nil {
		return billing.CheckoutResponse{}, err
	}

	existing, err := s.subscriptionRepo.GetByChurchID(ctx, churchID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return billing.CheckoutResponse{}, fmt.Errorf("get subscription: %w", err)
	}
	if err == nil && existing.Status == billing.StatusActive {
		return billing.CheckoutResponse{}, billing.ErrAlreadySubscribed
	}

	tier, err := s.catalogSvc.ValidateTierSelection(ctx, req.TierID, req.MemberCount)
	if err != nil {
		return billing.CheckoutResponse{}, err
	}

	interval, err := s.intervalRepo.GetByID(ctx, req.IntervalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return billing.CheckoutResponse{}, catalog.ErrIntervalNotFound
		}
		return billing.CheckoutResponse{}, fmt.Errorf("get interval: %w", err)
	}
	if !interval.IsActive {
		return billing.CheckoutResponse{}, catalog.ErrIntervalNotActive
	}

	price, err := tier.PriceForInterval(interval.Name)
	if err != nil {
		return billing.CheckoutResponse{}, err
	}

	snap, err := s.currencySvc.GetSnapshot(ctx)
	if err != nil {
		return billing.CheckoutResponse{}, err
	}
	amountDisplay := snap.ToDisplay(price)

	reference := activationReferencePrefix + uuid.New().String()
	initResp, err := s.paystackClient.InitializeTransaction(ctx, paystack.InitializeRequest{
		Email:       req.PayerEmail,
		Amount:      amountDisplay,
		Currency:    snap.DisplayCurrency,
		Reference:   reference,
		CallbackURL: s.cfg.Paystack.CallbackURL,
		Metadata: map[string]string{
			paystack.MetadataKindKey: billing.PaymentKindActivation,
			"church_id":              churchID,
			"tier_id":                tier.ID,
			"interval_id":            interval.ID,
			"payer_email":            req.PayerEmail,
		},
	})
	if err != nil {
		return billing.CheckoutResponse{}, fmt.Errorf("initialize activation payment: %w", err)
	}

	return billing.CheckoutResponse{
		Reference:        reference,
		AuthorizationURL: initResp.AuthorizationURL,
		AmountDisplay:    amountDisplay,
		Currency:         snap.DisplayCurrency,
	}, nil
}

func (s *billingService) HandleActivationWebhook(ctx context.Context, payload billing.WebhookPayload) error {
	if payload.Status != "success" {
		slog.Warn("Activation payment not successful, ignoring", "reference", payload.Reference, "status", payload.Status)
		return nil
	}

	churchID := payload.Metadata["church_id"]
	tierID := payload.Metadata["tier_id"]
	intervalID := payload.Metadata["interval_id"]
	if churchID == "" || tierID == "" || intervalID == "" {
		return fmt.Errorf("activation webhook %s missing metadata", payload.Reference)
	}

	interval, err := s.intervalRepo.GetByID(ctx, intervalID)
	if err != nil {
		return fmt.Errorf("get interval: %w", err)
	}

	now := time.Now()
	nextBilling := now.AddDate(0, interval.Months, 0)

	sub, err := s.subscriptionRepo.GetByChurchID(ctx, churchID)
	newRecord := false
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("get subscription: %w", err)
		}
		newRecord = true
		sub = billing.Subscription{ChurchID: churchID}
	}

	sub.TierID = tierID
	sub.IntervalID = intervalID
	sub.Status = billing.StatusActive
	sub.CurrentPeriodStart = now
	sub.CurrentPeriodEnd = nextBilling.AddDate(0, 0, -1)
	sub.NextBillingDate = nextBilling
	sub.AutoRenew = true
	sub.FailedPaymentAttempts = 0
	sub.LastPaymentError = nil
	sub.SuspendedAt = nil
	sub.DataRetentionEndDate = nil
	sub.DeletionWarningSentAt = nil
	sub.DeletionEligibleAt = nil
	sub.CanceledAt = nil
	sub.EndsAt = nil
	if payload.CustomerCode != "" {
		sub.GatewayCustomerCode = &payload.CustomerCode
	}
	if payload.AuthorizationCode != "" {
		sub.GatewayAuthorizationCode = &payload.AuthorizationCode
	}
	if payload.CardLast4 != "" {
		sub.CardLast4 = &payload.CardLast4
	}
	if payload.CardBrand != "" {
		sub.CardBrand = &payload.CardBrand
	}
	if email := payload.Metadata["payer_email"]; email != "" {
		sub.PayerEmail = &email
	} else if payload.PayerEmail != "" {
		email := payload.PayerEmail
		sub.PayerEmail = &email
	}

	return s.withTx(ctx, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if newRecord {
			if _, err := s.subscriptionRepo.Create(txCtx, sub); err != nil {
				return fmt.Errorf("create subscription: %w", err)
			}
		} else {
			if err := s.subscriptionRepo.Update(txCtx, sub); err != nil {
				return fmt.Errorf("update subscription: %w", err)
			}
		}

		// A suspended tenant coming back through payment gets their
		// addons back too, pinned to the new billing calendar.
		if _, err := s.ownershipRepo.ReactivateSuspended(txCtx, churchID); err != nil {
			return fmt.Errorf("reactivate addons: %w", err)
		}
		if err := s.ownershipRepo.SyncRenewalDates(txCtx, churchID, sub.NextBillingDate, sub.CurrentPeriodEnd); err != nil {
			return fmt.Errorf("sync addon renewal dates: %w", err)
		}
		return nil
	})
}

func (s *billingService) CancelSubscription(ctx context.Context, churchID string, req billing.CancelRequest) error {
	sub, err := s.subscriptionRepo.GetByChurchID(ctx, churchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return billing.ErrSubscriptionNotFound
		}
		return fmt.Errorf("get subscription: %w", err)
	}
	if sub.Status == billing.StatusCanceled {
		return billing.ErrInvalidSubscriptionState
	}

	now := time.Now()
	periodEnd := sub.CurrentPeriodEnd
	sub.Status = billing.StatusCanceled
	sub.AutoRenew = false
	sub.CanceledAt = &now
	sub.EndsAt = &periodEnd

	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}

	slog.Info("Subscription canceled", "church_id", churchID, "ends_at", periodEnd, "reason", req.Reason)
	return nil
}

func (s *billingService) ReactivateSubscription(ctx context.Context, churchID string, adminID string) error {
	sub, err := s.subscriptionRepo.GetByChurchID(ctx, churchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return billing.ErrSubscriptionNotFound
		}
		return fmt.Errorf("get subscription: %w", err)
	}
	if sub.Status != billing.StatusSuspended {
		return billing.ErrNotSuspended
	}

	now := time.Now()
	sub.Status = billing.StatusActive
	sub.AutoRenew = true
	sub.FailedPaymentAttempts = 0
	sub.LastPaymentError = nil
	sub.SuspendedAt = nil
	sub.DataRetentionEndDate = nil
	sub.DeletionWarningSentAt = nil
	sub.DeletionEligibleAt = nil
	if sub.NextBillingDate.Before(now) {
		// Bill immediately on the next renewal run
		sub.NextBillingDate = now
	}

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := s.subscriptionRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("update subscription: %w", err)
		}
		if _, err := s.ownershipRepo.ReactivateSuspended(txCtx, churchID); err != nil {
			return fmt.Errorf("reactivate addons: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Subscription reactivated", "church_id", churchID, "admin_id", adminID)
	return nil
}

// ==================== Grace Periods ====================

func (s *billingService) GrantGracePeriod(ctx context.Context, churchID string, adminID string, req billing.GrantGraceRequest) (billing.GraceStatusResponse, error) {
	if err := req.Validate(); err != nil {
		return billing.GraceStatusResponse{}, err
	}
	if req.Days < 1 || req.Days > 30 {
		return billing.GraceStatusResponse{}, billing.ErrGraceDaysOutOfRange
	}

	sub, err := s.subscriptionRepo.GetByChurchID(ctx, churchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return billing.GraceStatusResponse{}, billing.ErrSubscriptionNotFound
		}
		return billing.GraceStatusResponse{}, fmt.Errorf("get subscription: %w", err)
	}

	sub.GracePeriodDays = req.Days
	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return billing.GraceStatusResponse{}, fmt.Errorf("update subscription: %w", err)
	}

	slog.Info("Grace period granted", "church_id", churchID, "admin_id", adminID, "days", req.Days, "reason", req.Reason)
	return toGraceStatus(sub), nil
}

func (s *billingService) RevokeGracePeriod(ctx context.Context, churchID string, adminID string) error {
	sub, err := s.subscriptionRepo.GetByChurchID(ctx, churchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return billing.ErrSubscriptionNotFound
		}
		return fmt.Errorf("get subscription: %w", err)
	}

	sub.GracePeriodDays = 0
	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}

	slog.Info("Grace period revoked", "church_id", churchID, "admin_id", adminID)
	return nil
}

func (s *billingService) GetGraceStatus(ctx context.Context, churchID string) (billing.GraceStatusResponse, error) {
	sub, err := s.subscriptionRepo.GetByChurchID(ctx, churchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return billing.GraceStatusResponse{}, billing.ErrSubscriptionNotFound
		}
		return billing.GraceStatusResponse{}, fmt.Errorf("get subscription: %w", err)
	}
	return toGraceStatus(sub), nil
}

// ==================== Promotional Credits ====================

func (s *billingService) GrantPromotionalCredits(ctx context.Context, churchID string, adminID string, req billing.GrantPromoRequest) (billing.PromoCreditResponse, error) {
	if err := req.Validate(); err != nil {
		return billing.PromoCreditResponse{}, err
	}

	sub, err := s.subscriptionRepo.GetByChurchID(ctx, churchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return billing.PromoCreditResponse{}, billing.ErrSubscriptionNotFound
		}
		return billing.PromoCreditResponse{}, fmt.Errorf("get subscription: %w", err)
	}

	now := time.Now()
	sub.PromotionalCreditMonths += req.Months
	sub.PromotionalCreditGrantedBy = &adminID
	sub.PromotionalCreditGrantedAt = &now
	if req.Note != "" {
		sub.PromotionalCreditNote = &req.Note
	}

	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return billing.PromoCreditResponse{}, fmt.Errorf("update subscription: %w", err)
	}

	slog.Info("Promotional credits granted", "church_id", churchID, "admin_id", adminID, "months", req.Months)
	return toPromoResponse(sub), nil
}

func (s *billingService) RevokePromotionalCredits(ctx context.Context, churchID string, adminID string) error {
	sub, err := s.subscriptionRepo.GetByChurchID(ctx, churchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return billing.ErrSubscriptionNotFound
		}
		return fmt.Errorf("get subscription: %w", err)
	}
	if sub.PromotionalCreditMonths == 0 {
		return billing.ErrNoPromotionalCredits
	}

	sub.PromotionalCreditMonths = 0
	sub.PromotionalCreditNote = nil
	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}

	slog.Info("Promotional credits revoked", "church_id", churchID, "admin_id", adminID)
	return nil
}

func (s *billingService) GetPromotionalCredits(ctx context.Context, churchID string) (billing.PromoCreditResponse, error) {
	sub, err := s.subscriptionRepo.GetByChurchID(ctx, churchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return billing.PromoCreditResponse{}, billing.ErrSubscriptionNotFound
		}
		return billing.PromoCreditResponse{}, fmt.Errorf("get subscription: %w", err)
	}
	return toPromoResponse(sub), nil
}

// ==================== Data Retention ====================

func (s *billingService) ExtendRetention(ctx context.Context, churchID string, adminID string, req billing.ExtendRetentionRequest) (billing.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return billing.SubscriptionResponse{}, err
	}
	if req.Days < 1 {
		return billing.SubscriptionResponse{}, billing.ErrRetentionDaysInvalid
	}

	sub, err := s.subscriptionRepo.GetByChurchID(ctx, churchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return billing.SubscriptionResponse{}, billing.ErrSubscriptionNotFound
		}
		return billing.SubscriptionResponse{}, fmt.Errorf("get subscription: %w", err)
	}
	if sub.Status != billing.StatusSuspended || sub.SuspendedAt == nil {
		return billing.SubscriptionResponse{}, billing.ErrNotSuspended
	}

	// Extensions accumulate and the end date is always rebased from the
	// suspension moment, never stacked on the previous end date.
	sub.RetentionExtensionDays += req.Days
	retentionEnd := billing.ComputeRetentionEnd(*sub.SuspendedAt, s.cfg.Billing.DataRetentionDays, sub.RetentionExtensionDays)
	sub.DataRetentionEndDate = &retentionEnd

	// The extension may have pushed the end date back out of warning
	// range; a fresh warning will go out when it gets close again.
	warnFrom := retentionEnd.AddDate(0, 0, -s.cfg.Billing.DeletionWarningDays)
	if time.Now().Before(warnFrom) {
		sub.DeletionWarningSentAt = nil
		sub.DeletionEligibleAt = nil
	}

	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return billing.SubscriptionResponse{}, fmt.Errorf("update subscription: %w", err)
	}

	slog.Info("Retention extended", "church_id", churchID, "admin_id", adminID,
		"days", req.Days, "retention_end", retentionEnd, "reason", req.Reason)

	full, err := s.subscriptionRepo.GetByChurchIDWithCatalog(ctx, churchID)
	if err != nil {
		return billing.SubscriptionResponse{}, fmt.Errorf("get subscription: %w", err)
	}
	return toSubscriptionResponse(full), nil
}

func (s *billingService) ListDeletionEligible(ctx context.Context) ([]billing.SubscriptionResponse, error) {
	suspended, err := s.subscriptionRepo.ListSuspended(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suspended subscriptions: %w", err)
	}

	now := time.Now()
	var responses []billing.SubscriptionResponse
	for _, sub := range suspended {
		if sub.IsEligibleForDeletion(now, s.cfg.Billing.DeletionWarningDays) {
			responses = append(responses, toSubscriptionResponse(sub))
		}
	}
	return responses, nil
}

// ==================== Stats ====================

func (s *billingService) GetStats(ctx context.Context) (billing.StatsResponse, error) {
	counts, err := s.subscriptionRepo.CountByStatus(ctx)
	if err != nil {
		return billing.StatsResponse{}, fmt.Errorf("count subscriptions: %w", err)
	}

	stats := billing.StatsResponse{
		Active:    counts[billing.StatusActive],
		PastDue:   counts[billing.StatusPastDue],
		Suspended: counts[billing.StatusSuspended],
		Canceled:  counts[billing.StatusCanceled],
	}
	stats.Total = stats.Active + stats.PastDue + stats.Suspended + stats.Canceled
	return stats, nil
}

// ==================== Lifecycle Batch Operations ====================

func (s *billingService) ProcessRenewals(ctx context.Context) (billing.BatchResult, error) {
	now := time.Now()
	due, err := s.subscriptionRepo.ListDueForRenewal(ctx, now)
	if err != nil {
		return billing.BatchResult{}, fmt.Errorf("list due subscriptions: %w", err)
	}

	var mu sync.Mutex
	result := billing.BatchResult{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Billing.RenewalWorkers)
	for _, sub := range due {
		sub := sub
		g.Go(func() error {
			err := s.renewOne(gctx, sub, now)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// One church's failure never aborts the batch
				slog.Error("Renewal failed", "church_id", sub.ChurchID, "error", err)
				result.Failed++
			} else {
				result.Processed++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

func (s *billingService) renewOne(ctx context.Context, sub billing.Subscription, now time.Time) error {
	switch billing.Decide(&sub, now, s.cfg.Billing.DeletionWarningDays) {
	case billing.ActionApplyCredit:
		return s.applyPromotionalCredit(ctx, sub, now)
	case billing.ActionChargeRenewal:
		return s.chargeRenewal(ctx, sub, now)
	case billing.ActionMarkPastDue:
		return s.markPastDue(ctx, sub, "no stored payment authorization")
	default:
		return nil
	}
}

// applyPromotionalCredit consumes one free month instead of charging
func (s *billingService) applyPromotionalCredit(ctx context.Context, sub billing.Subscription, now time.Time) error {
	interval, err := s.intervalRepo.GetByID(ctx, sub.IntervalID)
	if err != nil {
		return fmt.Errorf("get interval: %w", err)
	}

	// One credit covers one full billing interval regardless of length.
	// Consuming a credit is a successful renewal, so it also recovers a
	// past-due subscription.
	sub.PromotionalCreditMonths--
	sub.Status = billing.StatusActive
	sub.FailedPaymentAttempts = 0
	sub.LastPaymentError = nil
	s.advancePeriod(&sub, interval.Months)

	return s.withTx(ctx, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if err := s.subscriptionRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("update subscription: %w", err)
		}
		if err := s.ownershipRepo.SyncRenewalDates(txCtx, sub.ChurchID, sub.NextBillingDate, sub.CurrentPeriodEnd); err != nil {
			return fmt.Errorf("sync addon renewal dates: %w", err)
		}
		return nil
	})
}

func (s *billingService) chargeRenewal(ctx context.Context, sub billing.Subscription, now time.Time) error {
	tier, err := s.tierRepo.GetByID(ctx, sub.TierID)
	if err != nil {
		return fmt.Errorf("get tier: %w", err)
	}
	interval, err := s.intervalRepo.GetByID(ctx, sub.IntervalID)
	if err != nil {
		return fmt.Errorf("get interval: %w", err)
	}

	basePrice, err := tier.PriceForInterval(interval.Name)
	if err != nil {
		return err
	}

	// Active addons renew on the subscription's calendar at their locked
	// monthly price, scaled to the interval's length.
	ownerships, err := s.ownershipRepo.ListActiveByChurch(ctx, sub.ChurchID)
	if err != nil {
		return fmt.Errorf("list addons: %w", err)
	}
	addonTotal := decimal.Zero
	months := decimal.NewFromInt(int64(interval.Months))
	for _, o := range ownerships {
		addonTotal = addonTotal.Add(o.PurchasePriceUSD.Mul(months))
	}
	amountUSD := basePrice.Add(addonTotal)

	snap, err := s.currencySvc.GetSnapshot(ctx)
	if err != nil {
		return err
	}
	amountDisplay := snap.ToDisplay(amountUSD)

	reference := renewalReferencePrefix + uuid.New().String()
	chargeResp, err := s.paystackClient.ChargeAuthorization(ctx, paystack.ChargeRequest{
		Email:             payerEmail(sub),
		Amount:            amountDisplay,
		Currency:          snap.DisplayCurrency,
		AuthorizationCode: *sub.GatewayAuthorizationCode,
		Reference:         reference,
		Metadata: map[string]string{
			"church_id": sub.ChurchID,
		},
	})
	if err != nil {
		if markErr := s.markPastDue(ctx, sub, err.Error()); markErr != nil {
			return markErr
		}
		return fmt.Errorf("charge renewal: %w", err)
	}
	if !chargeResp.Succeeded() {
		if markErr := s.markPastDue(ctx, sub, chargeResp.GatewayResponse); markErr != nil {
			return markErr
		}
		return &billing.PaymentError{Reference: reference, Reason: chargeResp.GatewayResponse}
	}

	// A successful charge recovers a past-due subscription
	sub.Status = billing.StatusActive
	sub.FailedPaymentAttempts = 0
	sub.LastPaymentError = nil
	s.advancePeriod(&sub, interval.Months)

	return s.withTx(ctx, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if err := s.subscriptionRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("update subscription: %w", err)
		}
		if err := s.ownershipRepo.SyncRenewalDates(txCtx, sub.ChurchID, sub.NextBillingDate, sub.CurrentPeriodEnd); err != nil {
			return fmt.Errorf("sync addon renewal dates: %w", err)
		}
		return nil
	})
}

// advancePeriod moves the billing calendar forward one interval. The new
// period starts where the old one ended, so late renewal runs never
// shift the anchor date.
func (s *billingService) advancePeriod(sub *billing.Subscription, months int) {
	sub.CurrentPeriodStart = sub.NextBillingDate
	sub.NextBillingDate = sub.NextBillingDate.AddDate(0, months, 0)
	sub.CurrentPeriodEnd = sub.NextBillingDate.AddDate(0, 0, -1)
}

func (s *billingService) markPastDue(ctx context.Context, sub billing.Subscription, reason string) error {
	sub.Status = billing.StatusPastDue
	sub.FailedPaymentAttempts++
	sub.LastPaymentError = &reason
	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("mark past due: %w", err)
	}
	if err := s.notifier.SendPaymentFailedNotice(ctx, sub.ChurchID, sub.FailedPaymentAttempts, reason); err != nil {
		slog.Warn("Payment failed notice not sent", "church_id", sub.ChurchID, "error", err)
	}
	return nil
}

func (s *billingService) SuspendOverdueSubscriptions(ctx context.Context) (billing.BatchResult, error) {
	pastDue, err := s.subscriptionRepo.ListPastDue(ctx)
	if err != nil {
		return billing.BatchResult{}, fmt.Errorf("list past-due subscriptions: %w", err)
	}

	now := time.Now()
	result := billing.BatchResult{}
	for _, sub := range pastDue {
		if billing.Decide(&sub, now, s.cfg.Billing.DeletionWarningDays) != billing.ActionSuspend {
			continue
		}
		if err := s.suspendOne(ctx, sub, now); err != nil {
			slog.Error("Suspension failed", "church_id", sub.ChurchID, "error", err)
			result.Failed++
			continue
		}
		result.Processed++
	}
	return result, nil
}

func (s *billingService) suspendOne(ctx context.Context, sub billing.Subscription, now time.Time) error {
	retentionEnd := billing.ComputeRetentionEnd(now, s.cfg.Billing.DataRetentionDays, sub.RetentionExtensionDays)
	sub.Status = billing.StatusSuspended
	sub.SuspendedAt = &now
	sub.DataRetentionEndDate = &retentionEnd

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if err := s.subscriptionRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("update subscription: %w", err)
		}
		if _, err := s.ownershipRepo.SuspendActive(txCtx, sub.ChurchID, now); err != nil {
			return fmt.Errorf("suspend addons: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.notifier.SendSuspensionNotice(ctx, sub.ChurchID, retentionEnd); err != nil {
		slog.Warn("Suspension notice not sent", "church_id", sub.ChurchID, "error", err)
	}
	return nil
}

func (s *billingService) SendDeletionWarnings(ctx context.Context) (billing.BatchResult, error) {
	suspended, err := s.subscriptionRepo.ListSuspended(ctx)
	if err != nil {
		return billing.BatchResult{}, fmt.Errorf("list suspended subscriptions: %w", err)
	}

	now := time.Now()
	result := billing.BatchResult{}
	for _, sub := range suspended {
		if billing.Decide(&sub, now, s.cfg.Billing.DeletionWarningDays) != billing.ActionSendDeletionWarning {
			continue
		}
		if err := s.notifier.SendDeletionWarning(ctx, sub.ChurchID, *sub.DataRetentionEndDate); err != nil {
			slog.Error("Deletion warning failed", "church_id", sub.ChurchID, "error", err)
			result.Failed++
			continue
		}
		warned := now
		sub.DeletionWarningSentAt = &warned
		if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
			slog.Error("Deletion warning not recorded", "church_id", sub.ChurchID, "error", err)
			result.Failed++
			continue
		}
		result.Processed++
	}
	return result, nil
}

func (s *billingService) FlagDeletionEligible(ctx context.Context) (billing.BatchResult, error) {
	suspended, err := s.subscriptionRepo.ListSuspended(ctx)
	if err != nil {
		return billing.BatchResult{}, fmt.Errorf("list suspended subscriptions: %w", err)
	}

	now := time.Now()
	result := billing.BatchResult{}
	for _, sub := range suspended {
		if sub.DeletionEligibleAt != nil {
			continue
		}
		if billing.Decide(&sub, now, s.cfg.Billing.DeletionWarningDays) != billing.ActionFlagDeletionEligible {
			continue
		}
		flagged := now
		sub.DeletionEligibleAt = &flagged
		if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
			slog.Error("Deletion flag not recorded", "church_id", sub.ChurchID, "error", err)
			result.Failed++
			continue
		}
		result.Processed++
	}
	return result, nil
}

// ==================== Mappers ====================

func payerEmail(sub billing.Subscription) string {
	if sub.PayerEmail != nil {
		return *sub.PayerEmail
	}
	return ""
}

func toGraceStatus(sub billing.Subscription) billing.GraceStatusResponse {
	resp := billing.GraceStatusResponse{
		GracePeriodDays: sub.GracePeriodDays,
		InGracePeriod:   sub.IsInGracePeriod(time.Now()),
	}
	if sub.Status == billing.StatusPastDue && sub.GracePeriodDays > 0 {
		ends := sub.NextBillingDate.AddDate(0, 0, sub.GracePeriodDays).Format(time.RFC3339)
		resp.GraceEndsAt = &ends
	}
	return resp
}

func toPromoResponse(sub billing.Subscription) billing.PromoCreditResponse {
	resp := billing.PromoCreditResponse{
		Months:    sub.PromotionalCreditMonths,
		Note:      sub.PromotionalCreditNote,
		GrantedBy: sub.PromotionalCreditGrantedBy,
	}
	if sub.PromotionalCreditGrantedAt != nil {
		granted := sub.PromotionalCreditGrantedAt.Format(time.RFC3339)
		resp.GrantedAt = &granted
	}
	return resp
}

func toSubscriptionResponse(sub billing.Subscription) billing.SubscriptionResponse {
	resp := billing.SubscriptionResponse{
		ID:                      sub.ID,
		ChurchID:                sub.ChurchID,
		Status:                  sub.Status,
		CurrentPeriodStart:      sub.CurrentPeriodStart.Format(time.RFC3339),
		CurrentPeriodEnd:        sub.CurrentPeriodEnd.Format(time.RFC3339),
		NextBillingDate:         sub.NextBillingDate.Format(time.RFC3339),
		AutoRenew:               sub.AutoRenew,
		GracePeriodDays:         sub.GracePeriodDays,
		InGracePeriod:           sub.IsInGracePeriod(time.Now()),
		FailedPaymentAttempts:   sub.FailedPaymentAttempts,
		LastPaymentError:        sub.LastPaymentError,
		PromotionalCreditMonths: sub.PromotionalCreditMonths,
		CardLast4:               sub.CardLast4,
		CardBrand:               sub.CardBrand,
	}
	if sub.Tier != nil {
		resp.TierName = sub.Tier.Name
	}
	if sub.Interval != nil {
		resp.IntervalName = string(sub.Interval.Name)
	}
	if sub.SuspendedAt != nil {
		v := sub.SuspendedAt.Format(time.RFC3339)
		resp.SuspendedAt = &v
	}
	if sub.DataRetentionEndDate != nil {
		v := sub.DataRetentionEndDate.Format(time.RFC3339)
		resp.DataRetentionEndDate = &v
	}
	if sub.DeletionWarningSentAt != nil {
		v := sub.DeletionWarningSentAt.Format(time.RFC3339)
		resp.DeletionWarningSentAt = &v
	}
	if sub.CanceledAt != nil {
		v := sub.CanceledAt.Format(time.RFC3339)
		resp.CanceledAt = &v
	}
	if sub.EndsAt != nil {
		v := sub.EndsAt.Format(time.RFC3339)
		resp.EndsAt = &v
	}
	return resp
}
