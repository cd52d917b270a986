package tierchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pastcare/pastcare-billing-go/internal/domain/billing"
	"github.com/pastcare/pastcare-billing-go/internal/domain/catalog"
	"github.com/pastcare/pastcare-billing-go/internal/domain/currency"
	"github.com/pastcare/pastcare-billing-go/internal/domain/tierchange"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/database"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/paystack"
	"github.com/pastcare/pastcare-billing-go/internal/repository/postgresql"
)

const referencePrefix = "TIER_CHANGE-"

type tierChangeService struct {
	recordRepo       tierchange.RecordRepository
	subscriptionRepo billing.SubscriptionRepository
	tierRepo         catalog.TierRepository
	intervalRepo     catalog.IntervalRepository
	currencySvc      currency.CurrencyService
	paystackClient   *paystack.Client
	db               *database.DB
}

func NewTierChangeService(
	recordRepo tierchange.RecordRepository,
	subscriptionRepo billing.SubscriptionRepository,
	tierRepo catalog.TierRepository,
	intervalRepo catalog.IntervalRepository,
	currencySvc currency.CurrencyService,
	paystackClient *paystack.Client,
	db *database.DB,
) tierchange.TierChangeService {
	return &tierChangeService{
		recordRepo:       recordRepo,
		subscriptionRepo: subscriptionRepo,
		tierRepo:         tierRepo,
		intervalRepo:     intervalRepo,
		currencySvc:      currencySvc,
		paystackClient:   paystackClient,
		db:               db,
	}
}

// changeContext gathers everything a preview or initiation needs
type changeContext struct {
	sub         billing.Subscription
	oldTier     catalog.PricingTier
	newTier     catalog.PricingTier
	oldInterval catalog.BillingInterval
	newInterval catalog.BillingInterval
	changeType  tierchange.ChangeType
	calc        tierchange.Calculation
	snap        currency.Snapshot
}

func (s *tierChangeService) prepare(ctx context.Context, churchID string, req tierchange.ChangeRequest) (changeContext, error) {
	var cc changeContext

	sub, err := s.subscriptionRepo.GetByChurchIDWithCatalog(ctx, churchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cc, billing.ErrSubscriptionNotFound
		}
		return cc, fmt.Errorf("get subscription: %w", err)
	}
	if sub.Status != billing.StatusActive {
		return cc, tierchange.ErrSubscriptionNotActive
	}
	if sub.TierID == req.NewTierID && sub.IntervalID == req.NewIntervalID {
		return cc, tierchange.ErrSameTierAndInterval
	}

	newTier, err := s.tierRepo.GetByID(ctx, req.NewTierID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cc, catalog.ErrTierNotFound
		}
		return cc, fmt.Errorf("get new tier: %w", err)
	}
	if !newTier.IsActive {
		return cc, catalog.ErrTierNotActive
	}

	newInterval, err := s.intervalRepo.GetByID(ctx, req.NewIntervalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cc, catalog.ErrIntervalNotFound
		}
		return cc, fmt.Errorf("get new interval: %w", err)
	}
	if !newInterval.IsActive {
		return cc, catalog.ErrIntervalNotActive
	}

	oldTier := *sub.Tier
	oldInterval := *sub.Interval

	oldPrice, err := oldTier.PriceForInterval(oldInterval.Name)
	if err != nil {
		return cc, err
	}
	// The remaining days stay on the old billing cadence; a new interval
	// only takes effect at the next renewal. So the charge side prices
	// the new tier at the old interval.
	newPrice, err := newTier.PriceForInterval(oldInterval.Name)
	if err != nil {
		return cc, err
	}

	snap, err := s.currencySvc.GetSnapshot(ctx)
	if err != nil {
		return cc, err
	}

	cc.sub = sub
	cc.oldTier = oldTier
	cc.newTier = newTier
	cc.oldInterval = oldInterval
	cc.newInterval = newInterval
	cc.changeType = tierchange.DetectChangeType(sub.TierID, req.NewTierID, sub.IntervalID, req.NewIntervalID)
	cc.calc = tierchange.Calculate(oldPrice, newPrice, oldInterval.Months, time.Now(), sub.NextBillingDate)
	cc.snap = snap
	return cc, nil
}

func (s *tierChangeService) Preview(ctx context.Context, churchID string, req tierchange.ChangeRequest) (tierchange.PreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return tierchange.PreviewResponse{}, err
	}

	cc, err := s.prepare(ctx, churchID, req)
	if err != nil {
		return tierchange.PreviewResponse{}, err
	}

	return tierchange.PreviewResponse{
		ChangeType:       cc.changeType,
		OldTierName:      cc.oldTier.Name,
		NewTierName:      cc.newTier.Name,
		OldIntervalName:  string(cc.oldInterval.Name),
		NewIntervalName:  string(cc.newInterval.Name),
		Calculation:      cc.calc,
		CreditDisplay:    cc.snap.ToDisplay(cc.calc.CreditUSD),
		ChargeDisplay:    cc.snap.ToDisplay(cc.calc.ChargeUSD),
		NetChargeDisplay: cc.snap.ToDisplay(cc.calc.NetChargeUSD),
		DisplayCurrency:  cc.snap.DisplayCurrency,
		NextBillingDate:  cc.sub.NextBillingDate.Format(time.RFC3339),
	}, nil
}

func (s *tierChangeService) Initiate(ctx context.Context, churchID string, req tierchange.ChangeRequest) (tierchange.InitiateResponse, error) {
	if err := req.Validate(); err != nil {
		return tierchange.InitiateResponse{}, err
	}

	pending, err := s.recordRepo.HasPending(ctx, churchID)
	if err != nil {
		return tierchange.InitiateResponse{}, fmt.Errorf("check pending change: %w", err)
	}
	if pending {
		return tierchange.InitiateResponse{}, tierchange.ErrPendingChangeExists
	}

	cc, err := s.prepare(ctx, churchID, req)
	if err != nil {
		return tierchange.InitiateResponse{}, err
	}

	netDisplay := cc.snap.ToDisplay(cc.calc.NetChargeUSD)
	needsCharge := cc.calc.NetChargeUSD.IsPositive()
	if needsCharge && !cc.sub.HasPaymentAuthorization() {
		return tierchange.InitiateResponse{}, billing.ErrNoPaymentAuthorization
	}

	// The record and its unique reference exist before the gateway is
	// ever contacted, so a crash mid-charge leaves an auditable pending
	// row instead of an orphaned payment.
	reference := referencePrefix + uuid.New().String()
	record := tierchange.Record{
		ChurchID:           churchID,
		SubscriptionID:     cc.sub.ID,
		ChangeType:         cc.changeType,
		OldTierID:          cc.oldTier.ID,
		NewTierID:          cc.newTier.ID,
		OldTierName:        cc.oldTier.Name,
		NewTierName:        cc.newTier.Name,
		OldIntervalID:      cc.oldInterval.ID,
		NewIntervalID:      cc.newInterval.ID,
		OldIntervalName:    string(cc.oldInterval.Name),
		NewIntervalName:    string(cc.newInterval.Name),
		PeriodLengthDays:   cc.calc.PeriodLengthDays,
		DaysUsed:           cc.calc.DaysUsed,
		DaysRemaining:      cc.calc.DaysRemaining,
		OldDailyRateUSD:    cc.calc.OldDailyRateUSD,
		NewDailyRateUSD:    cc.calc.NewDailyRateUSD,
		CreditUSD:          cc.calc.CreditUSD,
		ChargeUSD:          cc.calc.ChargeUSD,
		NetChargeUSD:       cc.calc.NetChargeUSD,
		CreditDisplay:      cc.snap.ToDisplay(cc.calc.CreditUSD),
		ChargeDisplay:      cc.snap.ToDisplay(cc.calc.ChargeUSD),
		NetChargeDisplay:   netDisplay,
		DisplayCurrency:    cc.snap.DisplayCurrency,
		ExchangeRateUsed:   cc.snap.Rate,
		PaymentReference:   reference,
		PaymentStatus:      tierchange.PaymentPending,
		OldNextBillingDate: cc.sub.NextBillingDate,
		NewNextBillingDate: cc.sub.NextBillingDate,
	}

	created, err := s.recordRepo.Create(ctx, record)
	if err != nil {
		return tierchange.InitiateResponse{}, fmt.Errorf("create change record: %w", err)
	}

	if !needsCharge {
		// Zero or negative net settles immediately; a surplus stays on
		// the record as a credit rather than triggering a refund.
		if err := s.Complete(ctx, reference); err != nil {
			return tierchange.InitiateResponse{}, err
		}
		created.PaymentStatus = tierchange.PaymentCompleted
		return tierchange.InitiateResponse{
			Record:    toRecordResponse(created),
			Settled:   true,
			NetCharge: netDisplay,
			Currency:  cc.snap.DisplayCurrency,
		}, nil
	}

	chargeResp, err := s.paystackClient.ChargeAuthorization(ctx, paystack.ChargeRequest{
		Email:             payerEmail(cc.sub),
		Amount:            netDisplay,
		Currency:          cc.snap.DisplayCurrency,
		AuthorizationCode: *cc.sub.GatewayAuthorizationCode,
		Reference:         reference,
		Metadata: map[string]string{
			paystack.MetadataKindKey: billing.PaymentKindTierChange,
			"church_id":              churchID,
		},
	})
	if err != nil {
		_ = s.Fail(ctx, reference, err.Error())
		return tierchange.InitiateResponse{}, fmt.Errorf("charge tier change: %w", err)
	}
	if !chargeResp.Succeeded() {
		if failErr := s.Fail(ctx, reference, chargeResp.GatewayResponse); failErr != nil {
			return tierchange.InitiateResponse{}, failErr
		}
		return tierchange.InitiateResponse{}, &billing.PaymentError{Reference: reference, Reason: chargeResp.GatewayResponse}
	}

	if err := s.Complete(ctx, reference); err != nil {
		return tierchange.InitiateResponse{}, err
	}
	created.PaymentStatus = tierchange.PaymentCompleted

	return tierchange.InitiateResponse{
		Record:    toRecordResponse(created),
		Settled:   true,
		NetCharge: netDisplay,
		Currency:  cc.snap.DisplayCurrency,
	}, nil
}

func (s *tierChangeService) CancelPending(ctx context.Context, churchID string) error {
	record, err := s.recordRepo.GetPendingByChurch(ctx, churchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tierchange.ErrNoPendingChange
		}
		return fmt.Errorf("get pending change: %w", err)
	}

	if err := s.recordRepo.MarkFailed(ctx, record.PaymentReference, "canceled before payment"); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tierchange.ErrChangeNotPending
		}
		return fmt.Errorf("cancel pending change: %w", err)
	}
	return nil
}

func (s *tierChangeService) Complete(ctx context.Context, reference string) error {
	record, err := s.recordRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tierchange.ErrRecordNotFound
		}
		return fmt.Errorf("get change record: %w", err)
	}

	// Idempotent: a webhook retry for a settled change is a no-op
	if record.PaymentStatus == tierchange.PaymentCompleted {
		return nil
	}
	if record.PaymentStatus != tierchange.PaymentPending {
		return tierchange.ErrChangeNotPending
	}

	sub, err := s.subscriptionRepo.GetByID(ctx, record.SubscriptionID)
	if err != nil {
		return fmt.Errorf("get subscription: %w", err)
	}

	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := s.recordRepo.MarkCompleted(txCtx, reference, time.Now()); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return tierchange.ErrChangeNotPending
			}
			return fmt.Errorf("mark change completed: %w", err)
		}

		// The billing calendar is untouched; the new tier applies now and
		// the new interval from the next renewal.
		sub.TierID = record.NewTierID
		sub.IntervalID = record.NewIntervalID
		if err := s.subscriptionRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("update subscription: %w", err)
		}
		return nil
	})
}

func (s *tierChangeService) Fail(ctx context.Context, reference string, reason string) error {
	if err := s.recordRepo.MarkFailed(ctx, reference, reason); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tierchange.ErrRecordNotFound
		}
		return fmt.Errorf("mark change failed: %w", err)
	}
	return nil
}

func (s *tierChangeService) History(ctx context.Context, churchID string) ([]tierchange.RecordResponse, error) {
	records, err := s.recordRepo.ListByChurch(ctx, churchID)
	if err != nil {
		return nil, fmt.Errorf("list change records: %w", err)
	}

	responses := make([]tierchange.RecordResponse, len(records))
	for i, rec := range records {
		responses[i] = toRecordResponse(rec)
	}
	return responses, nil
}

func payerEmail(sub billing.Subscription) string {
	if sub.PayerEmail != nil {
		return *sub.PayerEmail
	}
	return ""
}

func toRecordResponse(rec tierchange.Record) tierchange.RecordResponse {
	resp := tierchange.RecordResponse{
		ID:               rec.ID,
		ChangeType:       rec.ChangeType,
		OldTierName:      rec.OldTierName,
		NewTierName:      rec.NewTierName,
		OldIntervalName:  rec.OldIntervalName,
		NewIntervalName:  rec.NewIntervalName,
		DaysRemaining:    rec.DaysRemaining,
		CreditUSD:        rec.CreditUSD,
		ChargeUSD:        rec.ChargeUSD,
		NetChargeUSD:     rec.NetChargeUSD,
		NetChargeDisplay: rec.NetChargeDisplay,
		DisplayCurrency:  rec.DisplayCurrency,
		PaymentReference: rec.PaymentReference,
		PaymentStatus:    rec.PaymentStatus,
		FailureReason:    rec.FailureReason,
		CreatedAt:        rec.CreatedAt.Format(time.RFC3339),
	}
	if rec.CompletedAt != nil {
		completed := rec.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completed
	}
	return resp
}
