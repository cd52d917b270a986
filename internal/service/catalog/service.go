package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pastcare/pastcare-billing-go/internal/domain/catalog"
	"github.com/pastcare/pastcare-billing-go/internal/domain/currency"
)

type catalogService struct {
	tierRepo     catalog.TierRepository
	intervalRepo catalog.IntervalRepository
	addonRepo    catalog.StorageAddonRepository
	currencySvc  currency.CurrencyService
}

func NewCatalogService(
	tierRepo catalog.TierRepository,
	intervalRepo catalog.IntervalRepository,
	addonRepo catalog.StorageAddonRepository,
	currencySvc currency.CurrencyService,
) catalog.CatalogService {
	return &catalogService{
		tierRepo:     tierRepo,
		intervalRepo: intervalRepo,
		addonRepo:    addonRepo,
		currencySvc:  currencySvc,
	}
}

func (s *catalogService) GetTiers(ctx context.Context) ([]catalog.TierResponse, error) {
	tiers, err := s.tierRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tiers: %w", err)
	}

	intervals, err := s.intervalRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list intervals: %w", err)
	}

	snap, err := s.currencySvc.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]catalog.TierResponse, len(tiers))
	for i, tier := range tiers {
		resp, err := toTierResponse(tier, intervals, snap)
		if err != nil {
			return nil, err
		}
		responses[i] = resp
	}
	return responses, nil
}

func (s *catalogService) GetTierByID(ctx context.Context, id string) (catalog.TierResponse, error) {
	tier, err := s.tierRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.TierResponse{}, catalog.ErrTierNotFound
		}
		return catalog.TierResponse{}, fmt.Errorf("get tier: %w", err)
	}

	intervals, err := s.intervalRepo.ListActive(ctx)
	if err != nil {
		return catalog.TierResponse{}, fmt.Errorf("list intervals: %w", err)
	}

	snap, err := s.currencySvc.GetSnapshot(ctx)
	if err != nil {
		return catalog.TierResponse{}, err
	}

	return toTierResponse(tier, intervals, snap)
}

func (s *catalogService) GetIntervals(ctx context.Context) ([]catalog.IntervalResponse, error) {
	intervals, err := s.intervalRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list intervals: %w", err)
	}

	responses := make([]catalog.IntervalResponse, len(intervals))
	for i, interval := range intervals {
		responses[i] = catalog.IntervalResponse{
			ID:               interval.ID,
			Name:             interval.Name,
			Months:           interval.Months,
			IntervalsPerYear: interval.IntervalsPerYear(),
		}
	}
	return responses, nil
}

func (s *catalogService) GetStorageAddons(ctx context.Context) ([]catalog.StorageAddonResponse, error) {
	addons, err := s.addonRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list storage addons: %w", err)
	}

	snap, err := s.currencySvc.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]catalog.StorageAddonResponse, len(addons))
	for i, a := range addons {
		responses[i] = catalog.StorageAddonResponse{
			ID:                  a.ID,
			Name:                a.Name,
			StorageGB:           a.StorageGB,
			MonthlyPriceUSD:     a.MonthlyPriceUSD,
			MonthlyPriceDisplay: snap.ToDisplay(a.MonthlyPriceUSD),
			DisplayCurrency:     snap.DisplayCurrency,
		}
	}
	return responses, nil
}

func (s *catalogService) ValidateTierSelection(ctx context.Context, tierID string, memberCount int) (catalog.PricingTier, error) {
	tier, err := s.tierRepo.GetByID(ctx, tierID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.PricingTier{}, catalog.ErrTierNotFound
		}
		return catalog.PricingTier{}, fmt.Errorf("get tier: %w", err)
	}

	if !tier.IsActive {
		return catalog.PricingTier{}, catalog.ErrTierNotActive
	}
	if !tier.Covers(memberCount) {
		return catalog.PricingTier{}, catalog.ErrMemberCountOutOfRange
	}
	return tier, nil
}

func (s *catalogService) RecommendTier(ctx context.Context, memberCount int) (catalog.TierResponse, error) {
	tier, err := s.tierRepo.FindForMemberCount(ctx, memberCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.TierResponse{}, catalog.ErrMemberCountOutOfRange
		}
		return catalog.TierResponse{}, fmt.Errorf("find tier for member count: %w", err)
	}

	intervals, err := s.intervalRepo.ListActive(ctx)
	if err != nil {
		return catalog.TierResponse{}, fmt.Errorf("list intervals: %w", err)
	}

	snap, err := s.currencySvc.GetSnapshot(ctx)
	if err != nil {
		return catalog.TierResponse{}, err
	}

	return toTierResponse(tier, intervals, snap)
}

func toTierResponse(tier catalog.PricingTier, intervals []catalog.BillingInterval, snap currency.Snapshot) (catalog.TierResponse, error) {
	prices := make([]catalog.IntervalPriceResponse, 0, len(intervals))
	for _, interval := range intervals {
		price, err := tier.PriceForInterval(interval.Name)
		if err != nil {
			return catalog.TierResponse{}, err
		}
		discount, err := tier.DiscountForInterval(interval.Name)
		if err != nil {
			return catalog.TierResponse{}, err
		}
		savings, err := tier.Savings(interval)
		if err != nil {
			return catalog.TierResponse{}, err
		}

		prices = append(prices, catalog.IntervalPriceResponse{
			Interval:     interval.Name,
			Months:       interval.Months,
			PriceUSD:     price,
			PriceDisplay: snap.ToDisplay(price),
			DiscountPct:  discount,
			SavingsUSD:   savings,
		})
	}

	return catalog.TierResponse{
		ID:              tier.ID,
		Name:            tier.Name,
		MinMembers:      tier.MinMembers,
		MaxMembers:      tier.MaxMembers,
		DisplayCurrency: snap.DisplayCurrency,
		Prices:          prices,
	}, nil
}
