package currency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pastcare/pastcare-billing-go/internal/domain/currency"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/database"
	"github.com/pastcare/pastcare-billing-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
)

const defaultHistoryLimit = 50

type currencyService struct {
	settingsRepo currency.SettingsRepository
	db           *database.DB
}

func NewCurrencyService(
	settingsRepo currency.SettingsRepository,
	db *database.DB,
) currency.CurrencyService {
	return &currencyService{
		settingsRepo: settingsRepo,
		db:           db,
	}
}

func (s *currencyService) GetSettings(ctx context.Context) (currency.SettingsResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return currency.SettingsResponse{}, currency.ErrSettingsNotFound
		}
		return currency.SettingsResponse{}, fmt.Errorf("get currency settings: %w", err)
	}
	return toSettingsResponse(settings), nil
}

func (s *currencyService) GetSnapshot(ctx context.Context) (currency.Snapshot, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return currency.Snapshot{}, currency.ErrSettingsNotFound
		}
		return currency.Snapshot{}, fmt.Errorf("get currency settings: %w", err)
	}
	return settings.Snapshot(), nil
}

func (s *currencyService) ConvertToDisplay(ctx context.Context, base decimal.Decimal) (decimal.Decimal, error) {
	snap, err := s.GetSnapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return snap.ToDisplay(base), nil
}

func (s *currencyService) ConvertToBase(ctx context.Context, display decimal.Decimal) (decimal.Decimal, error) {
	snap, err := s.GetSnapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return snap.ToBase(display), nil
}

func (s *currencyService) UpdateExchangeRate(ctx context.Context, adminID string, req currency.UpdateRateRequest) (currency.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return currency.SettingsResponse{}, err
	}
	if !req.Rate.IsPositive() {
		return currency.SettingsResponse{}, currency.ErrInvalidExchangeRate
	}

	current, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return currency.SettingsResponse{}, currency.ErrSettingsNotFound
		}
		return currency.SettingsResponse{}, fmt.Errorf("get currency settings: %w", err)
	}

	var updated currency.Settings
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		updated, err = s.settingsRepo.UpdateRate(txCtx, currency.RateUpdate{
			Rate:      req.Rate,
			UpdatedBy: adminID,
		}, current.Version)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return currency.ErrVersionConflict
			}
			return fmt.Errorf("update exchange rate: %w", err)
		}

		var note *string
		if req.Note != "" {
			note = &req.Note
		}
		change := currency.RateChange{
			OldRate:   current.ExchangeRate,
			NewRate:   updated.ExchangeRate,
			Version:   updated.Version,
			ChangedBy: adminID,
			Note:      note,
		}
		if err := s.settingsRepo.AppendRateChange(txCtx, change); err != nil {
			return fmt.Errorf("append rate change: %w", err)
		}
		return nil
	})
	if err != nil {
		return currency.SettingsResponse{}, err
	}

	return toSettingsResponse(updated), nil
}

func (s *currencyService) GetRateHistory(ctx context.Context, limit int) ([]currency.RateChangeResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	changes, err := s.settingsRepo.ListRateChanges(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list rate changes: %w", err)
	}

	responses := make([]currency.RateChangeResponse, len(changes))
	for i, c := range changes {
		responses[i] = currency.RateChangeResponse{
			OldRate:   c.OldRate,
			NewRate:   c.NewRate,
			Version:   c.Version,
			ChangedBy: c.ChangedBy,
			Note:      c.Note,
			ChangedAt: c.ChangedAt.Format(time.RFC3339),
		}
	}
	return responses, nil
}

func (s *currencyService) GetRateStats(ctx context.Context) (currency.RateStats, error) {
	stats, err := s.settingsRepo.RateStats(ctx)
	if err != nil {
		return currency.RateStats{}, fmt.Errorf("rate stats: %w", err)
	}
	return stats, nil
}

func toSettingsResponse(s currency.Settings) currency.SettingsResponse {
	return currency.SettingsResponse{
		BaseCurrency:    s.BaseCurrency,
		DisplayCurrency: s.DisplayCurrency,
		ExchangeRate:    s.ExchangeRate,
		PreviousRate:    s.PreviousRate,
		Version:         s.Version,
		UpdatedAt:       s.UpdatedAt.Format(time.RFC3339),
	}
}
