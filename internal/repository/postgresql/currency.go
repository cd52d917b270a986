package postgresql

import (
	"context"

	"github.com/pastcare/pastcare-billing-go/internal/domain/currency"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/database"
)

// ==================== Currency Settings Repository ====================

type currencyRepository struct {
	db *database.DB
}

func NewCurrencyRepository(db *database.DB) currency.SettingsRepository {
	return &currencyRepository{db: db}
}

func (r *currencyRepository) Get(ctx context.Context) (currency.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, base_currency, display_currency, exchange_rate, previous_rate,
			   version, updated_by, created_at, updated_at
		FROM currency_settings
		LIMIT 1
	`

	var s currency.Settings
	err := q.QueryRow(ctx, query).Scan(
		&s.ID, &s.BaseCurrency, &s.DisplayCurrency, &s.ExchangeRate, &s.PreviousRate,
		&s.Version, &s.UpdatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *currencyRepository) UpdateRate(ctx context.Context, newRate currency.RateUpdate, expectedVersion int) (currency.Settings, error) {
	q := GetQuerier(ctx, r.db)

	// The version check makes concurrent updates lose cleanly: the
	// second writer matches zero rows and sees pgx.ErrNoRows.
	query := `
		UPDATE currency_settings
		SET previous_rate = exchange_rate,
			exchange_rate = $1,
			version = version + 1,
			updated_by = $2,
			updated_at = NOW()
		WHERE version = $3
		RETURNING id, base_currency, display_currency, exchange_rate, previous_rate,
				  version, updated_by, created_at, updated_at
	`

	var s currency.Settings
	err := q.QueryRow(ctx, query, newRate.Rate, newRate.UpdatedBy, expectedVersion).Scan(
		&s.ID, &s.BaseCurrency, &s.DisplayCurrency, &s.ExchangeRate, &s.PreviousRate,
		&s.Version, &s.UpdatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *currencyRepository) AppendRateChange(ctx context.Context, change currency.RateChange) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO currency_rate_changes (old_rate, new_rate, version, changed_by, note)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := q.Exec(ctx, query, change.OldRate, change.NewRate, change.Version, change.ChangedBy, change.Note)
	return err
}

func (r *currencyRepository) ListRateChanges(ctx context.Context, limit int) ([]currency.RateChange, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, old_rate, new_rate, version, changed_by, note, changed_at
		FROM currency_rate_changes
		ORDER BY changed_at DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []currency.RateChange
	for rows.Next() {
		var c currency.RateChange
		if err := rows.Scan(&c.ID, &c.OldRate, &c.NewRate, &c.Version, &c.ChangedBy, &c.Note, &c.ChangedAt); err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

func (r *currencyRepository) RateStats(ctx context.Context) (currency.RateStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(MIN(new_rate), 0), COALESCE(MAX(new_rate), 0),
			   COUNT(*), MIN(changed_at), MAX(changed_at)
		FROM currency_rate_changes
	`

	var stats currency.RateStats
	err := q.QueryRow(ctx, query).Scan(
		&stats.MinRate, &stats.MaxRate, &stats.ChangeCount, &stats.FirstChange, &stats.LastChange,
	)
	return stats, err
}
