package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pastcare/pastcare-billing-go/internal/domain/catalog"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/database"
)

// ==================== Pricing Tier Repository ====================

type tierRepository struct {
	db *database.DB
}

func NewTierRepository(db *database.DB) catalog.TierRepository {
	return &tierRepository{db: db}
}

const tierColumns = `
	id, name, min_members, max_members,
	monthly_price_usd, quarterly_price_usd, biannual_price_usd, annual_price_usd,
	quarterly_discount_pct, biannual_discount_pct, annual_discount_pct,
	display_order, is_active, created_at, updated_at
`

func (r *tierRepository) GetByID(ctx context.Context, id string) (catalog.PricingTier, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + tierColumns + ` FROM pricing_tiers WHERE id = $1`

	var t catalog.PricingTier
	err := q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.MinMembers, &t.MaxMembers,
		&t.MonthlyPriceUSD, &t.QuarterlyPriceUSD, &t.BiannualPriceUSD, &t.AnnualPriceUSD,
		&t.QuarterlyDiscountPct, &t.BiannualDiscountPct, &t.AnnualDiscountPct,
		&t.DisplayOrder, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *tierRepository) ListActive(ctx context.Context) ([]catalog.PricingTier, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + tierColumns + ` FROM pricing_tiers WHERE is_active = true ORDER BY display_order`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.parseTierRows(rows)
}

func (r *tierRepository) FindForMemberCount(ctx context.Context, memberCount int) (catalog.PricingTier, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + tierColumns + `
		FROM pricing_tiers
		WHERE is_active = true
		  AND min_members <= $1
		  AND (max_members IS NULL OR max_members >= $1)
		ORDER BY min_members
		LIMIT 1
	`

	var t catalog.PricingTier
	err := q.QueryRow(ctx, query, memberCount).Scan(
		&t.ID, &t.Name, &t.MinMembers, &t.MaxMembers,
		&t.MonthlyPriceUSD, &t.QuarterlyPriceUSD, &t.BiannualPriceUSD, &t.AnnualPriceUSD,
		&t.QuarterlyDiscountPct, &t.BiannualDiscountPct, &t.AnnualDiscountPct,
		&t.DisplayOrder, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *tierRepository) parseTierRows(rows pgx.Rows) ([]catalog.PricingTier, error) {
	var tiers []catalog.PricingTier
	for rows.Next() {
		var t catalog.PricingTier
		if err := rows.Scan(
			&t.ID, &t.Name, &t.MinMembers, &t.MaxMembers,
			&t.MonthlyPriceUSD, &t.QuarterlyPriceUSD, &t.BiannualPriceUSD, &t.AnnualPriceUSD,
			&t.QuarterlyDiscountPct, &t.BiannualDiscountPct, &t.AnnualDiscountPct,
			&t.DisplayOrder, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}

// ==================== Billing Interval Repository ====================

type intervalRepository struct {
	db *database.DB
}

func NewIntervalRepository(db *database.DB) catalog.IntervalRepository {
	return &intervalRepository{db: db}
}

func (r *intervalRepository) GetByID(ctx context.Context, id string) (catalog.BillingInterval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, months, display_order, is_active, created_at
		FROM billing_intervals
		WHERE id = $1
	`

	var b catalog.BillingInterval
	err := q.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Name, &b.Months, &b.DisplayOrder, &b.IsActive, &b.CreatedAt,
	)
	return b, err
}

func (r *intervalRepository) GetByName(ctx context.Context, name catalog.IntervalName) (catalog.BillingInterval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, months, display_order, is_active, created_at
		FROM billing_intervals
		WHERE name = $1::billing_interval_name
	`

	var b catalog.BillingInterval
	err := q.QueryRow(ctx, query, string(name)).Scan(
		&b.ID, &b.Name, &b.Months, &b.DisplayOrder, &b.IsActive, &b.CreatedAt,
	)
	return b, err
}

func (r *intervalRepository) ListActive(ctx context.Context) ([]catalog.BillingInterval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, months, display_order, is_active, created_at
		FROM billing_intervals
		WHERE is_active = true
		ORDER BY display_order
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var intervals []catalog.BillingInterval
	for rows.Next() {
		var b catalog.BillingInterval
		if err := rows.Scan(&b.ID, &b.Name, &b.Months, &b.DisplayOrder, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, err
		}
		intervals = append(intervals, b)
	}
	return intervals, rows.Err()
}

// ==================== Storage Addon Repository ====================

type storageAddonRepository struct {
	db *database.DB
}

func NewStorageAddonRepository(db *database.DB) catalog.StorageAddonRepository {
	return &storageAddonRepository{db: db}
}

func (r *storageAddonRepository) GetByID(ctx context.Context, id string) (catalog.StorageAddon, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, storage_gb, monthly_price_usd, display_order, is_active, created_at
		FROM storage_addons
		WHERE id = $1
	`

	var a catalog.StorageAddon
	err := q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.StorageGB, &a.MonthlyPriceUSD, &a.DisplayOrder, &a.IsActive, &a.CreatedAt,
	)
	return a, err
}

func (r *storageAddonRepository) ListActive(ctx context.Context) ([]catalog.StorageAddon, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, storage_gb, monthly_price_usd, display_order, is_active, created_at
		FROM storage_addons
		WHERE is_active = true
		ORDER BY display_order
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addons []catalog.StorageAddon
	for rows.Next() {
		var a catalog.StorageAddon
		if err := rows.Scan(&a.ID, &a.Name, &a.StorageGB, &a.MonthlyPriceUSD, &a.DisplayOrder, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, err
		}
		addons = append(addons, a)
	}
	return addons, rows.Err()
}
