package postgresql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pastcare/pastcare-billing-go/internal/domain/addon"
	"github.com/pastcare/pastcare-billing-go/internal/domain/catalog"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/database"
)

// ==================== Addon Ownership Repository ====================

type ownershipRepository struct {
	db *database.DB
}

func NewOwnershipRepository(db *database.DB) addon.OwnershipRepository {
	return &ownershipRepository{db: db}
}

const ownershipColumns = `
	id, church_id, addon_id, status,
	purchase_price_usd, purchase_reference,
	is_prorated, prorated_amount_usd, prorated_days,
	purchased_at, current_period_start, current_period_end, next_renewal_date,
	canceled_at, cancel_reason, suspended_at,
	created_at, updated_at
`

func scanOwnershipFields(o *addon.Ownership) []any {
	return []any{
		&o.ID, &o.ChurchID, &o.AddonID, &o.Status,
		&o.PurchasePriceUSD, &o.PurchaseReference,
		&o.IsProrated, &o.ProratedAmountUSD, &o.ProratedDays,
		&o.PurchasedAt, &o.CurrentPeriodStart, &o.CurrentPeriodEnd, &o.NextRenewalDate,
		&o.CanceledAt, &o.CancelReason, &o.SuspendedAt,
		&o.CreatedAt, &o.UpdatedAt,
	}
}

func (r *ownershipRepository) GetByID(ctx context.Context, id string) (addon.Ownership, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + ownershipColumns + ` FROM addon_ownerships WHERE id = $1`

	var o addon.Ownership
	err := q.QueryRow(ctx, query, id).Scan(scanOwnershipFields(&o)...)
	return o, err
}

func (r *ownershipRepository) GetActive(ctx context.Context, churchID, addonID string) (addon.Ownership, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + ownershipColumns + `
		FROM addon_ownerships
		WHERE church_id = $1 AND addon_id = $2 AND status = 'active'
	`

	var o addon.Ownership
	err := q.QueryRow(ctx, query, churchID, addonID).Scan(scanOwnershipFields(&o)...)
	return o, err
}

func (r *ownershipRepository) ListByChurch(ctx context.Context, churchID string) ([]addon.Ownership, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT o.id, o.church_id, o.addon_id, o.status,
			   o.purchase_price_usd, o.purchase_reference,
			   o.is_prorated, o.prorated_amount_usd, o.prorated_days,
			   o.purchased_at, o.current_period_start, o.current_period_end, o.next_renewal_date,
			   o.canceled_at, o.cancel_reason, o.suspended_at,
			   o.created_at, o.updated_at,
			   a.id, a.name, a.storage_gb, a.monthly_price_usd, a.display_order, a.is_active, a.created_at
		FROM addon_ownerships o
		JOIN storage_addons a ON a.id = o.addon_id
		WHERE o.church_id = $1
		ORDER BY o.purchased_at DESC
	`

	rows, err := q.Query(ctx, query, churchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ownerships []addon.Ownership
	for rows.Next() {
		var o addon.Ownership
		var a catalog.StorageAddon
		fields := scanOwnershipFields(&o)
		fields = append(fields,
			&a.ID, &a.Name, &a.StorageGB, &a.MonthlyPriceUSD, &a.DisplayOrder, &a.IsActive, &a.CreatedAt,
		)
		if err := rows.Scan(fields...); err != nil {
			return nil, err
		}
		o.Addon = &a
		ownerships = append(ownerships, o)
	}
	return ownerships, rows.Err()
}

func (r *ownershipRepository) ListActiveByChurch(ctx context.Context, churchID string) ([]addon.Ownership, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + ownershipColumns + `
		FROM addon_ownerships
		WHERE church_id = $1 AND status = 'active'
		ORDER BY purchased_at
	`

	rows, err := q.Query(ctx, query, churchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.parseOwnershipRows(rows)
}

func (r *ownershipRepository) Create(ctx context.Context, o addon.Ownership) (addon.Ownership, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO addon_ownerships (church_id, addon_id, status,
			purchase_price_usd, purchase_reference,
			is_prorated, prorated_amount_usd, prorated_days,
			purchased_at, current_period_start, current_period_end, next_renewal_date)
		VALUES ($1, $2, $3::addon_ownership_status, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		o.ChurchID, o.AddonID, string(o.Status),
		o.PurchasePriceUSD, o.PurchaseReference,
		o.IsProrated, o.ProratedAmountUSD, o.ProratedDays,
		o.PurchasedAt, o.CurrentPeriodStart, o.CurrentPeriodEnd, o.NextRenewalDate,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)

	return o, err
}

func (r *ownershipRepository) Update(ctx context.Context, o addon.Ownership) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE addon_ownerships
		SET status = $2::addon_ownership_status,
			current_period_start = $3, current_period_end = $4, next_renewal_date = $5,
			canceled_at = $6, cancel_reason = $7, suspended_at = $8,
			updated_at = NOW()
		WHERE id = $1
	`

	_, err := q.Exec(ctx, query,
		o.ID, string(o.Status),
		o.CurrentPeriodStart, o.CurrentPeriodEnd, o.NextRenewalDate,
		o.CanceledAt, o.CancelReason, o.SuspendedAt,
	)
	return err
}

func (r *ownershipRepository) SyncRenewalDates(ctx context.Context, churchID string, nextRenewalDate, periodEnd time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE addon_ownerships
		SET current_period_start = next_renewal_date,
			current_period_end = $3,
			next_renewal_date = $2,
			updated_at = NOW()
		WHERE church_id = $1 AND status = 'active'
	`
	_, err := q.Exec(ctx, query, churchID, nextRenewalDate, periodEnd)
	return err
}

func (r *ownershipRepository) SuspendActive(ctx context.Context, churchID string, suspendedAt time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE addon_ownerships
		SET status = 'suspended', suspended_at = $2, updated_at = NOW()
		WHERE church_id = $1 AND status = 'active'
	`
	tag, err := q.Exec(ctx, query, churchID, suspendedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *ownershipRepository) ReactivateSuspended(ctx context.Context, churchID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE addon_ownerships
		SET status = 'active', suspended_at = NULL, updated_at = NOW()
		WHERE church_id = $1 AND status = 'suspended'
	`
	tag, err := q.Exec(ctx, query, churchID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *ownershipRepository) parseOwnershipRows(rows pgx.Rows) ([]addon.Ownership, error) {
	var ownerships []addon.Ownership
	for rows.Next() {
		var o addon.Ownership
		if err := rows.Scan(scanOwnershipFields(&o)...); err != nil {
			return nil, err
		}
		ownerships = append(ownerships, o)
	}
	return ownerships, rows.Err()
}
