package postgresql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pastcare/pastcare-billing-go/internal/domain/tierchange"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/database"
)

// ==================== Tier Change Record Repository ====================

type tierChangeRepository struct {
	db *database.DB
}

func NewTierChangeRepository(db *database.DB) tierchange.RecordRepository {
	return &tierChangeRepository{db: db}
}

const tierChangeColumns = `
	id, church_id, subscription_id, change_type,
	old_tier_id, new_tier_id, old_tier_name, new_tier_name,
	old_interval_id, new_interval_id, old_interval_name, new_interval_name,
	period_length_days, days_used, days_remaining,
	old_daily_rate_usd, new_daily_rate_usd, credit_usd, charge_usd, net_charge_usd,
	credit_display, charge_display, net_charge_display, display_currency, exchange_rate_used,
	payment_reference, payment_status, failure_reason,
	old_next_billing_date, new_next_billing_date, completed_at,
	created_at, updated_at
`

func scanTierChangeFields(rec *tierchange.Record) []any {
	return []any{
		&rec.ID, &rec.ChurchID, &rec.SubscriptionID, &rec.ChangeType,
		&rec.OldTierID, &rec.NewTierID, &rec.OldTierName, &rec.NewTierName,
		&rec.OldIntervalID, &rec.NewIntervalID, &rec.OldIntervalName, &rec.NewIntervalName,
		&rec.PeriodLengthDays, &rec.DaysUsed, &rec.DaysRemaining,
		&rec.OldDailyRateUSD, &rec.NewDailyRateUSD, &rec.CreditUSD, &rec.ChargeUSD, &rec.NetChargeUSD,
		&rec.CreditDisplay, &rec.ChargeDisplay, &rec.NetChargeDisplay, &rec.DisplayCurrency, &rec.ExchangeRateUsed,
		&rec.PaymentReference, &rec.PaymentStatus, &rec.FailureReason,
		&rec.OldNextBillingDate, &rec.NewNextBillingDate, &rec.CompletedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
	}
}

func (r *tierChangeRepository) GetByID(ctx context.Context, id string) (tierchange.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + tierChangeColumns + ` FROM tier_change_records WHERE id = $1`

	var rec tierchange.Record
	err := q.QueryRow(ctx, query, id).Scan(scanTierChangeFields(&rec)...)
	return rec, err
}

func (r *tierChangeRepository) GetByReference(ctx context.Context, reference string) (tierchange.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + tierChangeColumns + ` FROM tier_change_records WHERE payment_reference = $1`

	var rec tierchange.Record
	err := q.QueryRow(ctx, query, reference).Scan(scanTierChangeFields(&rec)...)
	return rec, err
}

func (r *tierChangeRepository) GetPendingByChurch(ctx context.Context, churchID string) (tierchange.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + tierChangeColumns + `
		FROM tier_change_records
		WHERE church_id = $1 AND payment_status = 'pending'
		ORDER BY created_at DESC
		LIMIT 1
	`

	var rec tierchange.Record
	err := q.QueryRow(ctx, query, churchID).Scan(scanTierChangeFields(&rec)...)
	return rec, err
}

func (r *tierChangeRepository) HasPending(ctx context.Context, churchID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM tier_change_records WHERE church_id = $1 AND payment_status = 'pending')`

	var exists bool
	err := q.QueryRow(ctx, query, churchID).Scan(&exists)
	return exists, err
}

func (r *tierChangeRepository) ListByChurch(ctx context.Context, churchID string) ([]tierchange.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + tierChangeColumns + `
		FROM tier_change_records
		WHERE church_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, churchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.parseRecordRows(rows)
}

func (r *tierChangeRepository) Create(ctx context.Context, rec tierchange.Record) (tierchange.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tier_change_records (church_id, subscription_id, change_type,
			old_tier_id, new_tier_id, old_tier_name, new_tier_name,
			old_interval_id, new_interval_id, old_interval_name, new_interval_name,
			period_length_days, days_used, days_remaining,
			old_daily_rate_usd, new_daily_rate_usd, credit_usd, charge_usd, net_charge_usd,
			credit_display, charge_display, net_charge_display, display_currency, exchange_rate_used,
			payment_reference, payment_status,
			old_next_billing_date, new_next_billing_date)
		VALUES ($1, $2, $3::tier_change_type, $4, $5, $6, $7, $8, $9, $10, $11,
				$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24,
				$25, $26::tier_change_payment_status, $27, $28)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ChurchID, rec.SubscriptionID, string(rec.ChangeType),
		rec.OldTierID, rec.NewTierID, rec.OldTierName, rec.NewTierName,
		rec.OldIntervalID, rec.NewIntervalID, rec.OldIntervalName, rec.NewIntervalName,
		rec.PeriodLengthDays, rec.DaysUsed, rec.DaysRemaining,
		rec.OldDailyRateUSD, rec.NewDailyRateUSD, rec.CreditUSD, rec.ChargeUSD, rec.NetChargeUSD,
		rec.CreditDisplay, rec.ChargeDisplay, rec.NetChargeDisplay, rec.DisplayCurrency, rec.ExchangeRateUsed,
		rec.PaymentReference, string(rec.PaymentStatus),
		rec.OldNextBillingDate, rec.NewNextBillingDate,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	return rec, err
}

func (r *tierChangeRepository) MarkCompleted(ctx context.Context, reference string, completedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tier_change_records
		SET payment_status = 'completed', completed_at = $2, updated_at = NOW()
		WHERE payment_reference = $1 AND payment_status = 'pending'
	`
	tag, err := q.Exec(ctx, query, reference, completedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tierChangeRepository) MarkFailed(ctx context.Context, reference string, reason string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tier_change_records
		SET payment_status = 'failed', failure_reason = $2, updated_at = NOW()
		WHERE payment_reference = $1 AND payment_status = 'pending'
	`
	tag, err := q.Exec(ctx, query, reference, reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tierChangeRepository) parseRecordRows(rows pgx.Rows) ([]tierchange.Record, error) {
	var records []tierchange.Record
	for rows.Next() {
		var rec tierchange.Record
		if err := rows.Scan(scanTierChangeFields(&rec)...); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
