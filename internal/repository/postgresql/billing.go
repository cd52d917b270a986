package postgresql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pastcare/pastcare-billing-go/internal/domain/billing"
	"github.com/pastcare/pastcare-billing-go/internal/domain/catalog"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/database"
)

// ==================== Subscription Repository ====================

type subscriptionRepository struct {
	db *database.DB
}

func NewSubscriptionRepository(db *database.DB) billing.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

const subscriptionColumns = `
	id, church_id, tier_id, interval_id, status,
	current_period_start, current_period_end, next_billing_date, auto_renew,
	grace_period_days, failed_payment_attempts, last_payment_error,
	promotional_credit_months, promotional_credit_note, promotional_credit_granted_by, promotional_credit_granted_at,
	suspended_at, data_retention_end_date, deletion_warning_sent_at, deletion_eligible_at, retention_extension_days,
	canceled_at, ends_at,
	payer_email, gateway_customer_code, gateway_authorization_code, card_last4, card_brand,
	created_at, updated_at
`

func scanSubscriptionFields(s *billing.Subscription) []any {
	return []any{
		&s.ID, &s.ChurchID, &s.TierID, &s.IntervalID, &s.Status,
		&s.CurrentPeriodStart, &s.CurrentPeriodEnd, &s.NextBillingDate, &s.AutoRenew,
		&s.GracePeriodDays, &s.FailedPaymentAttempts, &s.LastPaymentError,
		&s.PromotionalCreditMonths, &s.PromotionalCreditNote, &s.PromotionalCreditGrantedBy, &s.PromotionalCreditGrantedAt,
		&s.SuspendedAt, &s.DataRetentionEndDate, &s.DeletionWarningSentAt, &s.DeletionEligibleAt, &s.RetentionExtensionDays,
		&s.CanceledAt, &s.EndsAt,
		&s.PayerEmail, &s.GatewayCustomerCode, &s.GatewayAuthorizationCode, &s.CardLast4, &s.CardBrand,
		&s.CreatedAt, &s.UpdatedAt,
	}
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id string) (billing.Subscription, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`

	var s billing.Subscription
	err := q.QueryRow(ctx, query, id).Scan(scanSubscriptionFields(&s)...)
	return s, err
}

func (r *subscriptionRepository) GetByChurchID(ctx context.Context, churchID string) (billing.Subscription, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE church_id = $1`

	var s billing.Subscription
	err := q.QueryRow(ctx, query, churchID).Scan(scanSubscriptionFields(&s)...)
	return s, err
}

func (r *subscriptionRepository) GetByChurchIDWithCatalog(ctx context.Context, churchID string) (billing.Subscription, error) {
	s, err := r.GetByChurchID(ctx, churchID)
	if err != nil {
		return billing.Subscription{}, err
	}

	q := GetQuerier(ctx, r.db)

	tierQuery := `SELECT ` + tierColumns + ` FROM pricing_tiers WHERE id = $1`
	var t catalog.PricingTier
	err = q.QueryRow(ctx, tierQuery, s.TierID).Scan(
		&t.ID, &t.Name, &t.MinMembers, &t.MaxMembers,
		&t.MonthlyPriceUSD, &t.QuarterlyPriceUSD, &t.BiannualPriceUSD, &t.AnnualPriceUSD,
		&t.QuarterlyDiscountPct, &t.BiannualDiscountPct, &t.AnnualDiscountPct,
		&t.DisplayOrder, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return billing.Subscription{}, err
	}
	s.Tier = &t

	intervalQuery := `
		SELECT id, name, months, display_order, is_active, created_at
		FROM billing_intervals
		WHERE id = $1
	`
	var b catalog.BillingInterval
	err = q.QueryRow(ctx, intervalQuery, s.IntervalID).Scan(
		&b.ID, &b.Name, &b.Months, &b.DisplayOrder, &b.IsActive, &b.CreatedAt,
	)
	if err != nil {
		return billing.Subscription{}, err
	}
	s.Interval = &b

	return s, nil
}

func (r *subscriptionRepository) Create(ctx context.Context, s billing.Subscription) (billing.Subscription, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO subscriptions (church_id, tier_id, interval_id, status,
			current_period_start, current_period_end, next_billing_date, auto_renew,
			grace_period_days, promotional_credit_months,
			payer_email, gateway_customer_code, gateway_authorization_code, card_last4, card_brand)
		VALUES ($1, $2, $3, $4::subscription_status, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.ChurchID, s.TierID, s.IntervalID, string(s.Status),
		s.CurrentPeriodStart, s.CurrentPeriodEnd, s.NextBillingDate, s.AutoRenew,
		s.GracePeriodDays, s.PromotionalCreditMonths,
		s.PayerEmail, s.GatewayCustomerCode, s.GatewayAuthorizationCode, s.CardLast4, s.CardBrand,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	return s, err
}

func (r *subscriptionRepository) Update(ctx context.Context, s billing.Subscription) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE subscriptions
		SET tier_id = $2, interval_id = $3, status = $4::subscription_status,
			current_period_start = $5, current_period_end = $6, next_billing_date = $7, auto_renew = $8,
			grace_period_days = $9, failed_payment_attempts = $10, last_payment_error = $11,
			promotional_credit_months = $12, promotional_credit_note = $13,
			promotional_credit_granted_by = $14, promotional_credit_granted_at = $15,
			suspended_at = $16, data_retention_end_date = $17, deletion_warning_sent_at = $18,
			deletion_eligible_at = $19, retention_extension_days = $20, canceled_at = $21, ends_at = $22,
			payer_email = $23, gateway_customer_code = $24, gateway_authorization_code = $25, card_last4 = $26, card_brand = $27,
			updated_at = NOW()
		WHERE id = $1
	`

	_, err := q.Exec(ctx, query,
		s.ID, s.TierID, s.IntervalID, string(s.Status),
		s.CurrentPeriodStart, s.CurrentPeriodEnd, s.NextBillingDate, s.AutoRenew,
		s.GracePeriodDays, s.FailedPaymentAttempts, s.LastPaymentError,
		s.PromotionalCreditMonths, s.PromotionalCreditNote,
		s.PromotionalCreditGrantedBy, s.PromotionalCreditGrantedAt,
		s.SuspendedAt, s.DataRetentionEndDate, s.DeletionWarningSentAt,
		s.DeletionEligibleAt, s.RetentionExtensionDays, s.CanceledAt, s.EndsAt,
		s.PayerEmail, s.GatewayCustomerCode, s.GatewayAuthorizationCode, s.CardLast4, s.CardBrand,
	)
	return err
}

func (r *subscriptionRepository) UpdateStatus(ctx context.Context, id string, status billing.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE subscriptions SET status = $2::subscription_status, updated_at = NOW() WHERE id = $1`
	_, err := q.Exec(ctx, query, id, string(status))
	return err
}

func (r *subscriptionRepository) ListDueForRenewal(ctx context.Context, asOf time.Time) ([]billing.Subscription, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE status IN ('active', 'past_due') AND auto_renew = true AND next_billing_date <= $1
		ORDER BY next_billing_date
	`

	rows, err := q.Query(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.parseSubscriptionRows(rows)
}

func (r *subscriptionRepository) ListPastDue(ctx context.Context) ([]billing.Subscription, error) {
	return r.listByStatus(ctx, billing.StatusPastDue)
}

func (r *subscriptionRepository) ListSuspended(ctx context.Context) ([]billing.Subscription, error) {
	return r.listByStatus(ctx, billing.StatusSuspended)
}

func (r *subscriptionRepository) listByStatus(ctx context.Context, status billing.Status) ([]billing.Subscription, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE status = $1::subscription_status
		ORDER BY next_billing_date
	`

	rows, err := q.Query(ctx, query, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.parseSubscriptionRows(rows)
}

func (r *subscriptionRepository) CountByStatus(ctx context.Context) (map[billing.Status]int, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT status, COUNT(*) FROM subscriptions GROUP BY status`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[billing.Status]int)
	for rows.Next() {
		var status billing.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *subscriptionRepository) parseSubscriptionRows(rows pgx.Rows) ([]billing.Subscription, error) {
	var subs []billing.Subscription
	for rows.Next() {
		var s billing.Subscription
		if err := rows.Scan(scanSubscriptionFields(&s)...); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
