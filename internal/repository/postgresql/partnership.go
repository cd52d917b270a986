package postgresql

import (
	"context"

	"github.com/pastcare/pastcare-billing-go/internal/domain/partnership"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/database"
)

// ==================== Partnership Code Repository ====================

type partnershipRepository struct {
	db *database.DB
}

func NewPartnershipRepository(db *database.DB) partnership.CodeRepository {
	return &partnershipRepository{db: db}
}

const codeColumns = `
	id, code, grace_period_days, description, is_active, expires_at,
	max_uses, max_uses_per_church, current_uses, created_at, updated_at
`

func (r *partnershipRepository) GetByCode(ctx context.Context, code string) (partnership.Code, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + codeColumns + ` FROM partnership_codes WHERE code = $1`

	var c partnership.Code
	err := q.QueryRow(ctx, query, code).Scan(
		&c.ID, &c.Code, &c.GracePeriodDays, &c.Description, &c.IsActive, &c.ExpiresAt,
		&c.MaxUses, &c.MaxUsesPerChurch, &c.CurrentUses, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *partnershipRepository) ListActive(ctx context.Context) ([]partnership.Code, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + codeColumns + ` FROM partnership_codes WHERE is_active = true ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []partnership.Code
	for rows.Next() {
		var c partnership.Code
		if err := rows.Scan(
			&c.ID, &c.Code, &c.GracePeriodDays, &c.Description, &c.IsActive, &c.ExpiresAt,
			&c.MaxUses, &c.MaxUsesPerChurch, &c.CurrentUses, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

func (r *partnershipRepository) CountUsagesByChurch(ctx context.Context, codeID, churchID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM partnership_code_usages WHERE code_id = $1 AND church_id = $2`

	var count int
	err := q.QueryRow(ctx, query, codeID, churchID).Scan(&count)
	return count, err
}

func (r *partnershipRepository) RecordUsage(ctx context.Context, usage partnership.Usage) error {
	q := GetQuerier(ctx, r.db)

	// The (code_id, church_id, redeemed_at) insert races are resolved by
	// the table's unique constraint; the loser gets a constraint error.
	insertQuery := `
		INSERT INTO partnership_code_usages (code_id, church_id, redeemed_at)
		VALUES ($1, $2, $3)
	`
	if _, err := q.Exec(ctx, insertQuery, usage.CodeID, usage.ChurchID, usage.RedeemedAt); err != nil {
		return err
	}

	bumpQuery := `UPDATE partnership_codes SET current_uses = current_uses + 1, updated_at = NOW() WHERE id = $1`
	_, err := q.Exec(ctx, bumpQuery, usage.CodeID)
	return err
}
