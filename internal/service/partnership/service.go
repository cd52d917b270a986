package partnership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pastcare/pastcare-billing-go/internal/domain/billing"
	"github.com/pastcare/pastcare-billing-go/internal/domain/partnership"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/database"
	"github.com/pastcare/pastcare-billing-go/internal/repository/postgresql"
)

type partnershipService struct {
	codeRepo         partnership.CodeRepository
	subscriptionRepo billing.SubscriptionRepository
	db               *database.DB
}

func NewPartnershipService(
	codeRepo partnership.CodeRepository,
	subscriptionRepo billing.SubscriptionRepository,
	db *database.DB,
) partnership.PartnershipService {
	return &partnershipService{
		codeRepo:         codeRepo,
		subscriptionRepo: subscriptionRepo,
		db:               db,
	}
}

func (s *partnershipService) Validate(ctx context.Context, code string) (partnership.CodeResponse, error) {
	c, err := s.getRedeemableCode(ctx, code)
	if err != nil {
		return partnership.CodeResponse{}, err
	}
	return toCodeResponse(c), nil
}

func (s *partnershipService) Redeem(ctx context.Context, churchID string, req partnership.RedeemRequest) (partnership.RedeemResponse, error) {
	if err := req.Validate(); err != nil {
		return partnership.RedeemResponse{}, err
	}

	code, err := s.getRedeemableCode(ctx, req.Code)
	if err != nil {
		return partnership.RedeemResponse{}, err
	}

	usages, err := s.codeRepo.CountUsagesByChurch(ctx, code.ID, churchID)
	if err != nil {
		return partnership.RedeemResponse{}, fmt.Errorf("count code usages: %w", err)
	}
	if usages >= code.MaxUsesPerChurch {
		return partnership.RedeemResponse{}, partnership.ErrCodeAlreadyRedeemed
	}

	sub, err := s.subscriptionRepo.GetByChurchID(ctx, churchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return partnership.RedeemResponse{}, billing.ErrSubscriptionNotFound
		}
		return partnership.RedeemResponse{}, fmt.Errorf("get subscription: %w", err)
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		usage := partnership.Usage{
			CodeID:     code.ID,
			ChurchID:   churchID,
			RedeemedAt: time.Now(),
		}
		if err := s.codeRepo.RecordUsage(txCtx, usage); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return partnership.ErrCodeAlreadyRedeemed
			}
			return fmt.Errorf("record code usage: %w", err)
		}

		sub.GracePeriodDays += code.GracePeriodDays
		if err := s.subscriptionRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("update subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return partnership.RedeemResponse{}, err
	}

	return partnership.RedeemResponse{
		Code:             code.Code,
		GraceDaysGranted: code.GracePeriodDays,
		TotalGraceDays:   sub.GracePeriodDays,
	}, nil
}

func (s *partnershipService) getRedeemableCode(ctx context.Context, code string) (partnership.Code, error) {
	c, err := s.codeRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return partnership.Code{}, partnership.ErrCodeNotFound
		}
		return partnership.Code{}, fmt.Errorf("get code: %w", err)
	}

	now := time.Now()
	if !c.IsActive {
		return partnership.Code{}, partnership.ErrCodeInactive
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return partnership.Code{}, partnership.ErrCodeExpired
	}
	if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
		return partnership.Code{}, partnership.ErrCodeExhausted
	}
	return c, nil
}

func toCodeResponse(c partnership.Code) partnership.CodeResponse {
	resp := partnership.CodeResponse{
		Code:            c.Code,
		GracePeriodDays: c.GracePeriodDays,
		Description:     c.Description,
	}
	if c.ExpiresAt != nil {
		expires := c.ExpiresAt.Format(time.RFC3339)
		resp.ExpiresAt = &expires
	}
	if c.MaxUses != nil {
		left := *c.MaxUses - c.CurrentUses
		if left < 0 {
			left = 0
		}
		resp.UsesLeft = &left
	}
	return resp
}
