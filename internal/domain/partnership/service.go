package partnership

import "context"

// PartnershipService handles partnership code validation and redemption
type PartnershipService interface {
	// Validate checks a code without redeeming it
	Validate(ctx context.Context, code string) (CodeResponse, error)

	// Redeem grants the code's grace days to the church's subscription.
	// Each church can redeem a given code at most once (or up to the
	// code's per-church limit).
	Redeem(ctx context.Context, churchID string, req RedeemRequest) (RedeemResponse, error)
}
