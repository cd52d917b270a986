package partnership

import "time"

// Code is a partnership code that grants explicit grace days to the
// subscription of whichever church redeems it
type Code struct {
	ID               string     `json:"id"`
	Code             string     `json:"code"`
	GracePeriodDays  int        `json:"grace_period_days"`
	Description      *string    `json:"description,omitempty"`
	IsActive         bool       `json:"is_active"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	MaxUses          *int       `json:"max_uses,omitempty"` // nil = unlimited
	MaxUsesPerChurch int        `json:"max_uses_per_church"`
	CurrentUses      int        `json:"current_uses"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsRedeemable checks whether the code can still be redeemed at all
// (per-church limits are checked separately against the usage log)
func (c *Code) IsRedeemable(today time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ExpiresAt != nil && today.After(*c.ExpiresAt) {
		return false
	}
	if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
		return false
	}
	return true
}

// Usage is one redemption of a code by a church
type Usage struct {
	ID         string    `json:"id"`
	CodeID     string    `json:"code_id"`
	ChurchID   string    `json:"church_id"`
	RedeemedAt time.Time `json:"redeemed_at"`
}
