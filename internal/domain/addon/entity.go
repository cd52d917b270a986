package addon

import (
	"time"

	"github.com/pastcare/pastcare-billing-go/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// OwnershipStatus represents the state of a purchased addon
type OwnershipStatus string

const (
	StatusActive    OwnershipStatus = "active"
	StatusCanceled  OwnershipStatus = "canceled"
	StatusSuspended OwnershipStatus = "suspended"
)

// Ownership records one church's purchase of a storage addon. The price
// is locked at purchase time; later catalog repricing never affects an
// existing ownership.
type Ownership struct {
	ID       string          `json:"id"`
	ChurchID string          `json:"church_id"`
	AddonID  string          `json:"addon_id"`
	Status   OwnershipStatus `json:"status"`

	PurchasePriceUSD  decimal.Decimal `json:"purchase_price_usd"`
	PurchaseReference string          `json:"purchase_reference"`

	IsProrated        bool             `json:"is_prorated"`
	ProratedAmountUSD *decimal.Decimal `json:"prorated_amount_usd,omitempty"`
	ProratedDays      *int             `json:"prorated_days,omitempty"`

	PurchasedAt        time.Time `json:"purchased_at"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	// NextRenewalDate is always kept equal to the owning subscription's
	// next billing date so one charge covers base plus addons.
	NextRenewalDate time.Time `json:"next_renewal_date"`

	CanceledAt   *time.Time `json:"canceled_at,omitempty"`
	CancelReason *string    `json:"cancel_reason,omitempty"`
	SuspendedAt  *time.Time `json:"suspended_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined data
	Addon *catalog.StorageAddon `json:"addon,omitempty"`
}

// IsUsable checks whether the addon still contributes storage: active,
// or canceled but inside its already-paid period
func (o *Ownership) IsUsable(today time.Time) bool {
	if o.Status == StatusActive {
		return true
	}
	return o.Status == StatusCanceled && !today.After(o.CurrentPeriodEnd)
}

// Daily-rate basis for addon proration. Addons are always monthly.
const prorationDays = 30

// Below this many days remaining the purchase is charged at full price
// and the paid period runs through the next full cycle instead.
const minProrationDays = 3

// ProratedCharge computes the first-cycle charge for an addon bought
// mid-period. The daily rate carries 4 decimal places and the final
// amount 2, both rounded half up.
func ProratedCharge(monthlyPriceUSD decimal.Decimal, daysRemaining int) decimal.Decimal {
	dailyRate := monthlyPriceUSD.DivRound(decimal.NewFromInt(prorationDays), 4)
	return dailyRate.Mul(decimal.NewFromInt(int64(daysRemaining))).Round(2)
}

// ShouldProrate checks whether a purchase so close to the next billing
// date should simply pay the full month instead
func ShouldProrate(daysRemaining int) bool {
	return daysRemaining >= minProrationDays
}
