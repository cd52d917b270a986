package tierchange

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period lengths use a flat 30 days per month so quarterly, biannual and
// annual periods prorate on the same basis as monthly ones.
const daysPerMonth = 30

// Calculation is the pure arithmetic of one mid-period change: credit
// back the unused slice of the old plan, charge the remaining days at
// the new plan's rate.
type Calculation struct {
	PeriodLengthDays int `json:"period_length_days"`
	DaysUsed         int `json:"days_used"`
	DaysRemaining    int `json:"days_remaining"`

	OldDailyRateUSD decimal.Decimal `json:"old_daily_rate_usd"`
	NewDailyRateUSD decimal.Decimal `json:"new_daily_rate_usd"`
	CreditUSD       decimal.Decimal `json:"credit_usd"`
	ChargeUSD       decimal.Decimal `json:"charge_usd"`
	// NetChargeUSD is negative on downgrades; the surplus is recorded as
	// a credit, never auto-refunded.
	NetChargeUSD decimal.Decimal `json:"net_charge_usd"`
}

// Calculate prorates a mid-period change. Both daily rates are spread
// over the OLD period's length: the new interval only takes effect from
// the next renewal, so the remaining days still live inside the old
// period. Daily rates carry 4 decimal places, amounts 2, rounded half up.
func Calculate(oldPriceUSD, newPriceUSD decimal.Decimal, oldIntervalMonths int, today, nextBillingDate time.Time) Calculation {
	periodLength := oldIntervalMonths * daysPerMonth

	daysRemaining := daysBetween(today, nextBillingDate)
	if daysRemaining < 0 {
		daysRemaining = 0
	}
	if daysRemaining > periodLength {
		daysRemaining = periodLength
	}
	daysUsed := periodLength - daysRemaining

	periodDec := decimal.NewFromInt(int64(periodLength))
	oldDaily := oldPriceUSD.DivRound(periodDec, 4)
	newDaily := newPriceUSD.DivRound(periodDec, 4)

	remainingDec := decimal.NewFromInt(int64(daysRemaining))
	credit := oldDaily.Mul(remainingDec).Round(2)
	charge := newDaily.Mul(remainingDec).Round(2)

	return Calculation{
		PeriodLengthDays: periodLength,
		DaysUsed:         daysUsed,
		DaysRemaining:    daysRemaining,
		OldDailyRateUSD:  oldDaily,
		NewDailyRateUSD:  newDaily,
		CreditUSD:        credit,
		ChargeUSD:        charge,
		NetChargeUSD:     charge.Sub(credit),
	}
}

// daysBetween counts whole calendar days from one date to another,
// ignoring the time of day
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
