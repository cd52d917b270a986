package tierchange

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func usd(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateMidPeriodUpgrade(t *testing.T) {
	// 30-day period, 15 days remaining, $10/mo -> $20/mo
	today := date(2025, 6, 16)
	nextBilling := date(2025, 7, 1)

	calc := Calculate(usd("10.00"), usd("20.00"), 1, today, nextBilling)

	if calc.PeriodLengthDays != 30 {
		t.Errorf("PeriodLengthDays = %d, want 30", calc.PeriodLengthDays)
	}
	if calc.DaysRemaining != 15 {
		t.Errorf("DaysRemaining = %d, want 15", calc.DaysRemaining)
	}
	if calc.DaysUsed != 15 {
		t.Errorf("DaysUsed = %d, want 15", calc.DaysUsed)
	}
	if !calc.CreditUSD.Equal(usd("5.00")) {
		t.Errorf("CreditUSD = %s, want 5.00", calc.CreditUSD)
	}
	if !calc.ChargeUSD.Equal(usd("10.00")) {
		t.Errorf("ChargeUSD = %s, want 10.00", calc.ChargeUSD)
	}
	if !calc.NetChargeUSD.Equal(usd("5.00")) {
		t.Errorf("NetChargeUSD = %s, want 5.00", calc.NetChargeUSD)
	}
}

func TestCalculateDowngradeYieldsNegativeNet(t *testing.T) {
	calc := Calculate(usd("20.00"), usd("10.00"), 1, date(2025, 6, 16), date(2025, 7, 1))

	if !calc.NetChargeUSD.Equal(usd("-5.00")) {
		t.Errorf("NetChargeUSD = %s, want -5.00", calc.NetChargeUSD)
	}
	if calc.NetChargeUSD.IsPositive() {
		t.Error("downgrade must never produce a positive charge")
	}
}

func TestCalculateSpreadsOverOldPeriodLength(t *testing.T) {
	// Quarterly subscriber 45 days from renewal. Rates spread over the
	// old 90-day period regardless of the interval being switched to.
	calc := Calculate(usd("27.00"), usd("54.00"), 3, date(2025, 6, 1), date(2025, 7, 16))

	if calc.PeriodLengthDays != 90 {
		t.Errorf("PeriodLengthDays = %d, want 90", calc.PeriodLengthDays)
	}
	if calc.DaysRemaining != 45 {
		t.Errorf("DaysRemaining = %d, want 45", calc.DaysRemaining)
	}
	// 27/90 = 0.3000 daily, 54/90 = 0.6000 daily
	if !calc.CreditUSD.Equal(usd("13.50")) {
		t.Errorf("CreditUSD = %s, want 13.50", calc.CreditUSD)
	}
	if !calc.ChargeUSD.Equal(usd("27.00")) {
		t.Errorf("ChargeUSD = %s, want 27.00", calc.ChargeUSD)
	}
}

func TestCalculateRounding(t *testing.T) {
	// 10/30 = 0.3333 daily rate, 7 days -> 2.3331 -> 2.33
	calc := Calculate(usd("10.00"), usd("10.00"), 1, date(2025, 6, 24), date(2025, 7, 1))

	if !calc.OldDailyRateUSD.Equal(usd("0.3333")) {
		t.Errorf("OldDailyRateUSD = %s, want 0.3333", calc.OldDailyRateUSD)
	}
	if !calc.CreditUSD.Equal(usd("2.33")) {
		t.Errorf("CreditUSD = %s, want 2.33", calc.CreditUSD)
	}
	if !calc.NetChargeUSD.IsZero() {
		t.Errorf("NetChargeUSD = %s, want 0", calc.NetChargeUSD)
	}
}

func TestCalculateClampsDaysRemaining(t *testing.T) {
	// Renewal date already passed
	overdue := Calculate(usd("10.00"), usd("20.00"), 1, date(2025, 7, 5), date(2025, 7, 1))
	if overdue.DaysRemaining != 0 {
		t.Errorf("overdue DaysRemaining = %d, want 0", overdue.DaysRemaining)
	}
	if !overdue.NetChargeUSD.IsZero() {
		t.Errorf("overdue NetChargeUSD = %s, want 0", overdue.NetChargeUSD)
	}

	// Renewal date further out than the period length
	far := Calculate(usd("10.00"), usd("20.00"), 1, date(2025, 6, 1), date(2025, 8, 1))
	if far.DaysRemaining != 30 {
		t.Errorf("far DaysRemaining = %d, want clamp to 30", far.DaysRemaining)
	}
	if far.DaysUsed != 0 {
		t.Errorf("far DaysUsed = %d, want 0", far.DaysUsed)
	}
}

func TestDetectChangeType(t *testing.T) {
	cases := []struct {
		name                     string
		oldTier, newTier         string
		oldInterval, newInterval string
		want                     ChangeType
	}{
		{"tier only", "t1", "t2", "i1", "i1", ChangeTypeTier},
		{"interval only", "t1", "t1", "i1", "i2", ChangeTypeInterval},
		{"both", "t1", "t2", "i1", "i2", ChangeTypeCombined},
	}

	for _, c := range cases {
		got := DetectChangeType(c.oldTier, c.newTier, c.oldInterval, c.newInterval)
		if got != c.want {
			t.Errorf("%s: DetectChangeType = %q, want %q", c.name, got, c.want)
		}
	}
}
