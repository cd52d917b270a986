package addon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func usd(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestProratedCharge(t *testing.T) {
	cases := []struct {
		name          string
		monthlyPrice  string
		daysRemaining int
		want          string
	}{
		{"ten of thirty days", "6.00", 10, "2.00"},
		{"half period", "10.00", 15, "5.00"},
		{"full period", "6.00", 30, "6.00"},
		{"rounding", "10.00", 7, "2.33"}, // 0.3333 * 7 = 2.3331
		// Longer intervals keep the daily rate running past one month so
		// the charge covers every day until the aligned renewal
		{"quarterly distance", "6.00", 75, "15.00"},
		{"annual distance", "6.00", 200, "40.00"},
	}

	for _, c := range cases {
		got := ProratedCharge(usd(c.monthlyPrice), c.daysRemaining)
		if !got.Equal(usd(c.want)) {
			t.Errorf("%s: ProratedCharge(%s, %d) = %s, want %s",
				c.name, c.monthlyPrice, c.daysRemaining, got, c.want)
		}
	}
}

func TestShouldProrate(t *testing.T) {
	if ShouldProrate(2) {
		t.Error("2 days remaining is below the proration floor")
	}
	if !ShouldProrate(3) {
		t.Error("3 days remaining still prorates")
	}
	if !ShouldProrate(29) {
		t.Error("29 days remaining prorates")
	}
}

func TestIsUsable(t *testing.T) {
	periodEnd := date(2025, 6, 30)

	active := Ownership{Status: StatusActive, CurrentPeriodEnd: periodEnd}
	if !active.IsUsable(date(2025, 7, 15)) {
		t.Error("active addon is always usable")
	}

	// Canceled keeps its storage through the already-paid period
	canceled := Ownership{Status: StatusCanceled, CurrentPeriodEnd: periodEnd}
	if !canceled.IsUsable(date(2025, 6, 30)) {
		t.Error("canceled addon is usable through the period end")
	}
	if canceled.IsUsable(date(2025, 7, 1)) {
		t.Error("canceled addon stops contributing after the period end")
	}

	suspended := Ownership{Status: StatusSuspended, CurrentPeriodEnd: periodEnd}
	if suspended.IsUsable(date(2025, 6, 15)) {
		t.Error("suspended addon contributes no storage")
	}
}
