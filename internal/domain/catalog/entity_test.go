package catalog

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func usd(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(v int) *int {
	return &v
}

func starterTier() *PricingTier {
	return &PricingTier{
		ID:                "tier-starter",
		Name:              "Starter",
		MinMembers:        1,
		MaxMembers:        intPtr(100),
		MonthlyPriceUSD:   usd("9.00"),
		QuarterlyPriceUSD: usd("24.30"),
		BiannualPriceUSD:  usd("45.90"),
		AnnualPriceUSD:    usd("86.40"),

		QuarterlyDiscountPct: usd("10"),
		BiannualDiscountPct:  usd("15"),
		AnnualDiscountPct:    usd("20"),
	}
}

func TestTierCovers(t *testing.T) {
	tests := []struct {
		name        string
		minMembers  int
		maxMembers  *int
		memberCount int
		want        bool
	}{
		{"below minimum", 101, intPtr(300), 100, false},
		{"at minimum", 101, intPtr(300), 101, true},
		{"inside range", 101, intPtr(300), 200, true},
		{"at maximum", 101, intPtr(300), 300, true},
		{"above maximum", 101, intPtr(300), 301, false},
		{"unbounded tier covers any size above minimum", 751, nil, 50000, true},
		{"unbounded tier still enforces minimum", 751, nil, 750, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := &PricingTier{MinMembers: tt.minMembers, MaxMembers: tt.maxMembers}
			if got := tier.Covers(tt.memberCount); got != tt.want {
				t.Errorf("Covers(%d) = %v, want %v", tt.memberCount, got, tt.want)
			}
		})
	}
}

func TestPriceForInterval(t *testing.T) {
	tier := starterTier()

	tests := []struct {
		interval IntervalName
		want     string
	}{
		{IntervalMonthly, "9.00"},
		{IntervalQuarterly, "24.30"},
		{IntervalBiannual, "45.90"},
		{IntervalAnnual, "86.40"},
	}

	for _, tt := range tests {
		t.Run(string(tt.interval), func(t *testing.T) {
			got, err := tier.PriceForInterval(tt.interval)
			if err != nil {
				t.Fatalf("PriceForInterval(%s) error = %v", tt.interval, err)
			}
			if !got.Equal(usd(tt.want)) {
				t.Errorf("PriceForInterval(%s) = %s, want %s", tt.interval, got, tt.want)
			}
		})
	}

	_, err := tier.PriceForInterval("weekly")
	if !errors.Is(err, ErrUnknownInterval) {
		t.Errorf("PriceForInterval(weekly) error = %v, want ErrUnknownInterval", err)
	}
}

func TestDiscountForInterval(t *testing.T) {
	tier := starterTier()

	tests := []struct {
		interval IntervalName
		want     string
	}{
		{IntervalMonthly, "0"},
		{IntervalQuarterly, "10"},
		{IntervalBiannual, "15"},
		{IntervalAnnual, "20"},
	}

	for _, tt := range tests {
		t.Run(string(tt.interval), func(t *testing.T) {
			got, err := tier.DiscountForInterval(tt.interval)
			if err != nil {
				t.Fatalf("DiscountForInterval(%s) error = %v", tt.interval, err)
			}
			if !got.Equal(usd(tt.want)) {
				t.Errorf("DiscountForInterval(%s) = %s, want %s", tt.interval, got, tt.want)
			}
		})
	}

	_, err := tier.DiscountForInterval("weekly")
	if !errors.Is(err, ErrUnknownInterval) {
		t.Errorf("DiscountForInterval(weekly) error = %v, want ErrUnknownInterval", err)
	}
}

func TestSavings(t *testing.T) {
	tier := starterTier()

	tests := []struct {
		name     string
		interval BillingInterval
		want     string
	}{
		{"monthly has no savings", BillingInterval{Name: IntervalMonthly, Months: 1}, "0.00"},
		{"quarterly saves 10%", BillingInterval{Name: IntervalQuarterly, Months: 3}, "2.70"},
		{"biannual saves 15%", BillingInterval{Name: IntervalBiannual, Months: 6}, "8.10"},
		{"annual saves 20%", BillingInterval{Name: IntervalAnnual, Months: 12}, "21.60"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tier.Savings(tt.interval)
			if err != nil {
				t.Fatalf("Savings(%s) error = %v", tt.interval.Name, err)
			}
			if !got.Equal(usd(tt.want)) {
				t.Errorf("Savings(%s) = %s, want %s", tt.interval.Name, got, tt.want)
			}
		})
	}

	_, err := tier.Savings(BillingInterval{Name: "weekly", Months: 0})
	if !errors.Is(err, ErrUnknownInterval) {
		t.Errorf("Savings(weekly) error = %v, want ErrUnknownInterval", err)
	}
}

func TestIntervalsPerYear(t *testing.T) {
	tests := []struct {
		name   string
		months int
		want   int
	}{
		{"monthly", 1, 12},
		{"quarterly", 3, 4},
		{"biannual", 6, 2},
		{"annual", 12, 1},
		{"zero months", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interval := &BillingInterval{Months: tt.months}
			if got := interval.IntervalsPerYear(); got != tt.want {
				t.Errorf("IntervalsPerYear() = %d, want %d", got, tt.want)
			}
		})
	}
}
