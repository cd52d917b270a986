package fixtures

import (
	"github.com/pastcare/pastcare-billing-go/internal/domain/catalog"
	"github.com/pastcare/pastcare-billing-go/internal/domain/currency"
	"github.com/shopspring/decimal"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func intPtr(i int) *int { return &i }

func usd(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ==========================================
// DEFAULT BILLING INTERVALS
// ==========================================

// GetDefaultIntervals returns the four supported billing cadences
func GetDefaultIntervals() []catalog.BillingInterval {
	return []catalog.BillingInterval{
		{Name: catalog.IntervalMonthly, Months: 1, DisplayOrder: 1, IsActive: true},
		{Name: catalog.IntervalQuarterly, Months: 3, DisplayOrder: 2, IsActive: true},
		{Name: catalog.IntervalBiannual, Months: 6, DisplayOrder: 3, IsActive: true},
		{Name: catalog.IntervalAnnual, Months: 12, DisplayOrder: 4, IsActive: true},
	}
}

// ==========================================
// DEFAULT PRICING TIERS
// ==========================================

// GetDefaultTiers returns the published congregation-size price book.
// Ranges partition member counts with no gaps; only the top tier is
// unbounded. Longer intervals carry 10/15/20 percent discounts off the
// monthly-equivalent total.
func GetDefaultTiers() []catalog.PricingTier {
	return []catalog.PricingTier{
		{
			Name:       "Starter",
			MinMembers: 1,
			MaxMembers: intPtr(100),

			MonthlyPriceUSD:   usd("9.00"),
			QuarterlyPriceUSD: usd("24.30"),
			BiannualPriceUSD:  usd("45.90"),
			AnnualPriceUSD:    usd("86.40"),

			QuarterlyDiscountPct: usd("10"),
			BiannualDiscountPct:  usd("15"),
			AnnualDiscountPct:    usd("20"),

			DisplayOrder: 1,
			IsActive:     true,
		},
		{
			Name:       "Growing",
			MinMembers: 101,
			MaxMembers: intPtr(300),

			MonthlyPriceUSD:   usd("19.00"),
			QuarterlyPriceUSD: usd("51.30"),
			BiannualPriceUSD:  usd("96.90"),
			AnnualPriceUSD:    usd("182.40"),

			QuarterlyDiscountPct: usd("10"),
			BiannualDiscountPct:  usd("15"),
			AnnualDiscountPct:    usd("20"),

			DisplayOrder: 2,
			IsActive:     true,
		},
		{
			Name:       "Established",
			MinMembers: 301,
			MaxMembers: intPtr(750),

			MonthlyPriceUSD:   usd("39.00"),
			QuarterlyPriceUSD: usd("105.30"),
			BiannualPriceUSD:  usd("198.90"),
			AnnualPriceUSD:    usd("374.40"),

			QuarterlyDiscountPct: usd("10"),
			BiannualDiscountPct:  usd("15"),
			AnnualDiscountPct:    usd("20"),

			DisplayOrder: 3,
			IsActive:     true,
		},
		{
			Name:       "Multiplying",
			MinMembers: 751,
			MaxMembers: nil, // unbounded top tier

			MonthlyPriceUSD:   usd("69.00"),
			QuarterlyPriceUSD: usd("186.30"),
			BiannualPriceUSD:  usd("351.90"),
			AnnualPriceUSD:    usd("662.40"),

			QuarterlyDiscountPct: usd("10"),
			BiannualDiscountPct:  usd("15"),
			AnnualDiscountPct:    usd("20"),

			DisplayOrder: 4,
			IsActive:     true,
		},
	}
}

// ==========================================
// DEFAULT STORAGE ADDONS
// ==========================================

// GetDefaultStorageAddons returns the purchasable storage blocks
func GetDefaultStorageAddons() []catalog.StorageAddon {
	return []catalog.StorageAddon{
		{Name: "10 GB Storage", StorageGB: 10, MonthlyPriceUSD: usd("3.00"), DisplayOrder: 1, IsActive: true},
		{Name: "25 GB Storage", StorageGB: 25, MonthlyPriceUSD: usd("6.00"), DisplayOrder: 2, IsActive: true},
		{Name: "100 GB Storage", StorageGB: 100, MonthlyPriceUSD: usd("18.00"), DisplayOrder: 3, IsActive: true},
	}
}

// ==========================================
// DEFAULT CURRENCY SETTINGS
// ==========================================

// GetDefaultCurrencySettings returns the initial USD to GHS conversion
// settings. The rate is a placeholder; operators set the live rate
// before launch.
func GetDefaultCurrencySettings() currency.Settings {
	return currency.Settings{
		BaseCurrency:    "USD",
		DisplayCurrency: "GHS",
		ExchangeRate:    usd("15.50"),
		Version:         1,
	}
}
