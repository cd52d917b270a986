package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/pastcare/pastcare-billing-go/internal/config"
	"github.com/pastcare/pastcare-billing-go/internal/fixtures"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/database"
)

// Seeds the pricing catalog and currency settings. Safe to run more
// than once; existing rows are left alone.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := seed(ctx, db); err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Seeding complete")
}

func seed(ctx context.Context, db *database.DB) error {
	for _, interval := range fixtures.GetDefaultIntervals() {
		_, err := db.Exec(ctx, `
			INSERT INTO billing_intervals (name, months, display_order, is_active)
			VALUES ($1::billing_interval_name, $2, $3, $4)
			ON CONFLICT (name) DO NOTHING
		`, interval.Name, interval.Months, interval.DisplayOrder, interval.IsActive)
		if err != nil {
			return err
		}
	}

	for _, tier := range fixtures.GetDefaultTiers() {
		_, err := db.Exec(ctx, `
			INSERT INTO pricing_tiers (
				name, min_members, max_members,
				monthly_price_usd, quarterly_price_usd, biannual_price_usd, annual_price_usd,
				quarterly_discount_pct, biannual_discount_pct, annual_discount_pct,
				display_order, is_active
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (name) DO NOTHING
		`,
			tier.Name, tier.MinMembers, tier.MaxMembers,
			tier.MonthlyPriceUSD, tier.QuarterlyPriceUSD, tier.BiannualPriceUSD, tier.AnnualPriceUSD,
			tier.QuarterlyDiscountPct, tier.BiannualDiscountPct, tier.AnnualDiscountPct,
			tier.DisplayOrder, tier.IsActive,
		)
		if err != nil {
			return err
		}
	}

	for _, addon := range fixtures.GetDefaultStorageAddons() {
		_, err := db.Exec(ctx, `
			INSERT INTO storage_addons (name, storage_gb, monthly_price_usd, display_order, is_active)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (name) DO NOTHING
		`, addon.Name, addon.StorageGB, addon.MonthlyPriceUSD, addon.DisplayOrder, addon.IsActive)
		if err != nil {
			return err
		}
	}

	// Singleton row; the live rate is set by operators afterwards
	settings := fixtures.GetDefaultCurrencySettings()
	_, err := db.Exec(ctx, `
		INSERT INTO currency_settings (base_currency, display_currency, exchange_rate, version)
		SELECT $1, $2, $3, $4
		WHERE NOT EXISTS (SELECT 1 FROM currency_settings)
	`, settings.BaseCurrency, settings.DisplayCurrency, settings.ExchangeRate, settings.Version)
	return err
}
