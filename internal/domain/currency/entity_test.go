package currency

import (
	"testing"

	"github.com/shopspring/decimal"
)

func usd(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSnapshotToDisplay(t *testing.T) {
	snap := Snapshot{
		BaseCurrency:    "USD",
		DisplayCurrency: "GHS",
		Rate:            usd("15.50"),
		Version:         3,
	}

	tests := []struct {
		name string
		base string
		want string
	}{
		{"whole amount", "9.00", "139.50"},
		{"fractional amount rounds half up", "9.99", "154.85"}, // 154.845
		{"zero", "0.00", "0.00"},
		{"annual price", "86.40", "1339.20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := snap.ToDisplay(usd(tt.base))
			if !got.Equal(usd(tt.want)) {
				t.Errorf("ToDisplay(%s) = %s, want %s", tt.base, got, tt.want)
			}
		})
	}
}

func TestSnapshotToBase(t *testing.T) {
	snap := Snapshot{Rate: usd("15.50")}

	tests := []struct {
		name    string
		display string
		want    string
	}{
		{"round trip of whole amount", "139.50", "9.00"},
		{"rounds to 2 decimal places", "100.00", "6.45"}, // 6.4516...
		{"zero", "0.00", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := snap.ToBase(usd(tt.display))
			if !got.Equal(usd(tt.want)) {
				t.Errorf("ToBase(%s) = %s, want %s", tt.display, got, tt.want)
			}
		})
	}
}

func TestSettingsSnapshot(t *testing.T) {
	prev := usd("14.75")
	settings := &Settings{
		ID:              "cs-1",
		BaseCurrency:    "USD",
		DisplayCurrency: "GHS",
		ExchangeRate:    usd("15.50"),
		PreviousRate:    &prev,
		Version:         7,
	}

	snap := settings.Snapshot()

	if snap.BaseCurrency != "USD" || snap.DisplayCurrency != "GHS" {
		t.Errorf("snapshot currencies = %s/%s, want USD/GHS", snap.BaseCurrency, snap.DisplayCurrency)
	}
	if !snap.Rate.Equal(usd("15.50")) {
		t.Errorf("snapshot rate = %s, want 15.50", snap.Rate)
	}
	if snap.Version != 7 {
		t.Errorf("snapshot version = %d, want 7", snap.Version)
	}

	// Mutating the settings afterwards must not affect the snapshot.
	settings.ExchangeRate = usd("16.00")
	settings.Version = 8
	if !snap.Rate.Equal(usd("15.50")) || snap.Version != 7 {
		t.Error("snapshot changed after settings were updated")
	}
}
