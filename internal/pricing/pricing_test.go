package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"shelterstock/internal/core"
)

func TestDefaultResolverCoversAllTypes(t *testing.T) {
	r := DefaultResolver()
	for _, typ := range core.AllDonationTypes() {
		if r.UnitPrice(typ).IsNegative() {
			t.Fatalf("negative default price for %s", typ)
		}
	}
}

func TestValueOf(t *testing.T) {
	r := DefaultResolver()

	// MONEY is face value, the table never applies.
	v := r.ValueOf(core.Money, decimal.RequireFromString("250.75"))
	if !v.Equal(decimal.RequireFromString("250.75")) {
		t.Fatalf("money value got %s", v)
	}

	// FOOD defaults to 3.50 per unit.
	v = r.ValueOf(core.Food, decimal.NewFromInt(10))
	if !v.Equal(decimal.RequireFromString("35")) {
		t.Fatalf("food value got %s", v)
	}

	// Negative stock prices negative.
	v = r.ValueOf(core.Toys, decimal.NewFromInt(-10))
	if !v.Equal(decimal.NewFromInt(-120)) {
		t.Fatalf("negative stock value got %s", v)
	}
}

func TestNewResolverRejectsGapsAndNegatives(t *testing.T) {
	prices := make(map[core.DonationType]decimal.Decimal)
	for _, typ := range core.AllDonationTypes() {
		prices[typ] = decimal.NewFromInt(1)
	}

	delete(prices, core.Books)
	if _, err := NewResolver(prices); err == nil {
		t.Fatalf("expected error for missing type")
	}

	prices[core.Books] = decimal.NewFromInt(-1)
	if _, err := NewResolver(prices); err == nil {
		t.Fatalf("expected error for negative price")
	}
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.json")
	if err := os.WriteFile(path, []byte(`{"FOOD": "2", "toys": 20}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !r.UnitPrice(core.Food).Equal(decimal.NewFromInt(2)) {
		t.Fatalf("food override got %s", r.UnitPrice(core.Food))
	}
	if !r.UnitPrice(core.Toys).Equal(decimal.NewFromInt(20)) {
		t.Fatalf("toys override got %s", r.UnitPrice(core.Toys))
	}
	// Untouched entries keep defaults.
	if !r.UnitPrice(core.Medicine).Equal(decimal.NewFromInt(15)) {
		t.Fatalf("medicine default got %s", r.UnitPrice(core.Medicine))
	}
}

func TestLoadFileRejectsUnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.json")
	if err := os.WriteFile(path, []byte(`{"GOLD": "99"}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
