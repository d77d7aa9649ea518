// Package pricing maps (donation type, quantity) pairs to monetary value.
//
// Unit prices are configuration, not observed data: the browser client only
// ever displays server-computed totals, so the table ships with documented
// defaults and can be overridden by a JSON file. MONEY is always valued at
// face amount regardless of the table.
package pricing

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"shelterstock/internal/core"
)

// defaultUnitPrices is the shipped valuation table, in currency units per
// donated unit. Override any entry via PRICING_FILE.
var defaultUnitPrices = map[core.DonationType]string{
	core.Money:           "1",
	core.Food:            "3.50",
	core.Clothing:        "8",
	core.Medicine:        "15",
	core.Blankets:        "10",
	core.Toys:            "12",
	core.Books:           "4",
	core.Furniture:       "60",
	core.HygieneProducts: "5",
	core.Other:           "1",
}

// Resolver is a pure, total valuation function over the donation type enum.
type Resolver struct {
	prices map[core.DonationType]decimal.Decimal
}

// NewResolver builds a resolver from an explicit price table. Every
// donation type must be present with a non-negative price; gaps are a
// configuration error, caught here rather than at query time.
func NewResolver(prices map[core.DonationType]decimal.Decimal) (*Resolver, error) {
	table := make(map[core.DonationType]decimal.Decimal, len(prices))
	for _, t := range core.AllDonationTypes() {
		p, ok := prices[t]
		if !ok {
			return nil, fmt.Errorf("pricing table missing donation type %s", t)
		}
		if p.IsNegative() {
			return nil, fmt.Errorf("negative unit price %s for donation type %s", p, t)
		}
		table[t] = p
	}
	for t := range prices {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("pricing table entry %q: %w", t, err)
		}
	}
	return &Resolver{prices: table}, nil
}

// DefaultResolver returns a resolver over the shipped default table.
func DefaultResolver() *Resolver {
	prices := make(map[core.DonationType]decimal.Decimal, len(defaultUnitPrices))
	for t, s := range defaultUnitPrices {
		prices[t] = decimal.RequireFromString(s)
	}
	r, err := NewResolver(prices)
	if err != nil {
		// The default table is a compile-time constant covering the enum.
		panic(fmt.Sprintf("invalid default pricing table: %v", err))
	}
	return r
}

// LoadFile reads a JSON price table, e.g. {"FOOD": "3.50", "TOYS": 12}.
// Entries overlay the defaults, so a partial file is valid.
func LoadFile(path string) (*Resolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pricing file: %w", err)
	}

	var raw map[string]decimal.Decimal
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse pricing file %s: %w", path, err)
	}

	prices := DefaultResolver().prices
	for name, price := range raw {
		t, err := core.ParseDonationType(name)
		if err != nil {
			return nil, fmt.Errorf("pricing file entry %q: %w", name, err)
		}
		prices[t] = price
	}
	return NewResolver(prices)
}

// UnitPrice returns the configured price for one unit of the type.
func (r *Resolver) UnitPrice(t core.DonationType) decimal.Decimal {
	return r.prices[t]
}

// ValueOf returns the monetary value of a quantity of the given type. For
// MONEY the quantity is already currency-denominated and returned as-is.
// Negative quantities yield negative values, which is how an
// over-distributed stock position is priced.
func (r *Resolver) ValueOf(t core.DonationType, quantity decimal.Decimal) decimal.Decimal {
	if t == core.Money {
		return quantity
	}
	return quantity.Mul(r.prices[t])
}
