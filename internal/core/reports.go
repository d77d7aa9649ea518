package core

import "github.com/shopspring/decimal"

// InventoryAggregate is the derived stock position for a single donation
// type. CurrentStock may be negative: an over-distribution is recorded and
// reported, never rejected.
type InventoryAggregate struct {
	DonationType     DonationType    `json:"donationType"`
	TotalDonated     decimal.Decimal `json:"totalDonated"`
	TotalDistributed decimal.Decimal `json:"totalDistributed"`
	CurrentStock     decimal.Decimal `json:"currentStock"`
}

// HasActivity reports whether any record of this type exists.
func (a InventoryAggregate) HasActivity() bool {
	return !a.TotalDonated.IsZero() || !a.TotalDistributed.IsZero()
}

// InventorySummary is the whole-system stock report. TotalValue is the
// valuation of what is on hand (current stock), not cumulative turnover.
type InventorySummary struct {
	Items         []InventoryAggregate `json:"items"`
	TotalQuantity decimal.Decimal      `json:"totalQuantity"`
	TotalValue    decimal.Decimal      `json:"totalValue"`
}

// DonorContribution groups one donor's donations in submission order.
// Totals are plain sums over the donor's own donations, never netted
// against distributions.
type DonorContribution struct {
	DonorName     string          `json:"donorName"`
	Donations     []Donation      `json:"donations"`
	TotalQuantity decimal.Decimal `json:"totalQuantity"`
	TotalValue    decimal.Decimal `json:"totalValue"`
}

// DonorReport lists contributions in first-donation order.
type DonorReport struct {
	Contributions []DonorContribution `json:"contributions"`
}

// InventoryCheck is a read-only advisory on whether a planned distribution
// fits the current stock. Distributions are accepted regardless.
type InventoryCheck struct {
	DonationType DonationType    `json:"donationType"`
	Requested    decimal.Decimal `json:"requested"`
	Available    decimal.Decimal `json:"available"`
	Sufficient   bool            `json:"sufficient"`
}
