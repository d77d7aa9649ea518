package reports

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"shelterstock/internal/core"
	"shelterstock/internal/pricing"
	"shelterstock/internal/storage"
)

func newTestService(t *testing.T) (*Service, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewService(store, pricing.DefaultResolver()), store
}

func mustDonate(t *testing.T, store *storage.MemoryStore, donor string, typ core.DonationType, qty int64) {
	t.Helper()
	_, err := store.AppendDonation(context.Background(), core.Donation{
		DonorName:    donor,
		DonationType: typ,
		Quantity:     decimal.NewFromInt(qty),
		DonationDate: core.NewDate(2025, 1, 1),
	})
	if err != nil {
		t.Fatalf("append donation: %v", err)
	}
}

func mustDistribute(t *testing.T, store *storage.MemoryStore, typ core.DonationType, qty int64) {
	t.Helper()
	_, err := store.AppendDistribution(context.Background(), core.Distribution{
		DonationType:     typ,
		Quantity:         decimal.NewFromInt(qty),
		Recipient:        "Family A",
		DistributionDate: core.NewDate(2025, 1, 2),
	})
	if err != nil {
		t.Fatalf("append distribution: %v", err)
	}
}

func TestInventoryForNetsDonationsAgainstDistributions(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	mustDonate(t, store, "Alice", core.Food, 100)
	mustDonate(t, store, "Bob", core.Food, 50)
	mustDistribute(t, store, core.Food, 30)

	agg, err := svc.InventoryFor(ctx, core.Food)
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if !agg.TotalDonated.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("donated=%s", agg.TotalDonated)
	}
	if !agg.TotalDistributed.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("distributed=%s", agg.TotalDistributed)
	}
	if !agg.CurrentStock.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("stock=%s", agg.CurrentStock)
	}
}

func TestInventoryForAllowsNegativeStock(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	mustDonate(t, store, "Alice", core.Toys, 5)
	mustDistribute(t, store, core.Toys, 15)

	agg, err := svc.InventoryFor(ctx, core.Toys)
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if !agg.CurrentStock.Equal(decimal.NewFromInt(-10)) {
		t.Fatalf("stock=%s, want -10", agg.CurrentStock)
	}
}

func TestInventoryForZeroActivity(t *testing.T) {
	svc, _ := newTestService(t)

	agg, err := svc.InventoryFor(context.Background(), core.Furniture)
	if err != nil {
		t.Fatalf("expected zero aggregate, got error %v", err)
	}
	if !agg.TotalDonated.IsZero() || !agg.TotalDistributed.IsZero() || !agg.CurrentStock.IsZero() {
		t.Fatalf("expected zeros: %+v", agg)
	}
	if agg.HasActivity() {
		t.Fatalf("zero aggregate reports activity")
	}
}

func TestInventoryForUnknownType(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.InventoryFor(context.Background(), "GOLD"); !errors.Is(err, core.ErrUnknownDonationType) {
		t.Fatalf("expected ErrUnknownDonationType, got %v", err)
	}
}

func TestInventorySummary(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	mustDonate(t, store, "Alice", core.Money, 200) // valued at face: 200
	mustDonate(t, store, "Bob", core.Food, 10)     // 10 * 3.50 = 35
	mustDistribute(t, store, core.Food, 4)         // stock 6 -> 21
	mustDonate(t, store, "Carol", core.Toys, 2)    // 2 * 12 = 24

	summary, err := svc.InventorySummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	// Only active types appear, in enum order.
	if len(summary.Items) != 3 {
		t.Fatalf("items=%d, want 3", len(summary.Items))
	}
	if summary.Items[0].DonationType != core.Money ||
		summary.Items[1].DonationType != core.Food ||
		summary.Items[2].DonationType != core.Toys {
		t.Fatalf("unexpected item order: %+v", summary.Items)
	}

	if !summary.TotalQuantity.Equal(decimal.NewFromInt(208)) {
		t.Fatalf("total quantity=%s, want 208", summary.TotalQuantity)
	}
	if !summary.TotalValue.Equal(decimal.RequireFromString("245")) {
		t.Fatalf("total value=%s, want 245", summary.TotalValue)
	}
}

func TestInventorySummaryEmpty(t *testing.T) {
	svc, _ := newTestService(t)
	summary, err := svc.InventorySummary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary.Items) != 0 || !summary.TotalQuantity.IsZero() || !summary.TotalValue.IsZero() {
		t.Fatalf("expected empty summary: %+v", summary)
	}
}

func TestCheckInventory(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	mustDonate(t, store, "Alice", core.Blankets, 10)
	mustDistribute(t, store, core.Blankets, 4)

	check, err := svc.CheckInventory(ctx, core.Blankets, decimal.NewFromInt(6))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !check.Sufficient || !check.Available.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("expected sufficient at exact stock: %+v", check)
	}

	check, err = svc.CheckInventory(ctx, core.Blankets, decimal.NewFromInt(7))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if check.Sufficient {
		t.Fatalf("expected insufficient: %+v", check)
	}
}

func TestDonorReportGroupsInFirstDonationOrder(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	mustDonate(t, store, "Bob", core.Food, 10)
	mustDonate(t, store, "Alice", core.Money, 100)
	mustDonate(t, store, "Bob", core.Toys, 2)
	mustDistribute(t, store, core.Food, 5) // must not appear anywhere in the donor report

	report, err := svc.DonorReport(ctx)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report.Contributions) != 2 {
		t.Fatalf("contributions=%d", len(report.Contributions))
	}

	bob := report.Contributions[0]
	if bob.DonorName != "Bob" {
		t.Fatalf("expected Bob first, got %s", bob.DonorName)
	}
	if len(bob.Donations) != 2 || !bob.Donations[0].Quantity.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("bob donations out of order: %+v", bob.Donations)
	}
	if !bob.TotalQuantity.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("bob quantity=%s", bob.TotalQuantity)
	}
	// 10 food * 3.50 + 2 toys * 12 = 59; distributions never subtract.
	if !bob.TotalValue.Equal(decimal.RequireFromString("59")) {
		t.Fatalf("bob value=%s, want 59", bob.TotalValue)
	}

	alice := report.Contributions[1]
	if alice.DonorName != "Alice" || !alice.TotalValue.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected alice: %+v", alice)
	}
}

func TestDonorContributionUnknownDonor(t *testing.T) {
	svc, _ := newTestService(t)
	c, err := svc.DonorContribution(context.Background(), "Nobody")
	if err != nil {
		t.Fatalf("expected empty contribution, got error %v", err)
	}
	if c.DonorName != "Nobody" || len(c.Donations) != 0 || !c.TotalQuantity.IsZero() {
		t.Fatalf("unexpected contribution: %+v", c)
	}
}

func TestInvalidationGivesReadYourWrites(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	mustDonate(t, store, "Alice", core.Food, 100)
	agg, err := svc.InventoryFor(ctx, core.Food)
	if err != nil || !agg.CurrentStock.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("initial read: %+v, %v", agg, err)
	}

	// Append past the service; without invalidation the cache still serves 100.
	mustDonate(t, store, "Alice", core.Food, 50)
	agg, _ = svc.InventoryFor(ctx, core.Food)
	if !agg.CurrentStock.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected cached value, got %s", agg.CurrentStock)
	}

	svc.InvalidateType(core.Food)
	agg, err = svc.InventoryFor(ctx, core.Food)
	if err != nil {
		t.Fatalf("read after invalidation: %v", err)
	}
	if !agg.CurrentStock.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("stock=%s after invalidation, want 150", agg.CurrentStock)
	}

	// Donor report invalidation works the same way.
	if _, err := svc.DonorReport(ctx); err != nil {
		t.Fatalf("donor report: %v", err)
	}
	mustDonate(t, store, "Bob", core.Food, 1)
	svc.InvalidateDonors()
	report, err := svc.DonorReport(ctx)
	if err != nil {
		t.Fatalf("donor report after invalidation: %v", err)
	}
	if len(report.Contributions) != 2 {
		t.Fatalf("contributions=%d after invalidation, want 2", len(report.Contributions))
	}
}
