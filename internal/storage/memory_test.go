package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"shelterstock/internal/core"
	"shelterstock/internal/records"
)

func TestMemoryStoreAppendAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.AppendDonation(ctx, core.Donation{
		DonorName:    "Alice",
		DonationType: core.Food,
		Quantity:     decimal.NewFromInt(150),
		DonationDate: core.NewDate(2025, 1, 10),
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id != 1 {
		t.Fatalf("id=%d, want 1", id)
	}

	got, err := store.GetDonation(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DonorName != "Alice" || got.CreatedAt.IsZero() {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := store.GetDonation(ctx, 999); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.AppendDonation(ctx, core.Donation{
		DonorName:    "",
		DonationType: core.Food,
		Quantity:     decimal.NewFromInt(1),
		DonationDate: core.NewDate(2025, 1, 1),
	})
	if !errors.Is(err, core.ErrEmptyDonorName) {
		t.Fatalf("expected ErrEmptyDonorName, got %v", err)
	}

	// Nothing persisted on rejection.
	if n, _ := store.CountDonations(ctx); n != 0 {
		t.Fatalf("count=%d after rejected append", n)
	}
}

func TestMemoryStoreDistinctNamesPreserveOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, d := range []core.Donation{
		{DonorName: "Bob", DonationType: core.Food, Quantity: decimal.NewFromInt(1), DonationDate: core.NewDate(2025, 1, 1)},
		{DonorName: "Alice", DonationType: core.Toys, Quantity: decimal.NewFromInt(2), DonationDate: core.NewDate(2025, 1, 2)},
		{DonorName: "Bob", DonationType: core.Books, Quantity: decimal.NewFromInt(3), DonationDate: core.NewDate(2025, 1, 3)},
	} {
		if _, err := store.AppendDonation(ctx, d); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	names, err := store.DonorNames(ctx)
	if err != nil {
		t.Fatalf("donor names: %v", err)
	}
	if len(names) != 2 || names[0] != "Bob" || names[1] != "Alice" {
		t.Fatalf("names=%v, want first-donation order", names)
	}
}
