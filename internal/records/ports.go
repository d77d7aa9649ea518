// Package records defines the ports every record backend implements.
package records

import (
	"context"
	"errors"

	"shelterstock/internal/core"
)

// ErrNotFound is returned when a record ID has no matching row.
var ErrNotFound = errors.New("record not found")

// Writer appends immutable records. Implementations serialize concurrent
// appends; an append either fully succeeds or has no effect.
type Writer interface {
	AppendDonation(ctx context.Context, d core.Donation) (int64, error)
	AppendDistribution(ctx context.Context, d core.Distribution) (int64, error)
}

// Reader provides read-only access to the record log. Listings return
// append order.
type Reader interface {
	GetDonation(ctx context.Context, id int64) (core.Donation, error)
	ListDonations(ctx context.Context) ([]core.Donation, error)
	ListDonationsByType(ctx context.Context, t core.DonationType) ([]core.Donation, error)
	ListDonationsByDonor(ctx context.Context, donorName string) ([]core.Donation, error)
	DonorNames(ctx context.Context) ([]string, error)
	CountDonations(ctx context.Context) (int64, error)

	GetDistribution(ctx context.Context, id int64) (core.Distribution, error)
	ListDistributions(ctx context.Context) ([]core.Distribution, error)
	ListDistributionsByType(ctx context.Context, t core.DonationType) ([]core.Distribution, error)
	Recipients(ctx context.Context) ([]string, error)
	CountDistributions(ctx context.Context) (int64, error)
}

// Store is the full record backend contract.
type Store interface {
	Writer
	Reader
	Close() error
}
