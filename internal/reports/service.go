// Package reports folds the record log into the derived aggregates the
// API serves: per-type stock positions, the whole-system inventory
// summary, and per-donor contribution totals.
package reports

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"shelterstock/internal/cache"
	"shelterstock/internal/core"
	"shelterstock/internal/pricing"
	"shelterstock/internal/records"
)

const (
	cacheTTL      = 5 * time.Minute
	donorCacheKey = "donors"
)

// Service is the read-only report facade. Aggregates are cached per
// donation type; each type has its own lock so recomputation for one type
// never blocks reads of another. Appends invalidate synchronously under
// the same lock, so a read issued after a successful append always sees it
// and never observes a partially updated aggregate.
type Service struct {
	store  records.Reader
	pricer *pricing.Resolver

	typeMu  map[core.DonationType]*sync.Mutex
	donorMu sync.Mutex

	invCache   *cache.LRUCache[core.InventoryAggregate]
	donorCache *cache.LRUCache[core.DonorReport]
}

func NewService(store records.Reader, pricer *pricing.Resolver) *Service {
	typeMu := make(map[core.DonationType]*sync.Mutex)
	for _, t := range core.AllDonationTypes() {
		typeMu[t] = &sync.Mutex{}
	}

	return &Service{
		store:      store,
		pricer:     pricer,
		typeMu:     typeMu,
		invCache:   cache.NewLRUCache[core.InventoryAggregate](len(typeMu), cacheTTL),
		donorCache: cache.NewLRUCache[core.DonorReport](1, cacheTTL),
	}
}

// InventoryFor returns the stock position for one type. A type with no
// activity yields a zero-valued aggregate, not an error.
func (s *Service) InventoryFor(ctx context.Context, t core.DonationType) (core.InventoryAggregate, error) {
	if err := t.Validate(); err != nil {
		return core.InventoryAggregate{}, err
	}

	mu := s.typeMu[t]
	mu.Lock()
	defer mu.Unlock()

	if agg, ok := s.invCache.Get(string(t)); ok {
		return agg, nil
	}

	agg, err := s.computeInventory(ctx, t)
	if err != nil {
		return core.InventoryAggregate{}, err
	}

	s.invCache.Set(string(t), agg)
	slog.DebugContext(ctx, "Inventory aggregate cached",
		"donation_type", t, "current_stock", agg.CurrentStock)
	return agg, nil
}

// computeInventory rescans the type's records. Sums are commutative, so
// the result is independent of record order.
func (s *Service) computeInventory(ctx context.Context, t core.DonationType) (core.InventoryAggregate, error) {
	donations, err := s.store.ListDonationsByType(ctx, t)
	if err != nil {
		return core.InventoryAggregate{}, fmt.Errorf("list donations for %s: %w", t, err)
	}
	distributions, err := s.store.ListDistributionsByType(ctx, t)
	if err != nil {
		return core.InventoryAggregate{}, fmt.Errorf("list distributions for %s: %w", t, err)
	}

	donated := decimal.Zero
	for _, d := range donations {
		donated = donated.Add(d.Quantity)
	}
	distributed := decimal.Zero
	for _, d := range distributions {
		distributed = distributed.Add(d.Quantity)
	}

	return core.InventoryAggregate{
		DonationType:     t,
		TotalDonated:     donated,
		TotalDistributed: distributed,
		CurrentStock:     donated.Sub(distributed),
	}, nil
}

// InventorySummary returns the whole-system report: one item per type with
// any activity, in enum order. TotalValue prices what is on hand, so an
// over-distributed type contributes a negative value.
func (s *Service) InventorySummary(ctx context.Context) (core.InventorySummary, error) {
	summary := core.InventorySummary{
		Items:         []core.InventoryAggregate{},
		TotalQuantity: decimal.Zero,
		TotalValue:    decimal.Zero,
	}

	for _, t := range core.AllDonationTypes() {
		agg, err := s.InventoryFor(ctx, t)
		if err != nil {
			return core.InventorySummary{}, err
		}
		if !agg.HasActivity() {
			continue
		}
		summary.Items = append(summary.Items, agg)
		summary.TotalQuantity = summary.TotalQuantity.Add(agg.CurrentStock)
		summary.TotalValue = summary.TotalValue.Add(s.pricer.ValueOf(t, agg.CurrentStock))
	}

	return summary, nil
}

// CheckInventory is an advisory for the submission forms: it reports
// whether current stock covers a planned distribution. Distributions are
// accepted either way.
func (s *Service) CheckInventory(ctx context.Context, t core.DonationType, quantity decimal.Decimal) (core.InventoryCheck, error) {
	agg, err := s.InventoryFor(ctx, t)
	if err != nil {
		return core.InventoryCheck{}, err
	}
	return core.InventoryCheck{
		DonationType: t,
		Requested:    quantity,
		Available:    agg.CurrentStock,
		Sufficient:   agg.CurrentStock.GreaterThanOrEqual(quantity),
	}, nil
}

// DonorReport groups donations by donor name, donors in first-donation
// order and each donor's donations in submission order. Distributions do
// not appear: donors are never associated with outgoing stock.
func (s *Service) DonorReport(ctx context.Context) (core.DonorReport, error) {
	s.donorMu.Lock()
	defer s.donorMu.Unlock()

	if report, ok := s.donorCache.Get(donorCacheKey); ok {
		return report, nil
	}

	donations, err := s.store.ListDonations(ctx)
	if err != nil {
		return core.DonorReport{}, fmt.Errorf("list donations: %w", err)
	}

	index := make(map[string]int)
	report := core.DonorReport{Contributions: []core.DonorContribution{}}
	for _, d := range donations {
		i, ok := index[d.DonorName]
		if !ok {
			i = len(report.Contributions)
			index[d.DonorName] = i
			report.Contributions = append(report.Contributions, core.DonorContribution{
				DonorName:     d.DonorName,
				Donations:     []core.Donation{},
				TotalQuantity: decimal.Zero,
				TotalValue:    decimal.Zero,
			})
		}
		c := &report.Contributions[i]
		c.Donations = append(c.Donations, d)
		c.TotalQuantity = c.TotalQuantity.Add(d.Quantity)
		c.TotalValue = c.TotalValue.Add(s.pricer.ValueOf(d.DonationType, d.Quantity))
	}

	s.donorCache.Set(donorCacheKey, report)
	slog.DebugContext(ctx, "Donor report cached", "donors", len(report.Contributions))
	return report, nil
}

// DonorContribution returns one donor's totals. An unknown donor yields an
// empty contribution, since absence of activity is a valid state.
func (s *Service) DonorContribution(ctx context.Context, donorName string) (core.DonorContribution, error) {
	donations, err := s.store.ListDonationsByDonor(ctx, donorName)
	if err != nil {
		return core.DonorContribution{}, fmt.Errorf("list donations for donor %s: %w", donorName, err)
	}

	c := core.DonorContribution{
		DonorName:     donorName,
		Donations:     []core.Donation{},
		TotalQuantity: decimal.Zero,
		TotalValue:    decimal.Zero,
	}
	for _, d := range donations {
		c.Donations = append(c.Donations, d)
		c.TotalQuantity = c.TotalQuantity.Add(d.Quantity)
		c.TotalValue = c.TotalValue.Add(s.pricer.ValueOf(d.DonationType, d.Quantity))
	}
	return c, nil
}

// InvalidateType drops the cached aggregate for a type. Called under the
// type's lock so a concurrent reader cannot re-cache a pre-append value
// after the invalidation runs.
func (s *Service) InvalidateType(t core.DonationType) {
	mu, ok := s.typeMu[t]
	if !ok {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	s.invCache.Delete(string(t))
}

// InvalidateDonors drops the cached donor report.
func (s *Service) InvalidateDonors() {
	s.donorMu.Lock()
	defer s.donorMu.Unlock()
	s.donorCache.Delete(donorCacheKey)
}
