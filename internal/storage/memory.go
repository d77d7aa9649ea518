package storage

import (
	"context"
	"sync"
	"time"

	"shelterstock/internal/core"
	"shelterstock/internal/records"
)

// MemoryStore keeps the record log in process memory. It honors the same
// contract as SQLiteRepository and backs the memory backend and the test
// suites.
type MemoryStore struct {
	mu            sync.Mutex
	donations     []core.Donation
	distributions []core.Distribution
	nextID        int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (m *MemoryStore) Close() error { return nil }

// AppendDonation implements records.Writer.
func (m *MemoryStore) AppendDonation(_ context.Context, d core.Donation) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	d.ID = m.nextID
	d.CreatedAt = time.Now().UTC()
	m.nextID++
	m.donations = append(m.donations, d)
	return d.ID, nil
}

// AppendDistribution implements records.Writer.
func (m *MemoryStore) AppendDistribution(_ context.Context, d core.Distribution) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	d.ID = m.nextID
	d.CreatedAt = time.Now().UTC()
	m.nextID++
	m.distributions = append(m.distributions, d)
	return d.ID, nil
}

func (m *MemoryStore) GetDonation(_ context.Context, id int64) (core.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.donations {
		if d.ID == id {
			return d, nil
		}
	}
	return core.Donation{}, records.ErrNotFound
}

func (m *MemoryStore) ListDonations(_ context.Context) ([]core.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]core.Donation, len(m.donations))
	copy(out, m.donations)
	return out, nil
}

func (m *MemoryStore) ListDonationsByType(_ context.Context, t core.DonationType) ([]core.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []core.Donation
	for _, d := range m.donations {
		if d.DonationType == t {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListDonationsByDonor(_ context.Context, donorName string) ([]core.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []core.Donation
	for _, d := range m.donations {
		if d.DonorName == donorName {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *MemoryStore) DonorNames(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	var out []string
	for _, d := range m.donations {
		if !seen[d.DonorName] {
			seen[d.DonorName] = true
			out = append(out, d.DonorName)
		}
	}
	return out, nil
}

func (m *MemoryStore) CountDonations(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.donations)), nil
}

func (m *MemoryStore) GetDistribution(_ context.Context, id int64) (core.Distribution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.distributions {
		if d.ID == id {
			return d, nil
		}
	}
	return core.Distribution{}, records.ErrNotFound
}

func (m *MemoryStore) ListDistributions(_ context.Context) ([]core.Distribution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]core.Distribution, len(m.distributions))
	copy(out, m.distributions)
	return out, nil
}

func (m *MemoryStore) ListDistributionsByType(_ context.Context, t core.DonationType) ([]core.Distribution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []core.Distribution
	for _, d := range m.distributions {
		if d.DonationType == t {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *MemoryStore) Recipients(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	var out []string
	for _, d := range m.distributions {
		if !seen[d.Recipient] {
			seen[d.Recipient] = true
			out = append(out, d.Recipient)
		}
	}
	return out, nil
}

func (m *MemoryStore) CountDistributions(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.distributions)), nil
}
