package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"shelterstock/internal/core"
	"shelterstock/internal/records"
)

// SQLiteRepository is the durable record store. Donations and distributions
// are append-only: no update or delete statement exists anywhere in this
// package. A single writer mutex serializes concurrent appends so that no
// two interleave partially.
type SQLiteRepository struct {
	db      *sql.DB
	writeMu sync.Mutex
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// AppendDonation implements records.Writer.
func (r *SQLiteRepository) AppendDonation(ctx context.Context, d core.Donation) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO donations (donor_name, donation_type, quantity, donation_date, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		d.DonorName, string(d.DonationType), d.Quantity.String(), d.DonationDate.String(),
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("insert donation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("donation insert id: %w", err)
	}

	slog.InfoContext(ctx, "Donation appended",
		"id", id,
		"donor", d.DonorName,
		"donation_type", d.DonationType,
		"quantity", d.Quantity)

	return id, nil
}

// AppendDistribution implements records.Writer.
func (r *SQLiteRepository) AppendDistribution(ctx context.Context, d core.Distribution) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO distributions (donation_type, quantity, recipient, distribution_date, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		string(d.DonationType), d.Quantity.String(), d.Recipient, d.DistributionDate.String(),
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("insert distribution: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("distribution insert id: %w", err)
	}

	slog.InfoContext(ctx, "Distribution appended",
		"id", id,
		"recipient", d.Recipient,
		"donation_type", d.DonationType,
		"quantity", d.Quantity)

	return id, nil
}

const donationColumns = "id, donor_name, donation_type, quantity, donation_date, created_at"

func (r *SQLiteRepository) GetDonation(ctx context.Context, id int64) (core.Donation, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+donationColumns+" FROM donations WHERE id = ?", id)
	d, err := scanDonation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Donation{}, records.ErrNotFound
	}
	if err != nil {
		return core.Donation{}, fmt.Errorf("get donation %d: %w", id, err)
	}
	return d, nil
}

func (r *SQLiteRepository) ListDonations(ctx context.Context) ([]core.Donation, error) {
	return r.queryDonations(ctx,
		"SELECT "+donationColumns+" FROM donations ORDER BY id")
}

func (r *SQLiteRepository) ListDonationsByType(ctx context.Context, t core.DonationType) ([]core.Donation, error) {
	return r.queryDonations(ctx,
		"SELECT "+donationColumns+" FROM donations WHERE donation_type = ? ORDER BY id", string(t))
}

func (r *SQLiteRepository) ListDonationsByDonor(ctx context.Context, donorName string) ([]core.Donation, error) {
	return r.queryDonations(ctx,
		"SELECT "+donationColumns+" FROM donations WHERE donor_name = ? ORDER BY id", donorName)
}

// DonorNames returns unique donor names in first-donation order.
func (r *SQLiteRepository) DonorNames(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx,
		"SELECT donor_name FROM donations GROUP BY donor_name ORDER BY MIN(id)")
}

func (r *SQLiteRepository) CountDonations(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM donations").Scan(&n); err != nil {
		return 0, fmt.Errorf("count donations: %w", err)
	}
	return n, nil
}

const distributionColumns = "id, donation_type, quantity, recipient, distribution_date, created_at"

func (r *SQLiteRepository) GetDistribution(ctx context.Context, id int64) (core.Distribution, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+distributionColumns+" FROM distributions WHERE id = ?", id)
	d, err := scanDistribution(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Distribution{}, records.ErrNotFound
	}
	if err != nil {
		return core.Distribution{}, fmt.Errorf("get distribution %d: %w", id, err)
	}
	return d, nil
}

func (r *SQLiteRepository) ListDistributions(ctx context.Context) ([]core.Distribution, error) {
	return r.queryDistributions(ctx,
		"SELECT "+distributionColumns+" FROM distributions ORDER BY id")
}

func (r *SQLiteRepository) ListDistributionsByType(ctx context.Context, t core.DonationType) ([]core.Distribution, error) {
	return r.queryDistributions(ctx,
		"SELECT "+distributionColumns+" FROM distributions WHERE donation_type = ? ORDER BY id", string(t))
}

// Recipients returns unique recipient names in first-distribution order.
func (r *SQLiteRepository) Recipients(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx,
		"SELECT recipient FROM distributions GROUP BY recipient ORDER BY MIN(id)")
}

func (r *SQLiteRepository) CountDistributions(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM distributions").Scan(&n); err != nil {
		return 0, fmt.Errorf("count distributions: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) queryDonations(ctx context.Context, query string, args ...any) ([]core.Donation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query donations: %w", err)
	}
	defer rows.Close()

	var out []core.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan donation: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate donations: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) queryDistributions(ctx context.Context, query string, args ...any) ([]core.Distribution, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query distributions: %w", err)
	}
	defer rows.Close()

	var out []core.Distribution
	for rows.Next() {
		d, err := scanDistribution(rows)
		if err != nil {
			return nil, fmt.Errorf("scan distribution: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distributions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) queryStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query names: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate names: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDonation(row rowScanner) (core.Donation, error) {
	var (
		d                             core.Donation
		typ, qty, donated, createdRaw string
	)
	if err := row.Scan(&d.ID, &d.DonorName, &typ, &qty, &donated, &createdRaw); err != nil {
		return core.Donation{}, err
	}
	return d, hydrateRecord(&d.DonationType, &d.Quantity, &d.DonationDate, &d.CreatedAt,
		typ, qty, donated, createdRaw)
}

func scanDistribution(row rowScanner) (core.Distribution, error) {
	var (
		d                                 core.Distribution
		typ, qty, distributed, createdRaw string
	)
	if err := row.Scan(&d.ID, &typ, &qty, &d.Recipient, &distributed, &createdRaw); err != nil {
		return core.Distribution{}, err
	}
	return d, hydrateRecord(&d.DonationType, &d.Quantity, &d.DistributionDate, &d.CreatedAt,
		typ, qty, distributed, createdRaw)
}

// hydrateRecord converts the stored text forms back into domain values.
func hydrateRecord(t *core.DonationType, q *decimal.Decimal, date *core.Date, created *time.Time,
	typRaw, qtyRaw, dateRaw, createdRaw string) error {

	parsedType, err := core.ParseDonationType(typRaw)
	if err != nil {
		return fmt.Errorf("stored donation type %q: %w", typRaw, err)
	}
	*t = parsedType

	parsedQty, err := decimal.NewFromString(qtyRaw)
	if err != nil {
		return fmt.Errorf("stored quantity %q: %w", qtyRaw, err)
	}
	*q = parsedQty

	parsedDate, err := core.ParseDate(dateRaw)
	if err != nil {
		return fmt.Errorf("stored date %q: %w", dateRaw, err)
	}
	*date = parsedDate

	parsedCreated, err := time.Parse(time.RFC3339Nano, createdRaw)
	if err != nil {
		return fmt.Errorf("stored created_at %q: %w", createdRaw, err)
	}
	*created = parsedCreated

	return nil
}
