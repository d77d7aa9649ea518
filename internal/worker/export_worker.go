// Package worker mirrors the record log into a CSV ledger file so shelter
// staff can open the books in a spreadsheet without touching the database.
package worker

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"shelterstock/internal/amqp"
	"shelterstock/internal/core"
	"shelterstock/internal/records"
)

var ledgerHeader = []string{
	"kind", "id", "date", "donation_type", "quantity", "counterparty", "created_at",
}

// ExportWorker consumes record-appended events and appends the matching
// record to the ledger. The store stays the source of truth: the worker
// only ever reads it, and a full rebuild reproduces the ledger from
// scratch.
type ExportWorker struct {
	store records.Reader
	path  string
	mu    sync.Mutex
}

func NewExportWorker(store records.Reader, exportPath string) *ExportWorker {
	return &ExportWorker{
		store: store,
		path:  exportPath,
	}
}

// HandleRecordMessage fetches the announced record and appends one ledger
// row. Returning an error requeues the message.
func (w *ExportWorker) HandleRecordMessage(ctx context.Context, msg *amqp.RecordAppendedMessage) error {
	var row []string

	switch msg.Kind {
	case amqp.KindDonation:
		d, err := w.store.GetDonation(ctx, msg.ID)
		if err != nil {
			return fmt.Errorf("get donation %d: %w", msg.ID, err)
		}
		row = donationRow(d)
	case amqp.KindDistribution:
		d, err := w.store.GetDistribution(ctx, msg.ID)
		if err != nil {
			return fmt.Errorf("get distribution %d: %w", msg.ID, err)
		}
		row = distributionRow(d)
	default:
		// Unknown kinds are dropped rather than requeued forever.
		slog.WarnContext(ctx, "Skipping message with unknown kind", "kind", msg.Kind, "id", msg.ID)
		return nil
	}

	if err := w.appendRow(row); err != nil {
		return fmt.Errorf("append ledger row: %w", err)
	}

	slog.InfoContext(ctx, "Record exported to ledger",
		"kind", msg.Kind, "id", msg.ID, "path", w.path)
	return nil
}

// RebuildLedger rewrites the ledger from the full record log. Donations
// and distributions are fetched concurrently; the file is replaced
// atomically so readers never see a half-written ledger.
func (w *ExportWorker) RebuildLedger(ctx context.Context) error {
	var (
		donations     []core.Donation
		distributions []core.Distribution
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		donations, err = w.store.ListDonations(gctx)
		if err != nil {
			return fmt.Errorf("list donations: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		distributions, err = w.store.ListDistributions(gctx)
		if err != nil {
			return fmt.Errorf("list distributions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(w.path), "ledger-*.csv")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)
	if err := cw.Write(ledgerHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("write ledger header: %w", err)
	}
	for _, d := range donations {
		if err := cw.Write(donationRow(d)); err != nil {
			tmp.Close()
			return fmt.Errorf("write donation row: %w", err)
		}
	}
	for _, d := range distributions {
		if err := cw.Write(distributionRow(d)); err != nil {
			tmp.Close()
			return fmt.Errorf("write distribution row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger: %w", err)
	}

	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}

	slog.InfoContext(ctx, "Ledger rebuilt",
		"path", w.path,
		"donations", len(donations),
		"distributions", len(distributions))
	return nil
}

func (w *ExportWorker) appendRow(row []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	_, statErr := os.Stat(w.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if writeHeader {
		if err := cw.Write(ledgerHeader); err != nil {
			return fmt.Errorf("write ledger header: %w", err)
		}
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("write ledger row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func donationRow(d core.Donation) []string {
	return []string{
		amqp.KindDonation,
		strconv.FormatInt(d.ID, 10),
		d.DonationDate.String(),
		string(d.DonationType),
		d.Quantity.String(),
		d.DonorName,
		d.CreatedAt.Format(time.RFC3339),
	}
}

func distributionRow(d core.Distribution) []string {
	return []string{
		amqp.KindDistribution,
		strconv.FormatInt(d.ID, 10),
		d.DistributionDate.String(),
		string(d.DonationType),
		d.Quantity.String(),
		d.Recipient,
		d.CreatedAt.Format(time.RFC3339),
	}
}
