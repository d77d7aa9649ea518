package services

import (
	"context"
	"fmt"
	"log/slog"

	"shelterstock/internal/amqp"
	"shelterstock/internal/core"
	"shelterstock/internal/records"
)

// AggregateInvalidator drops derived aggregates affected by an append.
// Invalidation runs before the append returns to its caller, which is what
// guarantees read-your-writes on the report endpoints.
type AggregateInvalidator interface {
	InvalidateType(t core.DonationType)
	InvalidateDonors()
}

// RecordService orchestrates record submission: validate, append to the
// store, invalidate the affected aggregates, then publish an event for
// downstream consumers. Publishing is best-effort; the record is already
// durable when it runs.
type RecordService struct {
	store      records.Writer
	reports    AggregateInvalidator
	amqpClient *amqp.Client
}

func NewRecordService(store records.Writer, reports AggregateInvalidator, amqpClient *amqp.Client) *RecordService {
	return &RecordService{
		store:      store,
		reports:    reports,
		amqpClient: amqpClient,
	}
}

// RegisterDonation validates and appends a donation record.
func (s *RecordService) RegisterDonation(ctx context.Context, d core.Donation) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.AppendDonation(ctx, d)
	if err != nil {
		return 0, fmt.Errorf("append donation: %w", err)
	}

	if s.reports != nil {
		s.reports.InvalidateType(d.DonationType)
		s.reports.InvalidateDonors()
	}

	s.publish(ctx, amqp.KindDonation, id, d.DonationType)
	return id, nil
}

// RecordDistribution validates and appends a distribution record. Stock
// levels are never consulted: over-distribution is accepted and shows up
// as negative stock in the reports.
func (s *RecordService) RecordDistribution(ctx context.Context, d core.Distribution) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.AppendDistribution(ctx, d)
	if err != nil {
		return 0, fmt.Errorf("append distribution: %w", err)
	}

	if s.reports != nil {
		s.reports.InvalidateType(d.DonationType)
	}

	s.publish(ctx, amqp.KindDistribution, id, d.DonationType)
	return id, nil
}

func (s *RecordService) publish(ctx context.Context, kind string, id int64, t core.DonationType) {
	if s.amqpClient == nil {
		return
	}

	msg := amqp.NewRecordAppendedMessage(kind, id, string(t))
	if err := s.amqpClient.PublishRecordAppended(ctx, msg); err != nil {
		// The record is saved locally; the export worker catches up on its
		// next full rebuild.
		slog.ErrorContext(ctx, "Failed to publish record appended message",
			"kind", kind, "id", id, "error", err)
	}
}

// Close releases the AMQP connection, if any.
func (s *RecordService) Close() error {
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			return fmt.Errorf("close amqp client: %w", err)
		}
	}
	return nil
}
