// Package backend constructs the record store and optional AMQP publisher
// from configuration.
package backend

import (
	"fmt"
	"log/slog"

	"shelterstock/internal/amqp"
	"shelterstock/internal/config"
	"shelterstock/internal/records"
	"shelterstock/internal/storage"
)

// Type represents the record store backend
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources at shutdown
type CleanupFunc func() error

// Result bundles the store with its optional publisher. Publisher is nil
// for the memory backend and when no AMQP URL is configured.
type Result struct {
	Store     records.Store
	Publisher *amqp.Client
	Cleanup   CleanupFunc
}

// Build creates the record store named by cfg.DataBackend.
func Build(cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	backendType := Type(cfg.DataBackend)
	if !backendType.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch backendType {
	case SQLiteBackend:
		return buildSQLite(cfg, logger)
	case MemoryBackend:
		return buildMemory(logger)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", backendType)
	}
}

func buildSQLite(cfg *config.Config, logger *slog.Logger) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// AMQP is optional; without it appends simply skip the export pipeline.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without export", "error", err)
			amqpClient = nil
		} else {
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	logger.Info("Initialized SQLite backend",
		"db_path", cfg.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	// The publisher is handed to the record service, which owns its
	// lifecycle; cleanup only covers the repository.
	return &Result{
		Store:     repo,
		Publisher: amqpClient,
		Cleanup:   repo.Close,
	}, nil
}

func buildMemory(logger *slog.Logger) (*Result, error) {
	store := storage.NewMemoryStore()
	logger.Info("Initialized memory backend")
	return &Result{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}
