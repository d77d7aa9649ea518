package backend

import (
	"path/filepath"
	"testing"

	"shelterstock/internal/config"
)

func TestBuildMemoryBackend(t *testing.T) {
	cfg := &config.Config{DataBackend: "memory"}

	result, err := Build(cfg, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.Store == nil {
		t.Fatalf("nil store")
	}
	if result.Publisher != nil {
		t.Fatalf("memory backend should have no publisher")
	}
	if err := result.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestBuildSQLiteBackendWithoutAMQP(t *testing.T) {
	cfg := &config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: filepath.Join(t.TempDir(), "test.db"),
		AMQPURL:      "",
	}

	result, err := Build(cfg, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer result.Cleanup()

	if result.Store == nil {
		t.Fatalf("nil store")
	}
	if result.Publisher != nil {
		t.Fatalf("publisher without AMQP URL")
	}
}

func TestBuildRejectsUnknownBackend(t *testing.T) {
	if _, err := Build(&config.Config{DataBackend: "postgres"}, nil); err == nil {
		t.Fatalf("expected error")
	}
}
