package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"shelterstock/internal/backend"
	"shelterstock/internal/config"
	apphttp "shelterstock/internal/http"
	applog "shelterstock/internal/log"
	"shelterstock/internal/pricing"
	"shelterstock/internal/reports"
	"shelterstock/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	result, err := backend.Build(cfg, logger.Logger)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}
	}()

	// Valuation table: built-in unit prices unless a pricing file overrides them.
	pricer := pricing.DefaultResolver()
	if cfg.PricingFile != "" {
		pricer, err = pricing.LoadFile(cfg.PricingFile)
		if err != nil {
			logger.Error("Failed to load pricing file", "error", err, "path", cfg.PricingFile)
			os.Exit(1)
		}
		logger.Info("Loaded pricing overrides", "path", cfg.PricingFile)
	}

	reportService := reports.NewService(result.Store, pricer)
	recordService := services.NewRecordService(result.Store, reportService, result.Publisher)
	defer recordService.Close()

	srv := apphttp.NewServer(":"+cfg.Port, recordService, result.Store, reportService)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting shelterstock server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
