// Command processor runs the analytics pipeline once and exits: load
// the marketplace exports, mine baskets, score RFM segments, rebuild
// the cache and write CSV reports. Intended for cron and one-off runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shoppulse/internal/config"
	"shoppulse/internal/infrastructure"
	"shoppulse/internal/services"
	"shoppulse/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "processor:", err)
		os.Exit(1)
	}
}

func run() error {
	dataDir := flag.String("data", "", "override the export data directory")
	reportsDir := flag.String("reports", "", "override the CSV report output directory")
	timeout := flag.Duration("timeout", 30*time.Minute, "abort the run after this long")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
	}
	if *reportsDir != "" {
		cfg.Paths.ReportsDir = *reportsDir
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = infrastructure.CloseLogFile() }()

	store, err := storage.Open(cfg.Paths.DatabaseFile, logger)
	if err != nil {
		return fmt.Errorf("open analytic cache: %w", err)
	}
	defer store.Close()

	svc, err := services.NewAnalyticsService(cfg, store, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	result, err := svc.RunPipeline(ctx)
	if err != nil {
		return err
	}

	logger.Info("run complete",
		slog.String("run_id", result.RunID),
		slog.Duration("duration", result.Duration),
		slog.Int("orders", result.Orders),
		slog.Int("itemsets", result.Itemsets),
		slog.Int("rules", result.Rules),
		slog.Int("customers", result.Customers))
	return nil
}
