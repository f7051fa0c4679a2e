// Command server exposes the report API over HTTP and, when enabled,
// keeps the analytic cache fresh by watching the export folders.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"shoppulse/internal/config"
	"shoppulse/internal/infrastructure"
	"shoppulse/internal/services"
	"shoppulse/internal/storage"
	transport "shoppulse/internal/transport/http"
	"shoppulse/internal/watcher"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
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

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      transport.NewRouter(cfg, svc, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Watcher.Enabled {
		folders := make(map[string]string)
		for source, dir := range cfg.SourceDirs() {
			folders[string(source)] = dir
		}
		w := watcher.New(folders, cfg.Paths.StateFile, cfg.Watcher.Interval,
			func(ctx context.Context, changes []watcher.Change) error {
				runCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
				defer cancel()
				_, err := svc.RunPipeline(runCtx)
				return err
			}, logger)
		g.Go(func() error {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
