package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"shoppulse/internal/basket"
	"shoppulse/internal/config"
	"shoppulse/internal/dataprocessing"
	"shoppulse/internal/exporter"
	"shoppulse/internal/rfm"
	"shoppulse/internal/storage"
	"shoppulse/internal/validation"
	"shoppulse/pkg/contracts/domain"
)

// AnalyticsService orchestrates the full pipeline: load marketplace
// exports, run basket and RFM analysis, persist results to the cache
// and export CSV reports. It also serves the read side for the API.
type AnalyticsService struct {
	cfg       *config.Config
	loader    *dataprocessing.Loader
	analyzer  *basket.Analyzer
	segmenter *rfm.Segmenter
	store     *storage.Store
	writer    *exporter.CSVWriter
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewAnalyticsService wires the pipeline from configuration.
func NewAnalyticsService(cfg *config.Config, store *storage.Store, logger *slog.Logger) (*AnalyticsService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	catalogue := rfm.DefaultCatalogue()

	basketCfg := basket.Config{
		MinSupport:    cfg.Analysis.MinSupport,
		MinConfidence: cfg.Analysis.MinConfidence,
		MinLift:       cfg.Analysis.MinLift,
		MaxLength:     cfg.Analysis.MaxLength,
	}

	return &AnalyticsService{
		cfg:       cfg,
		loader:    dataprocessing.NewLoader(logger),
		analyzer:  basket.NewAnalyzer(basketCfg, logger),
		segmenter: rfm.NewSegmenter(catalogue, cfg.Analysis.RFMBins, logger),
		store:     store,
		writer:    exporter.NewCSVWriter(cfg.Paths.ReportsDir, logger),
		validator: validation.NewFileValidator(logger),
		logger:    logger,
	}, nil
}

// RunResult summarizes one completed pipeline run.
type RunResult struct {
	RunID       string        `json:"run_id"`
	Duration    time.Duration `json:"duration"`
	Orders      int           `json:"orders"`
	Products    int           `json:"products"`
	Itemsets    int           `json:"itemsets"`
	Rules       int           `json:"rules"`
	Customers   int           `json:"customers"`
	Performance int           `json:"performance_rows"`
}

// RunPipeline executes one end-to-end analytics run.
func (s *AnalyticsService) RunPipeline(ctx context.Context) (*RunResult, error) {
	runID := uuid.NewString()
	started := time.Now()
	logger := s.logger.With(slog.String("run_id", runID))
	logger.InfoContext(ctx, "pipeline run starting")

	result, err := s.runPipeline(ctx, runID, started, logger)
	elapsed := time.Since(started)
	pipelineDuration.Observe(elapsed.Seconds())
	if err != nil {
		pipelineRunsTotal.WithLabelValues("error").Inc()
		logger.ErrorContext(ctx, "pipeline run failed",
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()))
		return nil, err
	}

	pipelineRunsTotal.WithLabelValues("success").Inc()
	logger.InfoContext(ctx, "pipeline run finished",
		slog.Duration("elapsed", elapsed),
		slog.Int("orders", result.Orders),
		slog.Int("itemsets", result.Itemsets),
		slog.Int("rules", result.Rules),
		slog.Int("customers", result.Customers))
	return result, nil
}

func (s *AnalyticsService) runPipeline(ctx context.Context, runID string, started time.Time, logger *slog.Logger) (*RunResult, error) {
	if err := s.preflight(logger); err != nil {
		return nil, err
	}

	items, err := s.loadOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	logger.InfoContext(ctx, "orders loaded", slog.Int("line_items", len(items)))

	basketResult, err := s.analyzer.Analyze(ctx, dataprocessing.Transactions(items))
	if err != nil {
		return nil, fmt.Errorf("basket analysis: %w", err)
	}

	scored, err := s.segmenter.Segment(ctx, dataprocessing.CustomerOrders(items), time.Time{})
	if err != nil {
		return nil, fmt.Errorf("rfm analysis: %w", err)
	}

	daily := dataprocessing.AggregateDailySales(items)

	perf, err := s.LoadPerformance(ctx)
	if err != nil {
		return nil, fmt.Errorf("load performance: %w", err)
	}
	logger.InfoContext(ctx, "performance exports loaded", slog.Int("rows", len(perf)))

	if err := s.persist(ctx, basketResult, scored, daily, perf); err != nil {
		return nil, err
	}
	if err := s.export(basketResult, scored, daily, perf); err != nil {
		return nil, err
	}

	run := storage.RunRecord{
		RunID:      runID,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Orders:     basketResult.Orders,
		Itemsets:   len(basketResult.Itemsets),
		Rules:      len(basketResult.Rules),
		Customers:  len(scored),
	}
	if err := s.store.RecordRun(ctx, run); err != nil {
		return nil, err
	}

	pipelineRows.WithLabelValues("frequent_itemsets").Set(float64(run.Itemsets))
	pipelineRows.WithLabelValues("association_rules").Set(float64(run.Rules))
	pipelineRows.WithLabelValues("customer_rfm").Set(float64(run.Customers))
	pipelineRows.WithLabelValues("daily_sales").Set(float64(len(daily)))
	pipelineRows.WithLabelValues("channel_performance").Set(float64(len(perf)))

	return &RunResult{
		RunID:       runID,
		Duration:    time.Since(started),
		Orders:      basketResult.Orders,
		Products:    basketResult.Products,
		Itemsets:    run.Itemsets,
		Rules:       run.Rules,
		Customers:   run.Customers,
		Performance: len(perf),
	}, nil
}

// preflight verifies the report destination is writable and logs how
// many export files each source folder holds before any loading starts.
func (s *AnalyticsService) preflight(logger *slog.Logger) error {
	if err := s.validator.ValidateOutputDir(s.cfg.Paths.ReportsDir); err != nil {
		return fmt.Errorf("preflight: %w", err)
	}
	total := 0
	for source, dir := range s.cfg.SourceDirs() {
		count, err := s.validator.ValidateSourceDir(dir)
		if err != nil {
			return fmt.Errorf("preflight %s: %w", source, err)
		}
		total += count
	}
	logger.Info("preflight complete", slog.Int("export_files", total))
	return nil
}

// loadOrders reads every order export folder. Only orders feed the
// basket and RFM analytics; performance exports become the
// channel_performance reporting table.
func (s *AnalyticsService) loadOrders(ctx context.Context) ([]domain.OrderItem, error) {
	shopee, err := s.loader.LoadOrderDir(ctx, s.cfg.SourceDir(config.SourceShopeeOrders), domain.PlatformShopee)
	if err != nil {
		return nil, err
	}
	return shopee, nil
}

// LoadPerformance loads the normalized channel performance rows for
// every source folder that exists.
func (s *AnalyticsService) LoadPerformance(ctx context.Context) ([]domain.PerformanceRow, error) {
	var rows []domain.PerformanceRow

	ads, err := s.loader.LoadAdsDir(ctx, s.cfg.SourceDir(config.SourceShopeeAds))
	if err != nil {
		return nil, err
	}
	rows = append(rows, ads...)

	live, err := s.loader.LoadShopeeOverviewDir(ctx, s.cfg.SourceDir(config.SourceShopeeLive), domain.ChannelLive)
	if err != nil {
		return nil, err
	}
	rows = append(rows, live...)

	video, err := s.loader.LoadShopeeOverviewDir(ctx, s.cfg.SourceDir(config.SourceShopeeVideo), domain.ChannelVideo)
	if err != nil {
		return nil, err
	}
	rows = append(rows, video...)

	ttLive, err := s.loader.LoadTikTokLiveDir(ctx, s.cfg.SourceDir(config.SourceTikTokLive))
	if err != nil {
		return nil, err
	}
	rows = append(rows, ttLive...)

	ttVideo, err := s.loader.LoadTikTokVideoDir(ctx, s.cfg.SourceDir(config.SourceTikTokVideo))
	if err != nil {
		return nil, err
	}
	rows = append(rows, ttVideo...)

	return rows, nil
}

func (s *AnalyticsService) persist(ctx context.Context, result *basket.Result, scored []rfm.ScoredCustomer, daily []domain.DailySales, perf []domain.PerformanceRow) error {
	if err := s.store.ReplaceItemsets(ctx, result.Itemsets); err != nil {
		return fmt.Errorf("persist itemsets: %w", err)
	}
	if err := s.store.ReplaceRules(ctx, result.Rules); err != nil {
		return fmt.Errorf("persist rules: %w", err)
	}
	if err := s.store.ReplaceCustomers(ctx, scored); err != nil {
		return fmt.Errorf("persist customers: %w", err)
	}
	if err := s.store.ReplaceDailySales(ctx, daily); err != nil {
		return fmt.Errorf("persist daily sales: %w", err)
	}
	if err := s.store.ReplacePerformance(ctx, perf); err != nil {
		return fmt.Errorf("persist performance: %w", err)
	}
	return nil
}

func (s *AnalyticsService) export(result *basket.Result, scored []rfm.ScoredCustomer, daily []domain.DailySales, perf []domain.PerformanceRow) error {
	if err := s.writer.WriteItemsets(result.Itemsets); err != nil {
		return fmt.Errorf("export itemsets: %w", err)
	}
	if err := s.writer.WriteRules(result.Rules); err != nil {
		return fmt.Errorf("export rules: %w", err)
	}
	if err := s.writer.WriteCustomers(scored); err != nil {
		return fmt.Errorf("export customers: %w", err)
	}
	if err := s.writer.WriteSegmentSummary(rfm.Summarize(scored)); err != nil {
		return fmt.Errorf("export segment summary: %w", err)
	}
	if err := s.writer.WriteDailySales(daily); err != nil {
		return fmt.Errorf("export daily sales: %w", err)
	}
	if err := s.writer.WritePerformance(perf); err != nil {
		return fmt.Errorf("export performance: %w", err)
	}
	return nil
}
