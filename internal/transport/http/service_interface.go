package http

import (
	"context"
	"time"

	"shoppulse/internal/basket"
	"shoppulse/internal/rfm"
	"shoppulse/internal/services"
	"shoppulse/pkg/contracts/domain"
)

// ReportService is the read side the handlers depend on. Implemented by
// services.AnalyticsService; narrowed here so handler tests can stub it.
type ReportService interface {
	Itemsets(ctx context.Context, limit int) ([]basket.FrequentItemset, error)
	Rules(ctx context.Context, limit int) ([]basket.Rule, error)
	Recommendations(ctx context.Context, product string, topN int) ([]basket.Recommendation, error)
	Bundles(ctx context.Context, minLift, minConfidence float64, topN int) ([]basket.Bundle, error)
	Customers(ctx context.Context, segment string, limit int) ([]rfm.ScoredCustomer, error)
	SegmentSummary(ctx context.Context) ([]rfm.SegmentSummary, error)
	DailySales(ctx context.Context, from, to time.Time) ([]domain.DailySales, error)
	Performance(ctx context.Context, channel string, from, to time.Time) ([]domain.PerformanceRow, error)
	Health(ctx context.Context) (services.Health, error)
	RunPipeline(ctx context.Context) (*services.RunResult, error)
}
