package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shoppulse/internal/basket"
	"shoppulse/internal/rfm"
	"shoppulse/internal/storage"
	"shoppulse/pkg/contracts/domain"
)

// Itemsets returns cached frequent itemsets in mining order.
func (s *AnalyticsService) Itemsets(ctx context.Context, limit int) ([]basket.FrequentItemset, error) {
	return s.store.Itemsets(ctx, limit)
}

// Rules returns cached association rules in lift order.
func (s *AnalyticsService) Rules(ctx context.Context, limit int) ([]basket.Rule, error) {
	return s.store.Rules(ctx, limit)
}

// Recommendations returns the cross-sell suggestions for one product.
func (s *AnalyticsService) Recommendations(ctx context.Context, product string, topN int) ([]basket.Recommendation, error) {
	rules, err := s.store.Rules(ctx, 0)
	if err != nil {
		return nil, err
	}
	recs := basket.Recommendations(rules, product, topN)
	if recs == nil {
		recs = []basket.Recommendation{}
	}
	return recs, nil
}

// Bundles returns bundle opportunities above the given thresholds.
func (s *AnalyticsService) Bundles(ctx context.Context, minLift, minConfidence float64, topN int) ([]basket.Bundle, error) {
	rules, err := s.store.Rules(ctx, 0)
	if err != nil {
		return nil, err
	}
	bundles := basket.Bundles(rules, minLift, minConfidence, topN)
	if bundles == nil {
		bundles = []basket.Bundle{}
	}
	return bundles, nil
}

// Customers returns scored customers, optionally filtered to a segment.
func (s *AnalyticsService) Customers(ctx context.Context, segment string, limit int) ([]rfm.ScoredCustomer, error) {
	return s.store.Customers(ctx, segment, limit)
}

// SegmentSummary returns the per-segment rollup of the cached customer
// base, ordered by total monetary value.
func (s *AnalyticsService) SegmentSummary(ctx context.Context) ([]rfm.SegmentSummary, error) {
	scored, err := s.store.Customers(ctx, "", 0)
	if err != nil {
		return nil, err
	}
	return rfm.Summarize(scored), nil
}

// DailySales returns the cached daily sales rollup for the given window.
func (s *AnalyticsService) DailySales(ctx context.Context, from, to time.Time) ([]domain.DailySales, error) {
	return s.store.DailySales(ctx, from, to)
}

// Performance returns the cached channel performance rows, optionally
// filtered to one channel and a date window.
func (s *AnalyticsService) Performance(ctx context.Context, channel string, from, to time.Time) ([]domain.PerformanceRow, error) {
	return s.store.Performance(ctx, channel, from, to)
}

// Health reports storage reachability and the last completed run, if any.
type Health struct {
	Status  string             `json:"status"`
	LastRun *storage.RunRecord `json:"last_run,omitempty"`
}

// Health pings the cache and fetches the last run record. A cache with
// no completed runs is still healthy, just empty.
func (s *AnalyticsService) Health(ctx context.Context) (Health, error) {
	if err := s.store.Ping(ctx); err != nil {
		return Health{Status: "unhealthy"}, err
	}
	run, err := s.store.LastRun(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Health{Status: "healthy"}, nil
		}
		return Health{Status: "unhealthy"}, err
	}
	return Health{Status: "healthy", LastRun: &run}, nil
}
