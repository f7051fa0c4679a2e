package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoppulse/internal/basket"
	"shoppulse/internal/config"
	"shoppulse/internal/rfm"
	"shoppulse/internal/services"
	"shoppulse/pkg/contracts/domain"
)

// stubService implements ReportService with overridable functions.
type stubService struct {
	itemsets        func(ctx context.Context, limit int) ([]basket.FrequentItemset, error)
	rules           func(ctx context.Context, limit int) ([]basket.Rule, error)
	recommendations func(ctx context.Context, product string, topN int) ([]basket.Recommendation, error)
	bundles         func(ctx context.Context, minLift, minConfidence float64, topN int) ([]basket.Bundle, error)
	customers       func(ctx context.Context, segment string, limit int) ([]rfm.ScoredCustomer, error)
	segmentSummary  func(ctx context.Context) ([]rfm.SegmentSummary, error)
	dailySales      func(ctx context.Context, from, to time.Time) ([]domain.DailySales, error)
	performance     func(ctx context.Context, channel string, from, to time.Time) ([]domain.PerformanceRow, error)
	health          func(ctx context.Context) (services.Health, error)
	runPipeline     func(ctx context.Context) (*services.RunResult, error)
}

func (s *stubService) Itemsets(ctx context.Context, limit int) ([]basket.FrequentItemset, error) {
	return s.itemsets(ctx, limit)
}

func (s *stubService) Rules(ctx context.Context, limit int) ([]basket.Rule, error) {
	return s.rules(ctx, limit)
}

func (s *stubService) Recommendations(ctx context.Context, product string, topN int) ([]basket.Recommendation, error) {
	return s.recommendations(ctx, product, topN)
}

func (s *stubService) Bundles(ctx context.Context, minLift, minConfidence float64, topN int) ([]basket.Bundle, error) {
	return s.bundles(ctx, minLift, minConfidence, topN)
}

func (s *stubService) Customers(ctx context.Context, segment string, limit int) ([]rfm.ScoredCustomer, error) {
	return s.customers(ctx, segment, limit)
}

func (s *stubService) SegmentSummary(ctx context.Context) ([]rfm.SegmentSummary, error) {
	return s.segmentSummary(ctx)
}

func (s *stubService) DailySales(ctx context.Context, from, to time.Time) ([]domain.DailySales, error) {
	return s.dailySales(ctx, from, to)
}

func (s *stubService) Performance(ctx context.Context, channel string, from, to time.Time) ([]domain.PerformanceRow, error) {
	return s.performance(ctx, channel, from, to)
}

func (s *stubService) Health(ctx context.Context) (services.Health, error) {
	return s.health(ctx)
}

func (s *stubService) RunPipeline(ctx context.Context) (*services.RunResult, error) {
	return s.runPipeline(ctx)
}

func emptyStub() *stubService {
	return &stubService{
		itemsets: func(context.Context, int) ([]basket.FrequentItemset, error) {
			return []basket.FrequentItemset{}, nil
		},
		rules: func(context.Context, int) ([]basket.Rule, error) {
			return []basket.Rule{}, nil
		},
		recommendations: func(context.Context, string, int) ([]basket.Recommendation, error) {
			return []basket.Recommendation{}, nil
		},
		bundles: func(context.Context, float64, float64, int) ([]basket.Bundle, error) {
			return []basket.Bundle{}, nil
		},
		customers: func(context.Context, string, int) ([]rfm.ScoredCustomer, error) {
			return []rfm.ScoredCustomer{}, nil
		},
		segmentSummary: func(context.Context) ([]rfm.SegmentSummary, error) {
			return []rfm.SegmentSummary{}, nil
		},
		dailySales: func(context.Context, time.Time, time.Time) ([]domain.DailySales, error) {
			return []domain.DailySales{}, nil
		},
		performance: func(context.Context, string, time.Time, time.Time) ([]domain.PerformanceRow, error) {
			return []domain.PerformanceRow{}, nil
		},
		health: func(context.Context) (services.Health, error) {
			return services.Health{Status: "healthy"}, nil
		},
		runPipeline: func(context.Context) (*services.RunResult, error) {
			return &services.RunResult{RunID: "run-test"}, nil
		},
	}
}

func testRouter(svc ReportService) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	cfg.Server.RateLimitRPS = 1000
	cfg.Server.RateLimitBurst = 1000
	return NewRouter(cfg, svc, logger)
}

func doRequest(t *testing.T, handler http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestGetItemsets(t *testing.T) {
	svc := emptyStub()
	svc.itemsets = func(_ context.Context, limit int) ([]basket.FrequentItemset, error) {
		assert.Equal(t, 5, limit)
		return []basket.FrequentItemset{
			{Items: []string{"Serum", "Toner"}, Support: 0.4, Size: 2},
		}, nil
	}

	rec := doRequest(t, testRouter(svc), http.MethodGet, "/api/itemsets?limit=5")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []basket.FrequentItemset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, []string{"Serum", "Toner"}, got[0].Items)
}

func TestGetItemsetsInvalidLimit(t *testing.T) {
	rec := doRequest(t, testRouter(emptyStub()), http.MethodGet, "/api/itemsets?limit=abc")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_PARAMETER")
}

func TestEmptyResultsRenderAsArrays(t *testing.T) {
	router := testRouter(emptyStub())

	for _, target := range []string{
		"/api/itemsets",
		"/api/rules",
		"/api/bundles",
		"/api/products/Serum/recommendations",
		"/api/segments",
		"/api/segments/summary",
		"/api/sales/daily",
		"/api/performance",
	} {
		t.Run(target, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodGet, target)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, "[]", rec.Body.String())
		})
	}
}

func TestGetRecommendationsPassesProduct(t *testing.T) {
	svc := emptyStub()
	svc.recommendations = func(_ context.Context, product string, topN int) ([]basket.Recommendation, error) {
		assert.Equal(t, "Vitamin C Serum", product)
		assert.Equal(t, 3, topN)
		return []basket.Recommendation{{Product: "Toner", Lift: 1.4}}, nil
	}

	rec := doRequest(t, testRouter(svc), http.MethodGet,
		"/api/products/Vitamin%20C%20Serum/recommendations?top=3")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Toner")
}

func TestGetSegmentsBinningFailure(t *testing.T) {
	svc := emptyStub()
	svc.customers = func(context.Context, string, int) ([]rfm.ScoredCustomer, error) {
		return nil, fmt.Errorf("scoring customers: %w", rfm.ErrInsufficientCustomers)
	}

	rec := doRequest(t, testRouter(svc), http.MethodGet, "/api/segments")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "BINNING_FAILED")
}

func TestGetDailySalesWindow(t *testing.T) {
	svc := emptyStub()
	svc.dailySales = func(_ context.Context, from, to time.Time) ([]domain.DailySales, error) {
		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), to)
		return []domain.DailySales{}, nil
	}

	rec := doRequest(t, testRouter(svc), http.MethodGet, "/api/sales/daily?from=2026-01-01&to=2026-01-31")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetDailySalesBadDate(t *testing.T) {
	rec := doRequest(t, testRouter(emptyStub()), http.MethodGet, "/api/sales/daily?from=January")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPerformanceChannelFilter(t *testing.T) {
	svc := emptyStub()
	svc.performance = func(_ context.Context, channel string, from, to time.Time) ([]domain.PerformanceRow, error) {
		assert.Equal(t, "live", channel)
		assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), from)
		assert.True(t, to.IsZero())
		return []domain.PerformanceRow{
			{Platform: domain.PlatformTikTok, Channel: domain.ChannelLive, Name: "shop_host", GMV: 8900.5},
		}, nil
	}

	rec := doRequest(t, testRouter(svc), http.MethodGet, "/api/performance?channel=live&from=2026-02-01")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shop_host")
}

func TestGetPerformanceBadDate(t *testing.T) {
	rec := doRequest(t, testRouter(emptyStub()), http.MethodGet, "/api/performance?to=soon")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetHealth(t *testing.T) {
	rec := doRequest(t, testRouter(emptyStub()), http.MethodGet, "/api/health")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestTriggerRun(t *testing.T) {
	rec := doRequest(t, testRouter(emptyStub()), http.MethodPost, "/api/runs")

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "run-test")
}

func TestMetricsEndpoint(t *testing.T) {
	rec := doRequest(t, testRouter(emptyStub()), http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDHeaderSet(t *testing.T) {
	rec := doRequest(t, testRouter(emptyStub()), http.MethodGet, "/api/health")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
