package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "shoppulse/internal/errors"
)

// ReportHandler serves the analytics report API.
type ReportHandler struct {
	service      ReportService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a report handler.
func NewReportHandler(service ReportService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report API routes.
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/itemsets", h.GetItemsets)
	r.Get("/rules", h.GetRules)
	r.Get("/bundles", h.GetBundles)
	r.Get("/products/{product}/recommendations", h.GetRecommendations)
	r.Get("/segments", h.GetSegments)
	r.Get("/segments/summary", h.GetSegmentSummary)
	r.Get("/sales/daily", h.GetDailySales)
	r.Get("/performance", h.GetPerformance)
	r.Get("/health", h.GetHealth)
	r.Post("/runs", h.TriggerRun)

	return r
}

// queryInt parses an optional integer query parameter, returning def
// when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func queryFloat(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func queryDate(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", raw)
}

// GetItemsets returns frequent itemsets in mining order.
// GET /api/itemsets?limit=N
func (h *ReportHandler) GetItemsets(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameterError("limit", err))
		return
	}

	itemsets, err := h.service.Itemsets(r.Context(), limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, itemsets)
}

// GetRules returns association rules in lift order.
// GET /api/rules?limit=N
func (h *ReportHandler) GetRules(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameterError("limit", err))
		return
	}

	rules, err := h.service.Rules(r.Context(), limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, rules)
}

// GetRecommendations returns cross-sell suggestions for one product.
// GET /api/products/{product}/recommendations?top=N
func (h *ReportHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	product, err := url.PathUnescape(chi.URLParam(r, "product"))
	if err != nil || product == "" {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameterError("product", err))
		return
	}

	topN, err := queryInt(r, "top", 10)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameterError("top", err))
		return
	}

	recs, err := h.service.Recommendations(r.Context(), product, topN)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, recs)
}

// GetBundles returns bundle opportunities.
// GET /api/bundles?min_lift=X&min_confidence=Y&top=N
func (h *ReportHandler) GetBundles(w http.ResponseWriter, r *http.Request) {
	minLift, err := queryFloat(r, "min_lift", 1.2)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameterError("min_lift", err))
		return
	}
	minConfidence, err := queryFloat(r, "min_confidence", 0.3)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameterError("min_confidence", err))
		return
	}
	topN, err := queryInt(r, "top", 10)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameterError("top", err))
		return
	}

	bundles, err := h.service.Bundles(r.Context(), minLift, minConfidence, topN)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, bundles)
}

// GetSegments returns scored customers, optionally one segment.
// GET /api/segments?segment=Champions&limit=N
func (h *ReportHandler) GetSegments(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameterError("limit", err))
		return
	}

	customers, err := h.service.Customers(r.Context(), r.URL.Query().Get("segment"), limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, customers)
}

// GetSegmentSummary returns the per-segment rollup.
// GET /api/segments/summary
func (h *ReportHandler) GetSegmentSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.SegmentSummary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetDailySales returns the daily sales rollup for a date window.
// GET /api/sales/daily?from=2026-01-01&to=2026-01-31
func (h *ReportHandler) GetDailySales(w http.ResponseWriter, r *http.Request) {
	from, err := queryDate(r, "from")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameterError("from", err))
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameterError("to", err))
		return
	}

	sales, err := h.service.DailySales(r.Context(), from, to)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, sales)
}

// GetPerformance returns channel performance rows for a date window,
// optionally filtered to one channel (ads, live, video).
// GET /api/performance?channel=live&from=2026-01-01&to=2026-01-31
func (h *ReportHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	from, err := queryDate(r, "from")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameterError("from", err))
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameterError("to", err))
		return
	}

	rows, err := h.service.Performance(r.Context(), r.URL.Query().Get("channel"), from, to)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}

// GetHealth reports cache reachability and the last completed run.
// GET /api/health
func (h *ReportHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	health, err := h.service.Health(r.Context())
	if err != nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, health)
		return
	}
	render.JSON(w, r, health)
}

// TriggerRun starts a synchronous pipeline run.
// POST /api/runs
func (h *ReportHandler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.RunPipeline(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, result)
}
