// Package http provides the report API transport: routing, handlers and
// JSON rendering on top of the application service layer.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shoppulse/internal/config"
	apierrors "shoppulse/internal/errors"
	"shoppulse/internal/middleware"
)

// NewRouter assembles the full HTTP surface: middleware chain, the
// report API under /api and the prometheus scrape endpoint.
func NewRouter(cfg *config.Config, service ReportService, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.SecurityHeaders)

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, logger)
	r.Use(limiter.Handler)

	errorHandler := apierrors.NewErrorHandler(logger)
	reports := NewReportHandler(service, logger, errorHandler)
	r.Mount("/api", reports.Routes())

	r.Handle("/metrics", promhttp.Handler())

	return r
}
