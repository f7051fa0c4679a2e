package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// pipelineRunsTotal counts pipeline runs by outcome.
	pipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoppulse_pipeline_runs_total",
			Help: "Total number of analytics pipeline runs",
		},
		[]string{"status"},
	)

	// pipelineDuration tracks full pipeline run latency.
	pipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shoppulse_pipeline_duration_seconds",
			Help:    "Duration of full analytics pipeline runs in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	// pipelineRows reports how much data the last run produced, by table.
	pipelineRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "shoppulse_pipeline_rows",
			Help: "Rows produced by the last pipeline run, per result table",
		},
		[]string{"table"},
	)
)
