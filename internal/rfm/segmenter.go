package rfm

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Segmenter runs the full RFM pipeline: raw value aggregation, quantile
// scoring and segment classification.
type Segmenter struct {
	catalogue *Catalogue
	nBins     int
	logger    *slog.Logger
}

// NewSegmenter creates a segmenter. A nil catalogue uses the embedded
// default; nBins below 1 uses DefaultBins.
func NewSegmenter(catalogue *Catalogue, nBins int, logger *slog.Logger) *Segmenter {
	if catalogue == nil {
		catalogue = DefaultCatalogue()
	}
	if nBins < 1 {
		nBins = DefaultBins
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Segmenter{catalogue: catalogue, nBins: nBins, logger: logger}
}

// Segment aggregates, scores and classifies every customer in the order
// history. A zero reference date defaults to the newest order date plus one
// day. An empty history degrades to an empty result; too few customers for
// the configured bin count is an error.
func (s *Segmenter) Segment(ctx context.Context, orders []Order, reference time.Time) ([]ScoredCustomer, error) {
	start := time.Now()

	customers := Calculate(orders, reference)
	if len(customers) == 0 {
		s.logger.InfoContext(ctx, "rfm segmentation skipped, no customers",
			"orders", len(orders))
		return nil, nil
	}

	scored, err := Score(customers, s.nBins)
	if err != nil {
		return nil, fmt.Errorf("segment customers: %w", err)
	}

	for i := range scored {
		segment := s.catalogue.Classify(scored[i].RScore, scored[i].FScore, scored[i].MScore)
		scored[i].Code = fmt.Sprintf("%d%d%d", scored[i].RScore, scored[i].FScore, scored[i].MScore)
		scored[i].Segment = segment.Name
		scored[i].Strategy = segment.Strategy
	}

	s.logger.InfoContext(ctx, "rfm segmentation completed",
		"customers", len(scored),
		"bins", s.nBins,
		"duration", time.Since(start),
	)

	return scored, nil
}

// Catalogue returns the segment catalogue the segmenter classifies against.
func (s *Segmenter) Catalogue() *Catalogue {
	return s.catalogue
}
