package basket

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
)

// Analyzer runs the full basket analysis pipeline: matrix construction,
// frequent-itemset mining and rule generation.
type Analyzer struct {
	cfg      Config
	logger   *slog.Logger
	validate *validator.Validate
}

// NewAnalyzer creates an analyzer with the given thresholds.
func NewAnalyzer(cfg Config, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		cfg:      cfg,
		logger:   logger,
		validate: validator.New(),
	}
}

// Analyze builds the presence matrix from the transaction rows, mines
// frequent itemsets and generates association rules. Empty input degrades
// to an empty result; invalid thresholds are the only error condition.
func (a *Analyzer) Analyze(ctx context.Context, rows []Transaction) (*Result, error) {
	start := time.Now()

	if err := a.validate.Struct(a.cfg); err != nil {
		return nil, fmt.Errorf("validate basket config: %w", err)
	}

	matrix := BuildMatrix(rows)
	a.logger.InfoContext(ctx, "built basket matrix",
		"transactions", len(rows),
		"orders", matrix.Orders(),
		"products", len(matrix.Products()),
	)

	itemsets := MineFrequentItemsets(matrix, a.cfg.MinSupport, a.cfg.MaxLength)
	rules := GenerateRules(itemsets, a.cfg.MinConfidence, a.cfg.MinLift)

	a.logger.InfoContext(ctx, "basket analysis completed",
		"frequent_itemsets", len(itemsets),
		"rules", len(rules),
		"min_support", a.cfg.MinSupport,
		"min_confidence", a.cfg.MinConfidence,
		"min_lift", a.cfg.MinLift,
		"duration", time.Since(start),
	)

	return &Result{
		Itemsets: itemsets,
		Rules:    rules,
		Orders:   matrix.Orders(),
		Products: len(matrix.Products()),
	}, nil
}
