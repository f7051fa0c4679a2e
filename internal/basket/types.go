package basket

import (
	"strings"
)

// itemsetSep joins product identifiers into map keys. Product names in
// marketplace exports contain commas and pipes, so use a control character
// that cannot appear in cell text.
const itemsetSep = "\x1f"

// Transaction is one (order, product) line-item as handed over by the ETL
// layer. Quantity is the summed unit count for the pair; rows missing an
// order or product identifier are dropped during matrix construction.
type Transaction struct {
	OrderID   string  `json:"order_id"`
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

// Config holds the thresholds for a basket analysis run. Defaults mirror
// the values used for the marketplace dashboards.
type Config struct {
	MinSupport    float64 `json:"min_support" validate:"gt=0,lte=1"`
	MinConfidence float64 `json:"min_confidence" validate:"gte=0,lte=1"`
	MinLift       float64 `json:"min_lift" validate:"gte=0"`
	MaxLength     int     `json:"max_length" validate:"gte=1"`
}

// DefaultConfig returns the thresholds used by the scheduled pipeline runs.
func DefaultConfig() Config {
	return Config{
		MinSupport:    0.005,
		MinConfidence: 0.2,
		MinLift:       1.0,
		MaxLength:     3,
	}
}

// FrequentItemset is one itemset that met the minimum support threshold.
// Items is canonically sorted; Support is an exact fraction of all orders.
type FrequentItemset struct {
	Items   []string `json:"items"`
	Support float64  `json:"support"`
	Size    int      `json:"size"`
}

// Key returns the canonical map key for the itemset.
func (fi FrequentItemset) Key() string {
	return itemsetKey(fi.Items)
}

// Rule is a directional association rule derived from one frequent itemset.
// Antecedent and Consequent are disjoint, non-empty and canonically sorted.
type Rule struct {
	Antecedent        []string `json:"antecedent"`
	Consequent        []string `json:"consequent"`
	AntecedentSupport float64  `json:"antecedent_support"`
	ConsequentSupport float64  `json:"consequent_support"`
	Support           float64  `json:"support"`
	Confidence        float64  `json:"confidence"`
	Lift              float64  `json:"lift"`
}

// Recommendation is one consequent product suggested for a given antecedent
// product, carrying the metrics of the strongest rule that produced it.
type Recommendation struct {
	Product    string  `json:"product"`
	Support    float64 `json:"support"`
	Confidence float64 `json:"confidence"`
	Lift       float64 `json:"lift"`
}

// Bundle is a cross-sell opportunity rendered for the reporting layer.
type Bundle struct {
	Label      string   `json:"bundle"`
	Antecedent []string `json:"antecedent"`
	Consequent []string `json:"consequent"`
	Support    float64  `json:"support"`
	Confidence float64  `json:"confidence"`
	Lift       float64  `json:"lift"`
}

// Result aggregates the output of one full basket analysis run.
type Result struct {
	Itemsets []FrequentItemset `json:"itemsets"`
	Rules    []Rule            `json:"rules"`
	Orders   int               `json:"orders"`
	Products int               `json:"products"`
}

func itemsetKey(items []string) string {
	return strings.Join(items, itemsetSep)
}
