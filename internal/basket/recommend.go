package basket

import (
	"strings"
)

// Recommendations returns up to topN consequent products from rules whose
// antecedent contains the given product. Consequents are flattened across
// rules and deduplicated keeping the highest-lift occurrence; because the
// rule table is sorted by descending lift, the first occurrence wins and the
// result stays sorted.
func Recommendations(rules []Rule, product string, topN int) []Recommendation {
	seen := make(map[string]bool)
	var recs []Recommendation
	for _, rule := range rules {
		if !containsItem(rule.Antecedent, product) {
			continue
		}
		for _, consequent := range rule.Consequent {
			if seen[consequent] {
				continue
			}
			seen[consequent] = true
			recs = append(recs, Recommendation{
				Product:    consequent,
				Support:    rule.Support,
				Confidence: rule.Confidence,
				Lift:       rule.Lift,
			})
			if topN > 0 && len(recs) == topN {
				return recs
			}
		}
	}
	return recs
}

// CrossSell returns just the product names from Recommendations.
func CrossSell(rules []Rule, product string, topN int) []string {
	recs := Recommendations(rules, product, topN)
	products := make([]string, 0, len(recs))
	for _, rec := range recs {
		products = append(products, rec.Product)
	}
	return products
}

// Bundles filters the rule table by the stricter thresholds used for bundle
// reporting and returns up to topN bundles by descending lift, each with a
// rendered "A, B -> C" label.
func Bundles(rules []Rule, minLift, minConfidence float64, topN int) []Bundle {
	var bundles []Bundle
	for _, rule := range rules {
		if rule.Lift < minLift || rule.Confidence < minConfidence {
			continue
		}
		bundles = append(bundles, Bundle{
			Label:      strings.Join(rule.Antecedent, ", ") + " → " + strings.Join(rule.Consequent, ", "),
			Antecedent: rule.Antecedent,
			Consequent: rule.Consequent,
			Support:    rule.Support,
			Confidence: rule.Confidence,
			Lift:       rule.Lift,
		})
		if topN > 0 && len(bundles) == topN {
			break
		}
	}
	return bundles
}

func containsItem(items []string, item string) bool {
	for _, candidate := range items {
		if candidate == item {
			return true
		}
	}
	return false
}
