package basket

import (
	"sort"
)

// GenerateRules derives association rules from the frequent-itemset table.
//
// Every frequent itemset of size >= 2 is split into every non-empty
// antecedent/consequent bipartition. A split is skipped when the antecedent
// or consequent is itself absent from the frequent-itemset table, since its
// support is then unknown. Surviving rules satisfy both thresholds:
// confidence = support(union)/support(antecedent) >= minConfidence, and
// lift = confidence/support(consequent) >= minLift (lift is 0 when the
// consequent support is 0).
//
// Rules from different parent itemsets are not deduplicated. The result is
// sorted by descending lift with generation order as the stable tie-break.
func GenerateRules(itemsets []FrequentItemset, minConfidence, minLift float64) []Rule {
	supports := make(map[string]float64, len(itemsets))
	for _, fi := range itemsets {
		supports[fi.Key()] = fi.Support
	}

	var rules []Rule
	for _, fi := range itemsets {
		if fi.Size < 2 {
			continue
		}
		for _, antecedent := range properSubsets(fi.Items) {
			consequent := difference(fi.Items, antecedent)
			if len(consequent) == 0 {
				continue
			}

			antecedentSupport, ok := supports[itemsetKey(antecedent)]
			if !ok || antecedentSupport == 0 {
				continue
			}

			confidence := fi.Support / antecedentSupport
			if confidence < minConfidence {
				continue
			}

			consequentSupport, ok := supports[itemsetKey(consequent)]
			if !ok {
				continue
			}

			lift := 0.0
			if consequentSupport > 0 {
				lift = confidence / consequentSupport
			}
			if lift < minLift {
				continue
			}

			rules = append(rules, Rule{
				Antecedent:        antecedent,
				Consequent:        consequent,
				AntecedentSupport: antecedentSupport,
				ConsequentSupport: consequentSupport,
				Support:           fi.Support,
				Confidence:        confidence,
				Lift:              lift,
			})
		}
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Lift > rules[j].Lift
	})

	return rules
}

// properSubsets enumerates every non-empty proper subset of the sorted item
// slice, in increasing subset size and lexicographic order within a size.
func properSubsets(items []string) [][]string {
	var subsets [][]string
	for size := 1; size < len(items); size++ {
		combinations(items, size, func(subset []string) {
			out := make([]string, len(subset))
			copy(out, subset)
			subsets = append(subsets, out)
		})
	}
	return subsets
}

// combinations visits every size-k combination of items, preserving order.
func combinations(items []string, k int, visit func([]string)) {
	indices := make([]int, k)
	for i := range indices {
		indices[i] = i
	}
	subset := make([]string, k)
	for {
		for i, idx := range indices {
			subset[i] = items[idx]
		}
		visit(subset)

		// Advance to the next combination.
		i := k - 1
		for i >= 0 && indices[i] == len(items)-k+i {
			i--
		}
		if i < 0 {
			return
		}
		indices[i]++
		for j := i + 1; j < k; j++ {
			indices[j] = indices[j-1] + 1
		}
	}
}

// difference returns the members of items not present in exclude; both
// slices are sorted and the result preserves the canonical order.
func difference(items, exclude []string) []string {
	out := make([]string, 0, len(items)-len(exclude))
	j := 0
	for _, item := range items {
		if j < len(exclude) && exclude[j] == item {
			j++
			continue
		}
		out = append(out, item)
	}
	return out
}
