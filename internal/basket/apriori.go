package basket

import (
	"sort"
)

// MineFrequentItemsets runs a level-wise Apriori search over the presence
// matrix and returns every itemset of size 1..maxLength whose support is at
// least minSupport.
//
// Candidates at size k are generated by pairwise union of the size-(k-1)
// survivors; unions that do not have exactly k members are discarded and the
// rest deduplicated. This admits some candidates a strict anti-monotone
// subset check would prune, but the support test against the matrix discards
// them again, so the surviving set is identical. Each level's candidates are
// evaluated in canonical order, which makes discovery order deterministic.
//
// The result is sorted by descending support; on ties the discovery order is
// preserved, so smaller itemsets sort before larger ones.
//
// An empty matrix yields an empty result. Mining stops early at the first
// level with no surviving candidates.
func MineFrequentItemsets(m *Matrix, minSupport float64, maxLength int) []FrequentItemset {
	total := m.Orders()
	if total == 0 {
		return nil
	}

	var all []FrequentItemset

	var current []FrequentItemset
	for _, product := range m.Products() {
		support := m.Support([]string{product})
		if support >= minSupport {
			current = append(current, FrequentItemset{
				Items:   []string{product},
				Support: support,
				Size:    1,
			})
		}
	}
	all = append(all, current...)

	for size := 2; size <= maxLength && len(current) > 1; size++ {
		candidates := generateCandidates(current, size)
		var next []FrequentItemset
		for _, items := range candidates {
			support := m.Support(items)
			if support >= minSupport {
				next = append(next, FrequentItemset{
					Items:   items,
					Support: support,
					Size:    size,
				})
			}
		}
		if len(next) == 0 {
			break
		}
		all = append(all, next...)
		current = next
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Support > all[j].Support
	})

	return all
}

// generateCandidates unions every pair of survivors from the previous level
// and keeps the deduplicated unions that have exactly size members, in
// canonical key order.
func generateCandidates(prev []FrequentItemset, size int) [][]string {
	seen := make(map[string][]string)
	for i := 0; i < len(prev); i++ {
		for j := i + 1; j < len(prev); j++ {
			union := unionSorted(prev[i].Items, prev[j].Items)
			if len(union) != size {
				continue
			}
			key := itemsetKey(union)
			if _, ok := seen[key]; !ok {
				seen[key] = union
			}
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	candidates := make([][]string, 0, len(keys))
	for _, key := range keys {
		candidates = append(candidates, seen[key])
	}
	return candidates
}

// unionSorted merges two sorted item slices into a sorted slice without
// duplicates.
func unionSorted(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
