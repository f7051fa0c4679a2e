package rfm

import (
	"sort"
)

// Summarize rolls the scored customers up into one row per segment with
// customer counts, dimension averages and revenue shares, sorted by total
// monetary value descending.
func Summarize(scored []ScoredCustomer) []SegmentSummary {
	type agg struct {
		customers int
		recency   int
		frequency int
		monetary  float64
	}

	bySegment := make(map[string]*agg)
	totalMonetary := 0.0
	for _, c := range scored {
		a, ok := bySegment[c.Segment]
		if !ok {
			a = &agg{}
			bySegment[c.Segment] = a
		}
		a.customers++
		a.recency += c.Recency
		a.frequency += c.Frequency
		a.monetary += c.Monetary
		totalMonetary += c.Monetary
	}

	summaries := make([]SegmentSummary, 0, len(bySegment))
	for segment, a := range bySegment {
		row := SegmentSummary{
			Segment:       segment,
			Customers:     a.customers,
			AvgRecency:    float64(a.recency) / float64(a.customers),
			AvgFrequency:  float64(a.frequency) / float64(a.customers),
			AvgMonetary:   a.monetary / float64(a.customers),
			TotalMonetary: a.monetary,
			PctCustomers:  float64(a.customers) / float64(len(scored)) * 100,
		}
		if totalMonetary != 0 {
			row.PctRevenue = a.monetary / totalMonetary * 100
		}
		summaries = append(summaries, row)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].TotalMonetary != summaries[j].TotalMonetary {
			return summaries[i].TotalMonetary > summaries[j].TotalMonetary
		}
		return summaries[i].Segment < summaries[j].Segment
	})

	return summaries
}

// CampaignTargets returns the customers belonging to any of the given
// segments, highest spenders first. A limit of 0 returns all matches.
func CampaignTargets(scored []ScoredCustomer, segments []string, limit int) []ScoredCustomer {
	wanted := make(map[string]bool, len(segments))
	for _, s := range segments {
		wanted[s] = true
	}

	var targets []ScoredCustomer
	for _, c := range scored {
		if wanted[c.Segment] {
			targets = append(targets, c)
		}
	}

	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].Monetary > targets[j].Monetary
	})

	if limit > 0 && len(targets) > limit {
		targets = targets[:limit]
	}
	return targets
}
