package rfm

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInsufficientCustomers is returned when the customer count cannot fill
// the requested number of quantile bins. Callers must lower the bin count
// or supply more history; silently reducing bins would corrupt the score
// scale.
var ErrInsufficientCustomers = errors.New("not enough customers for requested bin count")

// Score assigns quantile-based 1..nBins scores to every customer.
//
// All three dimensions are rank-transformed first, with ties broken by the
// customers' order in the input slice, then cut into equal-population bins
// along linearly interpolated quantile edges. Recency labels are reversed:
// the most recent purchasers score nBins, the oldest score 1. Frequency and
// Monetary score ascending.
//
// An empty input returns an empty result. Fewer customers than bins is a
// hard error wrapping ErrInsufficientCustomers.
func Score(customers []Customer, nBins int) ([]ScoredCustomer, error) {
	if nBins < 1 {
		return nil, fmt.Errorf("rfm scoring: bin count must be at least 1, got %d", nBins)
	}
	if len(customers) == 0 {
		return nil, nil
	}
	if len(customers) < nBins {
		return nil, fmt.Errorf("rfm scoring: %w: have %d customers, need at least %d for %d bins",
			ErrInsufficientCustomers, len(customers), nBins, nBins)
	}

	recency := make([]float64, len(customers))
	frequency := make([]float64, len(customers))
	monetary := make([]float64, len(customers))
	for i, c := range customers {
		recency[i] = float64(c.Recency)
		frequency[i] = float64(c.Frequency)
		monetary[i] = float64(c.Monetary)
	}

	recencyBins := quantileBins(recency, nBins)
	frequencyBins := quantileBins(frequency, nBins)
	monetaryBins := quantileBins(monetary, nBins)

	scored := make([]ScoredCustomer, len(customers))
	for i, c := range customers {
		scored[i] = ScoredCustomer{
			Customer: c,
			RScore:   nBins + 1 - recencyBins[i],
			FScore:   frequencyBins[i],
			MScore:   monetaryBins[i],
		}
	}
	return scored, nil
}

// quantileBins rank-transforms the values (stable, first-come tie-break)
// and assigns each a bin 1..nBins by cutting the rank distribution along
// linearly interpolated quantile edges. Ranks are distinct by construction,
// so the edges never collapse and each non-empty quantile slice populates
// its bin.
func quantileBins(values []float64, nBins int) []int {
	n := len(values)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	bins := make([]int, n)
	for pos, idx := range order {
		rank := pos + 1
		bins[idx] = binForRank(rank, n, nBins)
	}
	return bins
}

// binForRank places rank r of n into one of nBins equal-population buckets.
// The bucket of rank r is the smallest b with r <= 1 + (n-1)*b/nBins, the
// interval assignment a quantile cut over the ranks 1..n produces.
func binForRank(rank, n, nBins int) int {
	if n == 1 {
		return 1
	}
	bin := ((rank-1)*nBins + n - 2) / (n - 1)
	if bin < 1 {
		bin = 1
	}
	if bin > nBins {
		bin = nBins
	}
	return bin
}
