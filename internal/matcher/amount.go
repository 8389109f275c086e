package matcher

import (
	"sort"

	"github.com/shopspring/decimal"

	"pos-reconciliation/internal/domain"
)

// classify applies the amount rule shared by every pass: zero variance is an
// exact match, a variance within tolerance is a tolerance match.
func classify(variance, tolerance decimal.Decimal) (domain.MatchStatus, bool) {
	if variance.IsZero() {
		return domain.StatusExact, true
	}
	if variance.Abs().LessThanOrEqual(tolerance) {
		return domain.StatusTolerance, true
	}
	return domain.StatusDiscrepancy, false
}

// matchByAmount pairs the records of one bucket greedily by descending
// amount. Each source record takes the first unused counterpart whose amount
// is equal or within tolerance. The records left over go to the token pass.
func matchByAmount(b *bucket, tolerance decimal.Decimal) (results []domain.MatchResult, restSources []*domain.SourceRecord, restCounterparts []*domain.CounterpartRecord) {
	sources := make([]*domain.SourceRecord, len(b.sources))
	copy(sources, b.sources)
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Amount.GreaterThan(sources[j].Amount)
	})

	counterparts := make([]*domain.CounterpartRecord, len(b.counterparts))
	copy(counterparts, b.counterparts)
	sort.SliceStable(counterparts, func(i, j int) bool {
		return counterparts[i].Amount.GreaterThan(counterparts[j].Amount)
	})

	used := make([]bool, len(counterparts))
	for _, src := range sources {
		matched := false
		for i, cp := range counterparts {
			if used[i] {
				continue
			}
			variance := src.Amount.Sub(cp.Amount)
			status, ok := classify(variance, tolerance)
			if !ok {
				continue
			}
			results = append(results, domain.MatchResult{
				Source:      src,
				Counterpart: cp,
				Variance:    variance,
				Status:      status,
			})
			used[i] = true
			matched = true
			break
		}
		if !matched {
			restSources = append(restSources, src)
		}
	}

	for i, cp := range counterparts {
		if !used[i] {
			restCounterparts = append(restCounterparts, cp)
		}
	}
	return results, restSources, restCounterparts
}
