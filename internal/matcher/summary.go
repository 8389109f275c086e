package matcher

import (
	"github.com/shopspring/decimal"

	"pos-reconciliation/internal/domain"
)

// summarize groups results by (branch, date), preferring the counterpart side
// of a result for the key. Groups keep first-appearance order.
func summarize(resolver *BranchResolver, results []domain.MatchResult) []domain.GroupedSummary {
	var summaries []domain.GroupedSummary
	index := make(map[string]int)

	for _, r := range results {
		var branch, day string
		switch {
		case r.Counterpart != nil:
			branch, day = counterpartBranch(r.Counterpart), domain.DayKey(r.Counterpart.CreatedOn)
		case r.Source != nil:
			branch, day = resolver.CanonicalBranch(r.Source), domain.DayKey(r.Source.OrderDate)
		default:
			continue
		}

		key := bucketKey(branch, day)
		i, ok := index[key]
		if !ok {
			i = len(summaries)
			index[key] = i
			summaries = append(summaries, domain.GroupedSummary{Branch: branch, Date: day})
		}
		s := &summaries[i]
		s.Items = append(s.Items, r)
		s.Total++
		if r.Status == domain.StatusExact {
			s.Exact++
		}
	}

	for i := range summaries {
		s := &summaries[i]
		s.Issues = s.Total - s.Exact
		s.MatchRate = matchRate(s.Exact, s.Total)
	}
	return summaries
}

func matchRate(exact, total int) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(exact)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2).
		InexactFloat64()
}
