package matcher

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-reconciliation/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestEngine(tolerance string, mappings ...domain.BranchMapping) *Engine {
	opts := DefaultOptions()
	opts.Tolerance = amt(tolerance)
	return NewEngine(NewBranchResolver(mappings), opts)
}

func statuses(results []domain.MatchResult) []domain.MatchStatus {
	out := make([]domain.MatchStatus, len(results))
	for i, r := range results {
		out[i] = r.Status
	}
	return out
}

func TestEngine_Match_ExactMatch(t *testing.T) {
	sources := []domain.SourceRecord{
		{ID: 1, BranchName: "X", OrderDate: day("2026-01-05"), Amount: amt("500.00")},
	}
	counterparts := []domain.CounterpartRecord{
		{ID: 10, StoreName: "X", CreatedOn: day("2026-01-05"), Amount: amt("500.00")},
	}

	results := newTestEngine("0.01").Match(sources, counterparts)

	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusExact, results[0].Status)
	assert.True(t, results[0].Variance.IsZero())
	assert.Equal(t, int64(1), results[0].Source.ID)
	assert.Equal(t, int64(10), results[0].Counterpart.ID)
	assert.Equal(t, "Amounts matched exactly", results[0].Note())
}

func TestEngine_Match_ToleranceMatch(t *testing.T) {
	sources := []domain.SourceRecord{
		{ID: 1, BranchName: "X", OrderDate: day("2026-01-05"), Amount: amt("500.00")},
	}
	counterparts := []domain.CounterpartRecord{
		{ID: 10, StoreName: "X", CreatedOn: day("2026-01-05"), Amount: amt("500.005")},
	}

	results := newTestEngine("0.01").Match(sources, counterparts)

	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusTolerance, results[0].Status)
	assert.True(t, results[0].Variance.Equal(amt("-0.005")), "variance = %s", results[0].Variance)
	assert.Equal(t, "Within tolerance. Variance: -0.01", results[0].Note())
}

func TestEngine_Match_TokenFallback(t *testing.T) {
	sources := []domain.SourceRecord{
		{ID: 1, BranchName: "X", OrderDate: day("2026-01-05"), Amount: amt("450.00"), CustomerID: "G-1234"},
	}
	counterparts := []domain.CounterpartRecord{
		{ID: 10, StoreName: "X", CreatedOn: day("2026-01-05"), Amount: amt("500.00"), BookingID: "A-88221234"},
	}

	results := newTestEngine("0.01").Match(sources, counterparts)

	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, int64(1), r.Source.ID)
	assert.Equal(t, int64(10), r.Counterpart.ID)
	assert.True(t, r.Variance.Equal(amt("-50")))
	assert.Equal(t, domain.StatusDiscrepancy, r.Status)
	assert.Equal(t, "Amount discrepancy. Variance: -50.00", r.Note())
}

func TestEngine_Match_ChargebackAcrossDates(t *testing.T) {
	sources := []domain.SourceRecord{
		{ID: 2, BranchName: "X", OrderDate: day("2026-02-02"), Amount: amt("500.00")},
	}
	counterparts := []domain.CounterpartRecord{
		{ID: 20, StoreName: "X", CreatedOn: day("2026-02-10"), Amount: amt("-500.00"), OrderType: "Auto-Chargeback"},
	}

	results := newTestEngine("0.01").Match(sources, counterparts)

	require.Len(t, results, 1, "the standalone sale entry must be absorbed")
	r := results[0]
	assert.Equal(t, domain.StatusChargeback, r.Status)
	assert.True(t, r.Variance.IsZero())
	assert.Equal(t, int64(2), r.Source.ID)
	assert.Equal(t, int64(20), r.Counterpart.ID)
	assert.Equal(t, "Auto-Chargeback linked to POS sale (2026-02-02)", r.Note())
}

func TestEngine_Match_EmptyCounterpartBucket(t *testing.T) {
	sources := []domain.SourceRecord{
		{ID: 1, BranchName: "Y", OrderDate: day("2026-01-06"), Amount: amt("120.50")},
		{ID: 2, BranchName: "Y", OrderDate: day("2026-01-06"), Amount: amt("80.00")},
	}

	e := newTestEngine("0.01")
	results := e.Match(sources, nil)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, domain.StatusUnmatched, r.Status)
		assert.Nil(t, r.Counterpart)
		assert.True(t, r.Variance.Equal(r.Source.Amount))
		assert.Equal(t, "Missing in delivery platform", r.Note())
	}

	summary := e.Summarize(results)
	require.Len(t, summary, 1)
	assert.Equal(t, "Y", summary[0].Branch)
	assert.Equal(t, "2026-01-06", summary[0].Date)
	assert.Equal(t, 2, summary[0].Total)
	assert.Equal(t, 2, summary[0].Issues)
	assert.Equal(t, 0.0, summary[0].MatchRate)
}

func TestEngine_Match_DescendingAmountOrder(t *testing.T) {
	sources := []domain.SourceRecord{
		{ID: 1, BranchName: "X", OrderDate: day("2026-01-05"), Amount: amt("100")},
		{ID: 2, BranchName: "X", OrderDate: day("2026-01-05"), Amount: amt("300")},
		{ID: 3, BranchName: "X", OrderDate: day("2026-01-05"), Amount: amt("200")},
	}
	counterparts := []domain.CounterpartRecord{
		{ID: 11, StoreName: "X", CreatedOn: day("2026-01-05"), Amount: amt("300")},
		{ID: 12, StoreName: "X", CreatedOn: day("2026-01-05"), Amount: amt("100")},
		{ID: 13, StoreName: "X", CreatedOn: day("2026-01-05"), Amount: amt("200")},
	}

	results := newTestEngine("0.01").Match(sources, counterparts)

	require.Len(t, results, 3)
	var pairs [][2]int64
	for _, r := range results {
		assert.Equal(t, domain.StatusExact, r.Status)
		pairs = append(pairs, [2]int64{r.Source.ID, r.Counterpart.ID})
	}
	assert.Equal(t, [][2]int64{{2, 11}, {3, 13}, {1, 12}}, pairs)
}

func TestEngine_Match_GreedyTakesFirstCandidateWithinTolerance(t *testing.T) {
	sources := []domain.SourceRecord{
		{ID: 1, BranchName: "X", OrderDate: day("2026-01-05"), Amount: amt("10.03")},
	}
	counterparts := []domain.CounterpartRecord{
		{ID: 11, StoreName: "X", CreatedOn: day("2026-01-05"), Amount: amt("10.03")},
		{ID: 12, StoreName: "X", CreatedOn: day("2026-01-05"), Amount: amt("10.05")},
	}

	results := newTestEngine("0.05").Match(sources, counterparts)

	require.Len(t, results, 2)
	assert.Equal(t, domain.StatusTolerance, results[0].Status)
	assert.Equal(t, int64(12), results[0].Counterpart.ID)
	assert.True(t, results[0].Variance.Equal(amt("-0.02")))
	assert.Equal(t, domain.StatusUnmatched, results[1].Status)
	assert.Equal(t, int64(11), results[1].Counterpart.ID)
	assert.True(t, results[1].Variance.Equal(amt("-10.03")))
}

func TestEngine_Match_ZeroToleranceNeverYieldsToleranceMatch(t *testing.T) {
	sources := []domain.SourceRecord{
		{ID: 1, BranchName: "X", OrderDate: day("2026-01-05"), Amount: amt("100.00"), CustomerID: "G-55"},
		{ID: 2, BranchName: "X", OrderDate: day("2026-01-05"), Amount: amt("50.00")},
	}
	counterparts := []domain.CounterpartRecord{
		{ID: 11, StoreName: "X", CreatedOn: day("2026-01-05"), Amount: amt("100.01"), ShortOrderID: "55"},
		{ID: 12, StoreName: "X", CreatedOn: day("2026-01-05"), Amount: amt("50.00")},
	}

	results := newTestEngine("0").Match(sources, counterparts)

	assert.Equal(t, []domain.MatchStatus{domain.StatusExact, domain.StatusDiscrepancy}, statuses(results))
	assert.Equal(t, int64(12), results[0].Counterpart.ID)
	assert.Equal(t, int64(11), results[1].Counterpart.ID)
}

func TestEngine_Match_TokenCounterpartConsumedOnce(t *testing.T) {
	sources := []domain.SourceRecord{
		{ID: 1, BranchName: "X", OrderDate: day("2026-01-05"), Amount: amt("20"), CustomerID: "G-3456"},
		{ID: 2, BranchName: "X", OrderDate: day("2026-01-05"), Amount: amt("10"), CustomerID: "G-123456"},
	}
	counterparts := []domain.CounterpartRecord{
		{ID: 11, StoreName: "X", CreatedOn: day("2026-01-05"), Amount: amt("999"), BookingID: "AB123456"},
	}

	results := newTestEngine("0.01").Match(sources, counterparts)

	require.Len(t, results, 2)
	assert.Equal(t, domain.StatusDiscrepancy, results[0].Status)
	assert.Equal(t, int64(1), results[0].Source.ID)
	assert.Equal(t, int64(11), results[0].Counterpart.ID)
	assert.Equal(t, domain.StatusUnmatched, results[1].Status)
	assert.Equal(t, int64(2), results[1].Source.ID)
	assert.Nil(t, results[1].Counterpart)
}

func TestEngine_Match_TokenFIFO(t *testing.T) {
	sources := []domain.SourceRecord{
		{ID: 1, BranchName: "X", OrderDate: day("2026-01-05"), Amount: amt("10"), CustomerID: "a1"},
		{ID: 2, BranchName: "X", OrderDate: day("2026-01-05"), Amount: amt("5"), CustomerID: "A1 "},
	}
	counterparts := []domain.CounterpartRecord{
		{ID: 11, StoreName: "X", CreatedOn: day("2026-01-05"), Amount: amt("50"), ShortOrderID: "A1"},
		{ID: 12, StoreName: "X", CreatedOn: day("2026-01-05"), Amount: amt("40"), ShortOrderID: "a1"},
	}

	results := newTestEngine("0.01").Match(sources, counterparts)

	require.Len(t, results, 2)
	assert.Equal(t, [2]int64{1, 11}, [2]int64{results[0].Source.ID, results[0].Counterpart.ID})
	assert.Equal(t, [2]int64{2, 12}, [2]int64{results[1].Source.ID, results[1].Counterpart.ID})
}

func TestEngine_Match_CounterpartOnlyBucket(t *testing.T) {
	sources := []domain.SourceRecord{
		{ID: 1, BranchName: "X", OrderDate: day("2026-01-05"), Amount: amt("10")},
	}
	counterparts := []domain.CounterpartRecord{
		{ID: 11, StoreName: "Z", CreatedOn: day("2026-01-05"), Amount: amt("75.25")},
	}

	results := newTestEngine("0.01").Match(sources, counterparts)

	require.Len(t, results, 2)
	assert.Equal(t, int64(1), results[0].Source.ID)
	assert.Nil(t, results[1].Source)
	assert.Equal(t, int64(11), results[1].Counterpart.ID)
	assert.Equal(t, domain.StatusUnmatched, results[1].Status)
	assert.True(t, results[1].Variance.Equal(amt("-75.25")))
	assert.Equal(t, "Missing in POS", results[1].Note())
}

func TestEngine_Match_BranchMappingJoinsBuckets(t *testing.T) {
	mappings := []domain.BranchMapping{
		{SourceCode: "001", SourceName: "Branch Makati Ave", CanonicalName: "Store - Makati"},
		{SourceCode: "002", SourceName: "Branch Ortigas", CanonicalName: "Store - Ortigas"},
	}
	sources := []domain.SourceRecord{
		{ID: 1, BranchName: "makati", OrderDate: day("2026-01-05"), Amount: amt("10")},
		{ID: 2, BranchCode: "002", OrderDate: day("2026-01-05"), Amount: amt("20")},
	}
	counterparts := []domain.CounterpartRecord{
		{ID: 11, StoreName: "Store - Makati", CreatedOn: day("2026-01-05"), Amount: amt("10")},
		{ID: 12, StoreName: "Store - Ortigas", CreatedOn: day("2026-01-05"), Amount: amt("20")},
	}

	results := newTestEngine("0.01", mappings...).Match(sources, counterparts)

	assert.Equal(t, []domain.MatchStatus{domain.StatusExact, domain.StatusExact}, statuses(results))
}

func TestEngine_Match_UnknownBranchAndDate(t *testing.T) {
	sources := []domain.SourceRecord{{ID: 1, Amount: amt("10")}}
	counterparts := []domain.CounterpartRecord{{ID: 11, Amount: amt("10")}}

	e := newTestEngine("0.01")
	results := e.Match(sources, counterparts)

	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusExact, results[0].Status)

	summary := e.Summarize(results)
	require.Len(t, summary, 1)
	assert.Equal(t, domain.UnknownKey, summary[0].Branch)
	assert.Equal(t, domain.UnknownKey, summary[0].Date)
}

func TestEngine_Match_Chargebacks(t *testing.T) {
	mappings := []domain.BranchMapping{
		{SourceCode: "001", SourceName: "Branch Makati", CanonicalName: "Store - Makati"},
	}

	tests := []struct {
		name         string
		sources      []domain.SourceRecord
		counterparts []domain.CounterpartRecord
		want         []domain.MatchStatus
		wantVariance []string
	}{
		{
			name: "resolved branch and tolerance",
			sources: []domain.SourceRecord{
				{ID: 1, BranchCode: "001", OrderDate: day("2026-02-02"), Amount: amt("500.01")},
			},
			counterparts: []domain.CounterpartRecord{
				{ID: 20, StoreName: "Store - Makati", CreatedOn: day("2026-02-27"), Amount: amt("-500"), OrderType: "auto-chargeback"},
			},
			want:         []domain.MatchStatus{domain.StatusChargeback},
			wantVariance: []string{"0.01"},
		},
		{
			name: "different month stays unmatched",
			sources: []domain.SourceRecord{
				{ID: 1, BranchName: "X", OrderDate: day("2026-01-31"), Amount: amt("500")},
			},
			counterparts: []domain.CounterpartRecord{
				{ID: 20, StoreName: "X", CreatedOn: day("2026-02-01"), Amount: amt("-500"), OrderType: "Auto-Chargeback"},
			},
			want:         []domain.MatchStatus{domain.StatusUnmatched, domain.StatusUnmatched},
			wantVariance: []string{"500", "500"},
		},
		{
			name: "different branch stays unmatched",
			sources: []domain.SourceRecord{
				{ID: 1, BranchName: "Y", OrderDate: day("2026-02-02"), Amount: amt("500")},
			},
			counterparts: []domain.CounterpartRecord{
				{ID: 20, StoreName: "X", CreatedOn: day("2026-02-10"), Amount: amt("-500"), OrderType: "Auto-Chargeback"},
			},
			want:         []domain.MatchStatus{domain.StatusUnmatched, domain.StatusUnmatched},
			wantVariance: []string{"500", "500"},
		},
		{
			name: "regular refund order type is not linked",
			sources: []domain.SourceRecord{
				{ID: 1, BranchName: "X", OrderDate: day("2026-02-02"), Amount: amt("500")},
			},
			counterparts: []domain.CounterpartRecord{
				{ID: 20, StoreName: "X", CreatedOn: day("2026-02-10"), Amount: amt("-500"), OrderType: "GrabFood"},
			},
			want:         []domain.MatchStatus{domain.StatusUnmatched, domain.StatusUnmatched},
			wantVariance: []string{"500", "500"},
		},
		{
			name: "one sale absorbs one chargeback only",
			sources: []domain.SourceRecord{
				{ID: 1, BranchName: "X", OrderDate: day("2026-02-02"), Amount: amt("500")},
			},
			counterparts: []domain.CounterpartRecord{
				{ID: 20, StoreName: "X", CreatedOn: day("2026-02-10"), Amount: amt("-500"), OrderType: "Auto-Chargeback"},
				{ID: 21, StoreName: "X", CreatedOn: day("2026-02-11"), Amount: amt("-500"), OrderType: "Auto-Chargeback"},
			},
			want:         []domain.MatchStatus{domain.StatusChargeback, domain.StatusUnmatched},
			wantVariance: []string{"0", "500"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := newTestEngine("0.01", mappings...).Match(tt.sources, tt.counterparts)

			assert.Equal(t, tt.want, statuses(results))
			for i, v := range tt.wantVariance {
				assert.True(t, results[i].Variance.Equal(amt(v)), "result %d variance = %s, want %s", i, results[i].Variance, v)
			}
		})
	}
}

func TestEngine_Match_WorkersDoNotChangeOutput(t *testing.T) {
	sources, counterparts := generateRecords(7, 200)

	sequential := newTestEngine("0.01").Match(sources, counterparts)

	opts := DefaultOptions()
	opts.Workers = 4
	parallel := NewEngine(NewBranchResolver(testMappings), opts).Match(sources, counterparts)

	assert.Equal(t, len(sequential), len(parallel))
	for i := range sequential {
		assert.Equal(t, sequential[i].Status, parallel[i].Status)
		assert.Same(t, sequential[i].Source, parallel[i].Source)
		assert.Same(t, sequential[i].Counterpart, parallel[i].Counterpart)
		assert.True(t, sequential[i].Variance.Equal(parallel[i].Variance))
	}
}

func TestNewEngine_NegativeToleranceIsZero(t *testing.T) {
	opts := DefaultOptions()
	opts.Tolerance = amt("-1")
	e := NewEngine(NewBranchResolver(nil), opts)

	assert.True(t, e.opts.Tolerance.IsZero())
	assert.Equal(t, 1, e.opts.Workers)
}
