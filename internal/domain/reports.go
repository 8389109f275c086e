package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MatchStatus classifies a MatchResult.
type MatchStatus string

const (
	StatusExact       MatchStatus = "exact_match"
	StatusTolerance   MatchStatus = "tolerance_match"
	StatusChargeback  MatchStatus = "chargeback_match"
	StatusDiscrepancy MatchStatus = "discrepancy"
	StatusUnmatched   MatchStatus = "unmatched"
)

// MatchResult is one line of the reconciliation output. At least one of
// Source and Counterpart is set.
type MatchResult struct {
	Source      *SourceRecord      `json:"pos,omitempty"`
	Counterpart *CounterpartRecord `json:"grab,omitempty"`
	Variance    decimal.Decimal    `json:"variance"`
	Status      MatchStatus        `json:"status"`
}

// IsMatched reports whether the result pairs two records.
func (r MatchResult) IsMatched() bool {
	return r.Status != StatusUnmatched
}

// Note returns the human-readable explanation stored with the result.
func (r MatchResult) Note() string {
	switch r.Status {
	case StatusExact:
		return "Amounts matched exactly"
	case StatusChargeback:
		var date string
		if r.Source != nil {
			date = DayKey(r.Source.OrderDate)
		}
		return fmt.Sprintf("Auto-Chargeback linked to POS sale (%s)", date)
	case StatusTolerance:
		return "Within tolerance. Variance: " + r.Variance.StringFixed(2)
	}
	if r.Source == nil {
		return "Missing in POS"
	}
	if r.Counterpart == nil {
		return "Missing in delivery platform"
	}
	return "Amount discrepancy. Variance: " + r.Variance.StringFixed(2)
}

// GroupedSummary aggregates the results sharing a (branch, date) key.
type GroupedSummary struct {
	Branch    string        `json:"branch"`
	Date      string        `json:"date"`
	Total     int           `json:"total"`
	Exact     int           `json:"exact"`
	Issues    int           `json:"issues"`
	MatchRate float64       `json:"match_rate"`
	Items     []MatchResult `json:"items"`
}

// ReconciliationReport is the top-level output of one run.
type ReconciliationReport struct {
	RunID                   string           `json:"run_id"`
	Filters                 ReconcileFilters `json:"filters"`
	TotalSourceRecords      int              `json:"total_source_records"`
	TotalCounterpartRecords int              `json:"total_counterpart_records"`
	Results                 []MatchResult    `json:"results"`
	Summary                 []GroupedSummary `json:"summary,omitempty"`
	WrittenBack             bool             `json:"written_back"`
	CompletedAt             time.Time        `json:"completed_at"`
}

// WriteBackError reports that the match results could not be persisted. The
// results themselves are still valid.
type WriteBackError struct {
	Err error
}

func (e *WriteBackError) Error() string {
	return fmt.Sprintf("write-back failed: %v", e.Err)
}

func (e *WriteBackError) Unwrap() error {
	return e.Err
}
