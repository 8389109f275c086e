package matcher

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pos-reconciliation/internal/domain"
)

// DefaultChargebackOrderTypes are the platform order types that mark a
// reversal of an earlier sale.
var DefaultChargebackOrderTypes = []string{"Auto-Chargeback"}

type chargebackLinker struct {
	resolver   *BranchResolver
	tolerance  decimal.Decimal
	orderTypes map[string]bool
}

func newChargebackLinker(resolver *BranchResolver, tolerance decimal.Decimal, orderTypes []string) *chargebackLinker {
	l := &chargebackLinker{
		resolver:   resolver,
		tolerance:  tolerance,
		orderTypes: make(map[string]bool, len(orderTypes)),
	}
	for _, t := range orderTypes {
		l.orderTypes[strings.ToLower(strings.TrimSpace(t))] = true
	}
	return l
}

func (l *chargebackLinker) isChargeback(r domain.MatchResult) bool {
	return r.Status == domain.StatusUnmatched &&
		r.Counterpart != nil &&
		l.orderTypes[strings.ToLower(strings.TrimSpace(r.Counterpart.OrderType))]
}

// link runs over the complete result sequence. Each unmatched chargeback
// takes the first unmatched source result of the same branch and month whose
// amount equals the reversed amount within tolerance. The source result is
// folded into the chargeback and dropped from the sequence, so the returned
// slice may be shorter than the input.
func (l *chargebackLinker) link(results []domain.MatchResult) []domain.MatchResult {
	var pool []int
	for i, r := range results {
		if r.Status == domain.StatusUnmatched && r.Source != nil {
			pool = append(pool, i)
		}
	}
	if len(pool) == 0 {
		return results
	}

	absorbed := make(map[int]bool)
	for i := range results {
		if !l.isChargeback(results[i]) {
			continue
		}
		cb := results[i].Counterpart
		reversed := cb.Amount.Abs()

		for j, idx := range pool {
			src := results[idx].Source
			if !l.sameSale(src, cb, reversed) {
				continue
			}
			pool = append(pool[:j], pool[j+1:]...)
			absorbed[idx] = true

			results[i].Source = src
			results[i].Status = domain.StatusChargeback
			results[i].Variance = src.Amount.Sub(reversed)
			break
		}
	}
	if len(absorbed) == 0 {
		return results
	}

	linked := make([]domain.MatchResult, 0, len(results)-len(absorbed))
	for i, r := range results {
		if !absorbed[i] {
			linked = append(linked, r)
		}
	}
	return linked
}

func (l *chargebackLinker) sameSale(src *domain.SourceRecord, cb *domain.CounterpartRecord, reversed decimal.Decimal) bool {
	branch := counterpartBranch(cb)
	if branch == domain.UnknownKey || l.resolver.CanonicalBranch(src) != branch {
		return false
	}
	if !sameMonth(src.OrderDate, cb.CreatedOn) {
		return false
	}
	return src.Amount.Sub(reversed).Abs().LessThanOrEqual(l.tolerance)
}

func sameMonth(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	return a.Year() == b.Year() && a.Month() == b.Month()
}
