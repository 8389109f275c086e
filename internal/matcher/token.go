package matcher

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"pos-reconciliation/internal/domain"
)

// DefaultCustomerPrefix strips the platform code POS cashiers put in front of
// the order number, e.g. "G-1234" or "GF1234".
var DefaultCustomerPrefix = regexp.MustCompile(`^GF?-?`)

var bookingSuffixLengths = []int{4, 5, 6}

// counterpartTokens returns the identifiers a cashier may have typed for the
// order: the short order id and the last 4, 5 and 6 characters of the
// booking id.
func counterpartTokens(cp *domain.CounterpartRecord) []string {
	var tokens []string
	seen := make(map[string]bool)
	add := func(token string) {
		if token == "" || seen[token] {
			return
		}
		seen[token] = true
		tokens = append(tokens, token)
	}

	add(strings.ToUpper(strings.TrimSpace(cp.ShortOrderID)))
	if booking := strings.ToUpper(strings.TrimSpace(cp.BookingID)); booking != "" {
		for _, n := range bookingSuffixLengths {
			add(suffix(booking, n))
		}
	}
	return tokens
}

func suffix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

// normalizeCustomerID turns a POS customer number into a lookup token.
func normalizeCustomerID(prefix *regexp.Regexp, customerID string) string {
	token := strings.ToUpper(strings.TrimSpace(customerID))
	if prefix != nil {
		token = prefix.ReplaceAllString(token, "")
	}
	return strings.TrimSpace(token)
}

// matchByToken pairs the leftovers of the amount pass through the customer
// number typed at the POS. Counterparts registered under a token are consumed
// first-in first-out and never twice. Whatever stays unpaired is emitted as
// unmatched.
func matchByToken(sources []*domain.SourceRecord, counterparts []*domain.CounterpartRecord, prefix *regexp.Regexp, tolerance decimal.Decimal) []domain.MatchResult {
	results := make([]domain.MatchResult, 0, len(sources)+len(counterparts))

	byToken := make(map[string][]int)
	for i, cp := range counterparts {
		for _, token := range counterpartTokens(cp) {
			byToken[token] = append(byToken[token], i)
		}
	}

	used := make([]bool, len(counterparts))
	take := func(token string) (int, bool) {
		queue := byToken[token]
		for len(queue) > 0 {
			i := queue[0]
			queue = queue[1:]
			if !used[i] {
				byToken[token] = queue
				return i, true
			}
		}
		byToken[token] = queue
		return 0, false
	}

	for _, src := range sources {
		token := normalizeCustomerID(prefix, src.CustomerID)
		if token == "" {
			results = append(results, unmatchedSource(src))
			continue
		}
		i, ok := take(token)
		if !ok {
			results = append(results, unmatchedSource(src))
			continue
		}
		used[i] = true
		cp := counterparts[i]
		variance := src.Amount.Sub(cp.Amount)
		status, _ := classify(variance, tolerance)
		results = append(results, domain.MatchResult{
			Source:      src,
			Counterpart: cp,
			Variance:    variance,
			Status:      status,
		})
	}

	for i, cp := range counterparts {
		if !used[i] {
			results = append(results, unmatchedCounterpart(cp))
		}
	}
	return results
}

func unmatchedSource(src *domain.SourceRecord) domain.MatchResult {
	return domain.MatchResult{
		Source:   src,
		Variance: src.Amount,
		Status:   domain.StatusUnmatched,
	}
}

func unmatchedCounterpart(cp *domain.CounterpartRecord) domain.MatchResult {
	return domain.MatchResult{
		Counterpart: cp,
		Variance:    cp.Amount.Neg(),
		Status:      domain.StatusUnmatched,
	}
}
