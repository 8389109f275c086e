// Package matcher reconciles POS sales against delivery-platform settlement
// entries.
//
// Records are bucketed by (canonical branch, calendar day). Inside each bucket
// a greedy amount pass pairs records by descending amount, then a token pass
// pairs the leftovers through the customer number typed at the POS. Once all
// buckets are done, a chargeback pass links unmatched platform reversals to
// unmatched sales of the same branch and month.
//
// The amount pass takes the first candidate within tolerance; it does not look
// for the assignment with the smallest total variance. Near-equal amounts in
// one bucket can therefore pair differently than an optimal assignment would.
package matcher

import (
	"regexp"
	"sync"

	"github.com/shopspring/decimal"

	"pos-reconciliation/internal/domain"
)

// DefaultTolerance is the largest amount difference still treated as a match.
var DefaultTolerance = decimal.NewFromFloat(0.01)

// Options tune the matching passes.
type Options struct {
	Tolerance            decimal.Decimal
	CustomerPrefix       *regexp.Regexp
	ChargebackOrderTypes []string
	// Workers > 1 matches buckets concurrently. The output does not depend on it.
	Workers int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Tolerance:            DefaultTolerance,
		CustomerPrefix:       DefaultCustomerPrefix,
		ChargebackOrderTypes: DefaultChargebackOrderTypes,
		Workers:              1,
	}
}

// Engine runs the matching passes for one reconciliation run.
type Engine struct {
	resolver *BranchResolver
	opts     Options
	linker   *chargebackLinker
}

// NewEngine creates an engine. A negative tolerance is treated as zero.
func NewEngine(resolver *BranchResolver, opts Options) *Engine {
	if opts.Tolerance.IsNegative() {
		opts.Tolerance = decimal.Zero
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Engine{
		resolver: resolver,
		opts:     opts,
		linker:   newChargebackLinker(resolver, opts.Tolerance, opts.ChargebackOrderTypes),
	}
}

// Match reconciles the two record sets. Results reference the records in the
// given slices, which must not be modified while the results are in use.
//
// The output lists buckets in order, each bucket's amount matches first and
// its token pass output after. Chargeback links replace the chargeback entry
// in place and drop the absorbed sale entry.
func (e *Engine) Match(sources []domain.SourceRecord, counterparts []domain.CounterpartRecord) []domain.MatchResult {
	buckets := groupRecords(e.resolver, sources, counterparts)

	perBucket := make([][]domain.MatchResult, len(buckets))
	if e.opts.Workers > 1 && len(buckets) > 1 {
		var wg sync.WaitGroup
		sem := make(chan struct{}, e.opts.Workers)
		for i, b := range buckets {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int, b *bucket) {
				defer wg.Done()
				defer func() { <-sem }()
				perBucket[i] = e.matchBucket(b)
			}(i, b)
		}
		wg.Wait()
	} else {
		for i, b := range buckets {
			perBucket[i] = e.matchBucket(b)
		}
	}

	results := make([]domain.MatchResult, 0, len(sources)+len(counterparts))
	for _, r := range perBucket {
		results = append(results, r...)
	}
	return e.linker.link(results)
}

func (e *Engine) matchBucket(b *bucket) []domain.MatchResult {
	matched, restSources, restCounterparts := matchByAmount(b, e.opts.Tolerance)
	return append(matched, matchByToken(restSources, restCounterparts, e.opts.CustomerPrefix, e.opts.Tolerance)...)
}

// Summarize groups final results per (branch, date) with match statistics.
func (e *Engine) Summarize(results []domain.MatchResult) []domain.GroupedSummary {
	return summarize(e.resolver, results)
}
