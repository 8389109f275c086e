package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pos-reconciliation/internal/domain"
	"pos-reconciliation/internal/matcher"
)

// ReconciliationUseCase orchestrates the reconciliation process.
type ReconciliationUseCase struct {
	repo TransactionRepository
	opts matcher.Options
	now  func() time.Time
}

// NewReconciliationUseCase creates a new instance of the usecase.
func NewReconciliationUseCase(repo TransactionRepository, opts matcher.Options) *ReconciliationUseCase {
	return &ReconciliationUseCase{repo: repo, opts: opts, now: time.Now}
}

// WithClock replaces the clock used for the today preset and write-back
// timestamps.
func (uc *ReconciliationUseCase) WithClock(now func() time.Time) *ReconciliationUseCase {
	uc.now = now
	return uc
}

// Reconcile loads the records selected by filters, matches them and, when
// writeBack is set, stores the outcome on the originating rows.
//
// A failed write-back returns the complete report together with a
// *domain.WriteBackError; the results in the report remain valid.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, filters domain.ReconcileFilters, writeBack bool) (*domain.ReconciliationReport, error) {
	if err := filters.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filters: %w", err)
	}

	runID := uuid.NewString()
	logger := logrus.WithField("run_id", runID)

	// Step 1: Data Ingestion
	from, to := filters.DateRange(uc.now())
	query := domain.ReconcileFilters{Branch: filters.Branch, FromDate: from, ToDate: to}

	mappings, err := uc.repo.GetBranchMappings(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get branch mappings: %w", err)
	}

	sources, err := uc.repo.GetSourceRecords(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not get source records: %w", err)
	}

	counterparts, err := uc.repo.GetCounterpartRecords(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not get counterpart records: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"branch":       filters.Branch,
		"source":       len(sources),
		"counterpart":  len(counterparts),
		"branch_rules": len(mappings),
	}).Info("reconciliation started")

	// Step 2: Matching
	engine := matcher.NewEngine(matcher.NewBranchResolver(mappings), uc.opts)
	results := engine.Match(sources, counterparts)

	report := &domain.ReconciliationReport{
		RunID:                   runID,
		Filters:                 query,
		TotalSourceRecords:      len(sources),
		TotalCounterpartRecords: len(counterparts),
		Results:                 results,
		Summary:                 engine.Summarize(results),
	}

	logger.WithFields(statusCounts(results)).Info("matching finished")

	// Step 3: Optional write-back
	completedAt := uc.now()
	report.CompletedAt = completedAt
	if !writeBack {
		return report, nil
	}

	if err := uc.repo.SaveMatchResults(ctx, results, completedAt); err != nil {
		logger.WithError(err).Error("write-back rolled back")
		return report, &domain.WriteBackError{Err: err}
	}
	report.WrittenBack = true
	logger.WithField("results", len(results)).Info("results written back")

	return report, nil
}

// BranchOptions lists the canonical store names usable as a branch filter.
func (uc *ReconciliationUseCase) BranchOptions(ctx context.Context) ([]string, error) {
	branches, err := uc.repo.ListCanonicalBranches(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list branches: %w", err)
	}
	return branches, nil
}

func statusCounts(results []domain.MatchResult) logrus.Fields {
	fields := logrus.Fields{"results": len(results)}
	for _, r := range results {
		key := string(r.Status)
		n, _ := fields[key].(int)
		fields[key] = n + 1
	}
	return fields
}
