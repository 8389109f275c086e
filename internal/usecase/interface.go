package usecase

import (
	"context"
	"time"

	"pos-reconciliation/internal/domain"
)

// TransactionRepository defines the interface for the persisted record store.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go TransactionRepository
type TransactionRepository interface {
	GetSourceRecords(ctx context.Context, filters domain.ReconcileFilters) ([]domain.SourceRecord, error)
	GetCounterpartRecords(ctx context.Context, filters domain.ReconcileFilters) ([]domain.CounterpartRecord, error)
	GetBranchMappings(ctx context.Context) ([]domain.BranchMapping, error)
	ListCanonicalBranches(ctx context.Context) ([]string, error)
	// SaveMatchResults writes the outcome onto the originating rows in one
	// transaction. Nothing is written if any update fails.
	SaveMatchResults(ctx context.Context, results []domain.MatchResult, at time.Time) error
}
