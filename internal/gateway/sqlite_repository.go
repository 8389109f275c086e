package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"pos-reconciliation/internal/domain"
)

const tracerName = "gateway"

// SQLiteRepository implements the TransactionRepository interface on the
// SQLite store filled by the import workers.
type SQLiteRepository struct {
	Conn *sql.DB
	// SourceCustomer limits POS sales to this customer name when not empty.
	SourceCustomer string
}

// NewSQLiteRepository creates a new repository instance.
func NewSQLiteRepository(conn *sql.DB, sourceCustomer string) *SQLiteRepository {
	return &SQLiteRepository{Conn: conn, SourceCustomer: sourceCustomer}
}

// sourceQuery builds the POS query for the given filters. Date bounds are not
// part of the query: stored dates come in several text formats that SQLite's
// date() cannot read, so they are applied after domain.ParseDate.
func (r *SQLiteRepository) sourceQuery(filters domain.ReconcileFilters) (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	sb.WriteString(`SELECT id, branch, branch_name, orddate, ordtime, cusno, cusname, grschrg
		FROM pos_transactions
		WHERE 1=1`)

	if r.SourceCustomer != "" {
		sb.WriteString(" AND cusname = ?")
		args = append(args, r.SourceCustomer)
	}
	if filters.Branch != "" {
		sb.WriteString(" AND (branch_name = ? OR branch_name IN (SELECT pos_name FROM branch_mapping WHERE grab_name = ?))")
		args = append(args, filters.Branch, filters.Branch)
	}
	sb.WriteString(" ORDER BY id")
	return sb.String(), args
}

// counterpartQuery builds the platform settlement query for the given
// filters, date bounds excluded.
func counterpartQuery(filters domain.ReconcileFilters) (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	sb.WriteString(`SELECT id, store_name, created_on, amount, booking_id, short_order_id, order_type
		FROM grab_transactions
		WHERE 1=1`)

	if filters.Branch != "" {
		sb.WriteString(" AND store_name = ?")
		args = append(args, filters.Branch)
	}
	sb.WriteString(" ORDER BY id")
	return sb.String(), args
}

// GetSourceRecords reads the POS sales selected by filters.
func (r *SQLiteRepository) GetSourceRecords(ctx context.Context, filters domain.ReconcileFilters) ([]domain.SourceRecord, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Fetching POS transactions")
	defer span.End()

	query, args := r.sourceQuery(filters)
	rows, err := r.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pos transactions: %w", err)
	}
	defer rows.Close()

	var records []domain.SourceRecord
	for rows.Next() {
		var (
			rec                                  domain.SourceRecord
			branch, branchName, orddate, ordtime sql.NullString
			cusno, cusname, amount               sql.NullString
		)
		if err := rows.Scan(&rec.ID, &branch, &branchName, &orddate, &ordtime, &cusno, &cusname, &amount); err != nil {
			return nil, fmt.Errorf("error reading pos transaction: %w", err)
		}
		rec.BranchCode = branch.String
		rec.BranchName = branchName.String
		rec.OrderDate = domain.ParseDate(orddate.String)
		if !filters.InRange(rec.OrderDate) {
			continue
		}
		rec.OrderTime = ordtime.String
		rec.CustomerID = cusno.String
		rec.CustomerName = cusname.String
		rec.Amount = domain.ParseAmount(amount.String)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading pos transactions: %w", err)
	}
	return records, nil
}

// GetCounterpartRecords reads the platform settlement entries selected by filters.
func (r *SQLiteRepository) GetCounterpartRecords(ctx context.Context, filters domain.ReconcileFilters) ([]domain.CounterpartRecord, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Fetching platform transactions")
	defer span.End()

	query, args := counterpartQuery(filters)
	rows, err := r.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query platform transactions: %w", err)
	}
	defer rows.Close()

	var records []domain.CounterpartRecord
	for rows.Next() {
		var (
			rec                                domain.CounterpartRecord
			storeName, createdOn, amount       sql.NullString
			bookingID, shortOrderID, orderType sql.NullString
		)
		if err := rows.Scan(&rec.ID, &storeName, &createdOn, &amount, &bookingID, &shortOrderID, &orderType); err != nil {
			return nil, fmt.Errorf("error reading platform transaction: %w", err)
		}
		rec.StoreName = storeName.String
		rec.CreatedOn = domain.ParseDate(createdOn.String)
		if !filters.InRange(rec.CreatedOn) {
			continue
		}
		rec.Amount = domain.ParseAmount(amount.String)
		rec.BookingID = bookingID.String
		rec.ShortOrderID = shortOrderID.String
		rec.OrderType = orderType.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading platform transactions: %w", err)
	}
	return records, nil
}

// GetBranchMappings reads the branch mapping table in insertion order.
func (r *SQLiteRepository) GetBranchMappings(ctx context.Context) ([]domain.BranchMapping, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Fetching branch mappings")
	defer span.End()

	rows, err := r.Conn.QueryContext(ctx, `SELECT pos_code, pos_name, grab_name FROM branch_mapping ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query branch mappings: %w", err)
	}
	defer rows.Close()

	var mappings []domain.BranchMapping
	for rows.Next() {
		var m domain.BranchMapping
		var canonical sql.NullString
		if err := rows.Scan(&m.SourceCode, &m.SourceName, &canonical); err != nil {
			return nil, fmt.Errorf("error reading branch mapping: %w", err)
		}
		m.CanonicalName = canonical.String
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading branch mappings: %w", err)
	}
	return mappings, nil
}

// ListCanonicalBranches returns the distinct platform store names that have a
// mapping, sorted by name.
func (r *SQLiteRepository) ListCanonicalBranches(ctx context.Context) ([]string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Listing canonical branches")
	defer span.End()

	rows, err := r.Conn.QueryContext(ctx, `
		SELECT DISTINCT grab_name
		FROM branch_mapping
		WHERE grab_name IS NOT NULL AND grab_name <> ''
		ORDER BY grab_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query branches: %w", err)
	}
	defer rows.Close()

	var branches []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error reading branch: %w", err)
		}
		branches = append(branches, name)
	}
	return branches, rows.Err()
}

const (
	updateSourceStatus = `UPDATE pos_transactions
		SET recon_status = ?, recon_grab_id = ?, recon_variance = ?, recon_notes = ?, recon_at = ?
		WHERE id = ?`
	updateCounterpartStatus = `UPDATE grab_transactions
		SET recon_status = ?, recon_pos_id = ?, recon_variance = ?, recon_notes = ?, recon_at = ?
		WHERE id = ?`
)

// SaveMatchResults stores status, linked id, variance, note and timestamp on
// every record referenced by results. All updates run in one transaction and
// are rolled back together when any of them fails.
func (r *SQLiteRepository) SaveMatchResults(ctx context.Context, results []domain.MatchResult, at time.Time) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Writing back match results")
	defer span.End()

	tx, err := r.Conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin write-back transaction: %w", err)
	}

	stamp := at.UTC().Format(time.DateTime)
	for _, res := range results {
		note := res.Note()

		if res.Source != nil {
			var linked sql.NullInt64
			if res.Counterpart != nil {
				linked = sql.NullInt64{Int64: res.Counterpart.ID, Valid: true}
			}
			if _, err := tx.ExecContext(ctx, updateSourceStatus,
				string(res.Status), linked, res.Variance, note, stamp, res.Source.ID); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("failed to update pos transaction %d: %w", res.Source.ID, err)
			}
		}

		if res.Counterpart != nil {
			var linked sql.NullInt64
			if res.Source != nil {
				linked = sql.NullInt64{Int64: res.Source.ID, Valid: true}
			}
			if _, err := tx.ExecContext(ctx, updateCounterpartStatus,
				string(res.Status), linked, res.Variance, note, stamp, res.Counterpart.ID); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("failed to update platform transaction %d: %w", res.Counterpart.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit write-back: %w", err)
	}
	return nil
}
