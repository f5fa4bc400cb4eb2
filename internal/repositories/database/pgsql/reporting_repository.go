package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bukubesar/bukubesar/internal/apperrors"
	"github.com/bukubesar/bukubesar/internal/core/domain"
	portsrepo "github.com/bukubesar/bukubesar/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for read-only reporting
// aggregates. Every query here filters on is_posted = TRUE; draft entries
// never influence a report.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

const activityQuery = `
	SELECT a.account_id, a.code, a.name, a.account_type, a.subtype, a.is_active,
	       COALESCE(SUM(l.debit), 0) AS total_debit,
	       COALESCE(SUM(l.credit), 0) AS total_credit
	FROM accounts a
	JOIN journal_entry_lines l ON l.account_id = a.account_id
	JOIN journal_entries e ON e.entry_id = l.entry_id
	WHERE e.is_posted = TRUE
`

const activityGroupBy = `
	GROUP BY a.account_id, a.code, a.name, a.account_type, a.subtype, a.is_active
	ORDER BY a.code;
`

func (r *PgxReportingRepository) queryActivity(ctx context.Context, query string, args ...any) ([]domain.AccountActivityRow, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query account activity", err)
	}
	defer rows.Close()

	var result []domain.AccountActivityRow
	for rows.Next() {
		var row domain.AccountActivityRow
		err := rows.Scan(
			&row.AccountID,
			&row.Code,
			&row.Name,
			&row.AccountType,
			&row.Subtype,
			&row.IsActive,
			&row.TotalDebit,
			&row.TotalCredit,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account activity row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate account activity", err)
	}
	return result, nil
}

// GetAccountActivity aggregates debit/credit totals per account over posted
// lines with entry_date <= asOf.
func (r *PgxReportingRepository) GetAccountActivity(ctx context.Context, asOf time.Time) ([]domain.AccountActivityRow, error) {
	query := activityQuery + ` AND e.entry_date <= $1` + activityGroupBy
	return r.queryActivity(ctx, query, asOf)
}

// GetAccountActivityInRange aggregates over entry_date in [start, end].
func (r *PgxReportingRepository) GetAccountActivityInRange(ctx context.Context, start, end time.Time) ([]domain.AccountActivityRow, error) {
	query := activityQuery + ` AND e.entry_date >= $1 AND e.entry_date <= $2` + activityGroupBy
	return r.queryActivity(ctx, query, start, end)
}

// GetAccountLineTotals sums debits and credits for a single account over
// posted lines with entry_date <= asOf.
func (r *PgxReportingRepository) GetAccountLineTotals(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND e.is_posted = TRUE AND e.entry_date <= $2;
	`
	var totalDebit, totalCredit decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID, asOf).Scan(&totalDebit, &totalCredit); err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to sum line totals for account "+accountID, err)
	}
	return totalDebit, totalCredit, nil
}

// GetLedgerLines returns the account's posted lines in [start, end] ordered
// by (entry_date, entry_number, line_order), annotated with their entry
// headers. Running balances are computed by the caller.
func (r *PgxReportingRepository) GetLedgerLines(ctx context.Context, accountID string, start, end time.Time) ([]domain.LedgerLine, error) {
	query := `
		SELECT l.line_id, l.entry_id, l.account_id, l.debit, l.credit, l.description, l.line_order,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by,
		       e.entry_number, e.entry_date, e.reference
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND e.is_posted = TRUE
		  AND e.entry_date >= $2 AND e.entry_date <= $3
		ORDER BY e.entry_date, e.entry_number, l.line_order;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, start, end)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger lines for account "+accountID, err)
	}
	defer rows.Close()

	var lines []domain.LedgerLine
	for rows.Next() {
		var ll domain.LedgerLine
		err := rows.Scan(
			&ll.LineID,
			&ll.EntryID,
			&ll.AccountID,
			&ll.Debit,
			&ll.Credit,
			&ll.Description,
			&ll.LineOrder,
			&ll.CreatedAt,
			&ll.CreatedBy,
			&ll.LastUpdatedAt,
			&ll.LastUpdatedBy,
			&ll.EntryNumber,
			&ll.EntryDate,
			&ll.EntryReference,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger line", err)
		}
		lines = append(lines, ll)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate ledger lines", err)
	}
	return lines, nil
}
