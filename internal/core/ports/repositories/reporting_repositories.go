package repositories

import (
	"context"
	"time"

	"github.com/bukubesar/bukubesar/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository answers read-only aggregate queries over posted
// journal lines. Draft entries are excluded categorically; identical inputs
// always yield identical outputs, there is no caching layer.
type ReportingRepository interface {
	// GetAccountActivity aggregates debit/credit totals per account over
	// posted lines with entry_date <= asOf.
	GetAccountActivity(ctx context.Context, asOf time.Time) ([]domain.AccountActivityRow, error)
	// GetAccountActivityInRange aggregates over entry_date in [start, end].
	GetAccountActivityInRange(ctx context.Context, start, end time.Time) ([]domain.AccountActivityRow, error)
	// GetAccountLineTotals sums debits and credits for a single account
	// over posted lines with entry_date <= asOf.
	GetAccountLineTotals(ctx context.Context, accountID string, asOf time.Time) (totalDebit, totalCredit decimal.Decimal, err error)
	// GetLedgerLines returns the account's posted lines in
	// [start, end] ordered by (entry_date, entry_number), annotated with
	// their entry headers.
	GetLedgerLines(ctx context.Context, accountID string, start, end time.Time) ([]domain.LedgerLine, error)
}
