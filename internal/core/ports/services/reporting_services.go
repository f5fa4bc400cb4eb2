package services

import (
	"context"
	"time"

	"github.com/bukubesar/bukubesar/internal/core/domain"
)

// ReportingSvcFacade produces the financial reports. Every report is a pure
// composition over posted-line aggregates; report queries never mutate state.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error)
	// BalanceSheet fails with apperrors.ErrBalanceSheetMismatch when
	// assets != liabilities + equity; the mismatch is surfaced, never hidden.
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)
	IncomeStatement(ctx context.Context, start, end time.Time) (*domain.IncomeStatementReport, error)
	CashFlow(ctx context.Context, start, end time.Time) (*domain.CashFlowReport, error)
	EquityStatement(ctx context.Context, start, end time.Time) (*domain.EquityStatementReport, error)
	ReceivableAging(ctx context.Context, asOf time.Time) (*domain.AgingReport, error)
	PayableAging(ctx context.Context, asOf time.Time) (*domain.AgingReport, error)
	CogsSummary(ctx context.Context, start, end time.Time) (*domain.CogsSummaryReport, error)
}
