package services

import (
	"context"
	"time"

	"github.com/bukubesar/bukubesar/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade computes account balances from posted journal lines.
// Both operations are pure functions of persisted posted state.
type LedgerSvcFacade interface {
	// BalanceAsOf returns the account's natural-signed balance over all
	// posted lines dated on or before asOf.
	BalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)
	// Ledger returns the account's activity in [start, end] with opening
	// balance, per-line running balances, and closing balance.
	Ledger(ctx context.Context, accountID string, start, end time.Time) (*domain.GeneralLedger, error)
}
