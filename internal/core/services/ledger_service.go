package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bukubesar/bukubesar/internal/core/domain"
	portsrepo "github.com/bukubesar/bukubesar/internal/core/ports/repositories"
	portssvc "github.com/bukubesar/bukubesar/internal/core/ports/services"
	"github.com/bukubesar/bukubesar/internal/utils/accounting"
)

// ledgerService computes balances and per-account ledgers from posted lines.
type ledgerService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountSvc    portssvc.AccountSvcFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(reportingRepo portsrepo.ReportingRepository, accountSvc portssvc.AccountSvcFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		reportingRepo: reportingRepo,
		accountSvc:    accountSvc,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// BalanceAsOf sums posted lines dated on or before asOf and presents the
// result on the account's natural side.
func (s *ledgerService) BalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	account, err := s.accountSvc.GetAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	totalDebit, totalCredit, err := s.reportingRepo.GetAccountLineTotals(ctx, accountID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute account balance")
		return decimal.Zero, fmt.Errorf("failed to compute balance for account %s: %w", accountID, err)
	}

	return accounting.NaturalBalance(account.AccountType, totalDebit, totalCredit), nil
}

// Ledger returns the account's posted activity in [start, end] with an
// opening balance, a running balance per line, and the closing balance.
// ClosingBalance == OpeningBalance + Σ signed line amounts holds exactly.
func (s *ledgerService) Ledger(ctx context.Context, accountID string, start, end time.Time) (*domain.GeneralLedger, error) {
	account, err := s.accountSvc.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	opening, err := s.BalanceAsOf(ctx, accountID, start.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}

	lines, err := s.reportingRepo.GetLedgerLines(ctx, accountID, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch ledger lines")
		return nil, fmt.Errorf("failed to fetch ledger lines for account %s: %w", accountID, err)
	}

	running := opening
	for i := range lines {
		signed, err := accounting.SignedLineAmount(lines[i].JournalEntryLine, account.AccountType)
		if err != nil {
			return nil, err
		}
		running = running.Add(signed)
		lines[i].RunningBalance = running
	}

	return &domain.GeneralLedger{
		AccountID:      account.AccountID,
		AccountCode:    account.Code,
		AccountName:    account.Name,
		StartDate:      start,
		EndDate:        end,
		OpeningBalance: opening,
		Lines:          lines,
		ClosingBalance: running,
	}, nil
}
