package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bukubesar/bukubesar/internal/apperrors"
	"github.com/bukubesar/bukubesar/internal/core/domain"
	portsrepo "github.com/bukubesar/bukubesar/internal/core/ports/repositories"
	portssvc "github.com/bukubesar/bukubesar/internal/core/ports/services"
	"github.com/bukubesar/bukubesar/internal/utils/accounting"
)

// reportingService composes the financial reports from posted-line
// aggregates. Identical inputs always produce identical outputs; there is
// no caching layer and no mutation.
type reportingService struct {
	BaseService
	reportingRepo   portsrepo.ReportingRepository
	documentRepo    portsrepo.DocumentRepository
	agingBoundaries []int
}

// NewReportingService creates a new reporting service. agingBoundaries are
// the upper day limits of the finite aging buckets; nil selects the
// defaults.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, documentRepo portsrepo.DocumentRepository, agingBoundaries []int) portssvc.ReportingSvcFacade {
	if len(agingBoundaries) == 0 {
		agingBoundaries = accounting.DefaultAgingBoundaries
	}
	return &reportingService{
		reportingRepo:   reportingRepo,
		documentRepo:    documentRepo,
		agingBoundaries: agingBoundaries,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TrialBalance lists every account with posted activity as of a date, the
// net presented on the side it actually falls. Accounts whose activity nets
// to zero stay listed with zero on both sides. IsBalanced reports the
// Σdebit == Σcredit closure with exact equality.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	rows, err := s.reportingRepo.GetAccountActivity(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch account activity")
		return nil, fmt.Errorf("failed to build trial balance: %w", err)
	}

	report := domain.TrialBalanceReport{
		AsOf:        asOf,
		Rows:        make([]domain.TrialBalanceRow, 0, len(rows)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, row := range rows {
		net := row.TotalDebit.Sub(row.TotalCredit)
		tbRow := domain.TrialBalanceRow{
			AccountID:     row.AccountID,
			Code:          row.Code,
			Name:          row.Name,
			AccountType:   row.AccountType,
			DebitBalance:  decimal.Zero,
			CreditBalance: decimal.Zero,
		}
		switch {
		case net.IsPositive():
			tbRow.DebitBalance = net
		case net.IsNegative():
			tbRow.CreditBalance = net.Neg()
		}
		report.Rows = append(report.Rows, tbRow)
		report.TotalDebit = report.TotalDebit.Add(tbRow.DebitBalance)
		report.TotalCredit = report.TotalCredit.Add(tbRow.CreditBalance)
	}

	report.IsBalanced = report.TotalDebit.Equal(report.TotalCredit)
	if !report.IsBalanced {
		// Surfaced in the payload; the caller decides how loud to be.
		s.LogWarn(ctx, "Trial balance does not close",
			slog.String("total_debit", report.TotalDebit.String()),
			slog.String("total_credit", report.TotalCredit.String()))
	}
	return &report, nil
}

// balancesBySubtype turns activity rows into natural balances grouped by
// subtype, sorted by account code within each group.
func balancesBySubtype(rows []domain.AccountActivityRow) map[domain.AccountSubtype][]domain.AccountBalance {
	grouped := make(map[domain.AccountSubtype][]domain.AccountBalance)
	for _, row := range rows {
		balance := accounting.NaturalBalance(row.AccountType, row.TotalDebit, row.TotalCredit)
		if balance.IsZero() {
			continue
		}
		grouped[row.Subtype] = append(grouped[row.Subtype], domain.AccountBalance{
			AccountID: row.AccountID,
			Code:      row.Code,
			Name:      row.Name,
			Subtype:   row.Subtype,
			Balance:   balance,
		})
	}
	for subtype := range grouped {
		group := grouped[subtype]
		sort.Slice(group, func(i, j int) bool { return group[i].Code < group[j].Code })
	}
	return grouped
}

func buildSection(title string, grouped map[domain.AccountSubtype][]domain.AccountBalance, subtypes ...domain.AccountSubtype) domain.BalanceSheetSection {
	section := domain.BalanceSheetSection{Title: title, Total: decimal.Zero}
	for _, subtype := range subtypes {
		for _, ab := range grouped[subtype] {
			section.Accounts = append(section.Accounts, ab)
			section.Total = section.Total.Add(ab.Balance)
		}
	}
	return section
}

func sumBalances(balances []domain.AccountBalance) decimal.Decimal {
	total := decimal.Zero
	for _, ab := range balances {
		total = total.Add(ab.Balance)
	}
	return total
}

// netIncomeOf computes revenue minus expense natural balances over a set of
// activity rows.
func netIncomeOf(rows []domain.AccountActivityRow) decimal.Decimal {
	net := decimal.Zero
	for _, row := range rows {
		balance := accounting.NaturalBalance(row.AccountType, row.TotalDebit, row.TotalCredit)
		switch row.AccountType {
		case domain.Revenue:
			net = net.Add(balance)
		case domain.Expense:
			net = net.Sub(balance)
		}
	}
	return net
}

// BalanceSheet presents the accounting equation as of a date. Net income to
// date is folded into equity as current earnings. A mismatch between assets
// and liabilities + equity is a hard error, never silently corrected.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	rows, err := s.reportingRepo.GetAccountActivity(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch account activity")
		return nil, fmt.Errorf("failed to build balance sheet: %w", err)
	}

	grouped := balancesBySubtype(rows)

	report := domain.BalanceSheetReport{
		AsOf: asOf,
		CurrentAssets: buildSection("Current Assets", grouped,
			domain.SubtypeCash, domain.SubtypeBank, domain.SubtypeReceivable,
			domain.SubtypeInventory, domain.SubtypeOtherCurrentAsset),
		FixedAssets: buildSection("Fixed Assets", grouped, domain.SubtypeFixedAsset),
		CurrentLiabilities: buildSection("Current Liabilities", grouped,
			domain.SubtypePayable, domain.SubtypeTaxPayable, domain.SubtypeCurrentLiability),
		LongTermLiabilities: buildSection("Long-Term Liabilities", grouped, domain.SubtypeLongTermLiability),
		EquityAccounts: buildSection("Equity", grouped,
			domain.SubtypeOwnerEquity, domain.SubtypeRetainedEarnings),
		CurrentEarnings: netIncomeOf(rows),
	}

	report.TotalAssets = report.CurrentAssets.Total.Add(report.FixedAssets.Total)
	report.TotalLiabilities = report.CurrentLiabilities.Total.Add(report.LongTermLiabilities.Total)
	report.TotalEquity = report.EquityAccounts.Total.Add(report.CurrentEarnings)
	report.TotalLiabilitiesAndEquity = report.TotalLiabilities.Add(report.TotalEquity)

	if !report.TotalAssets.Equal(report.TotalLiabilitiesAndEquity) {
		s.LogError(ctx, apperrors.ErrBalanceSheetMismatch, "Balance sheet does not balance",
			slog.String("total_assets", report.TotalAssets.String()),
			slog.String("total_liabilities_and_equity", report.TotalLiabilitiesAndEquity.String()))
		return nil, fmt.Errorf("%w: assets %s, liabilities+equity %s",
			apperrors.ErrBalanceSheetMismatch, report.TotalAssets.String(), report.TotalLiabilitiesAndEquity.String())
	}

	return &report, nil
}

// IncomeStatement breaks revenue and expense activity in [start, end] by
// subtype. Gross profit is revenue minus cost of goods sold; net income is
// gross profit minus the remaining expenses.
func (s *reportingService) IncomeStatement(ctx context.Context, start, end time.Time) (*domain.IncomeStatementReport, error) {
	rows, err := s.reportingRepo.GetAccountActivityInRange(ctx, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch account activity")
		return nil, fmt.Errorf("failed to build income statement: %w", err)
	}

	grouped := balancesBySubtype(rows)

	report := domain.IncomeStatementReport{
		StartDate:        start,
		EndDate:          end,
		OperatingRevenue: grouped[domain.SubtypeOperatingRevenue],
		OtherRevenue:     grouped[domain.SubtypeOtherRevenue],
		OperatingExpense: grouped[domain.SubtypeOperatingExpense],
		OtherExpense:     grouped[domain.SubtypeOtherExpense],
	}
	report.COGS = append(report.COGS, grouped[domain.SubtypeCOGS]...)
	report.COGS = append(report.COGS, grouped[domain.SubtypePurchases]...)

	report.TotalRevenue = sumBalances(report.OperatingRevenue).Add(sumBalances(report.OtherRevenue))
	report.TotalCOGS = sumBalances(report.COGS)
	report.GrossProfit = report.TotalRevenue.Sub(report.TotalCOGS)
	report.TotalExpenses = report.TotalCOGS.
		Add(sumBalances(report.OperatingExpense)).
		Add(sumBalances(report.OtherExpense))
	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpenses)

	return &report, nil
}

// cashBalanceAsOf sums the natural balances of cash-like accounts over
// posted activity up to the given date.
func (s *reportingService) cashBalanceAsOf(ctx context.Context, asOf time.Time) (decimal.Decimal, error) {
	rows, err := s.reportingRepo.GetAccountActivity(ctx, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, row := range rows {
		if row.Subtype == domain.SubtypeCash || row.Subtype == domain.SubtypeBank {
			total = total.Add(accounting.NaturalBalance(row.AccountType, row.TotalDebit, row.TotalCredit))
		}
	}
	return total, nil
}

// CashFlow derives operating cash activity in [start, end] from posted
// payments, reconciled against the movement of cash-like account balances
// so that ending = beginning + net holds exactly.
func (s *reportingService) CashFlow(ctx context.Context, start, end time.Time) (*domain.CashFlowReport, error) {
	receipts, disbursements, err := s.documentRepo.SumPaymentFlows(ctx, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum payment flows")
		return nil, fmt.Errorf("failed to build cash flow report: %w", err)
	}

	beginning, err := s.cashBalanceAsOf(ctx, start.AddDate(0, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("failed to compute beginning cash: %w", err)
	}
	ending, err := s.cashBalanceAsOf(ctx, end)
	if err != nil {
		return nil, fmt.Errorf("failed to compute ending cash: %w", err)
	}

	netCashFlow := ending.Sub(beginning)
	// Cash movement not explained by customer receipts or vendor payments
	// (manual journal entries touching cash accounts).
	other := netCashFlow.Sub(receipts).Add(disbursements)

	return &domain.CashFlowReport{
		StartDate:             start,
		EndDate:               end,
		ReceiptsFromCustomers: receipts,
		PaymentsToVendors:     disbursements,
		OtherCashFlow:         other,
		NetCashFlow:           netCashFlow,
		BeginningCash:         beginning,
		EndingCash:            ending,
	}, nil
}

// EquityStatement explains the change in equity over [start, end]:
// closing = opening + net income + contributions - withdrawals.
func (s *reportingService) EquityStatement(ctx context.Context, start, end time.Time) (*domain.EquityStatementReport, error) {
	openingRows, err := s.reportingRepo.GetAccountActivity(ctx, start.AddDate(0, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("failed to build equity statement: %w", err)
	}
	rangeRows, err := s.reportingRepo.GetAccountActivityInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to build equity statement: %w", err)
	}

	opening := netIncomeOf(openingRows)
	for _, row := range openingRows {
		if row.AccountType == domain.Equity {
			opening = opening.Add(accounting.NaturalBalance(row.AccountType, row.TotalDebit, row.TotalCredit))
		}
	}

	contributions := decimal.Zero
	withdrawals := decimal.Zero
	for _, row := range rangeRows {
		if row.AccountType == domain.Equity {
			contributions = contributions.Add(row.TotalCredit)
			withdrawals = withdrawals.Add(row.TotalDebit)
		}
	}

	netIncome := netIncomeOf(rangeRows)

	return &domain.EquityStatementReport{
		StartDate:     start,
		EndDate:       end,
		OpeningEquity: opening,
		NetIncome:     netIncome,
		Contributions: contributions,
		Withdrawals:   withdrawals,
		ClosingEquity: opening.Add(netIncome).Add(contributions).Sub(withdrawals),
	}, nil
}

// agingDoc is the document shape both agings bucket.
type agingDoc struct {
	contactID   string
	documentID  string
	number      string
	dueDate     time.Time
	outstanding decimal.Decimal
}

// buildAging buckets open documents by days overdue and groups them by
// contact. The bucket totals sum to the grand total by construction.
func (s *reportingService) buildAging(ctx context.Context, asOf time.Time, docs []agingDoc) (*domain.AgingReport, error) {
	buckets := accounting.BuildAgingBuckets(s.agingBoundaries)

	contactIDs := make([]string, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if _, ok := seen[doc.contactID]; ok {
			continue
		}
		seen[doc.contactID] = struct{}{}
		contactIDs = append(contactIDs, doc.contactID)
	}
	contacts, err := s.documentRepo.FindContactsByIDs(ctx, contactIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	groupsByContact := make(map[string]*domain.AgingContactGroup)
	grandTotal := decimal.Zero

	for _, doc := range docs {
		days := accounting.DaysOverdue(doc.dueDate, asOf)
		idx := accounting.BucketIndexFor(days, buckets)
		buckets[idx].Total = buckets[idx].Total.Add(doc.outstanding)
		grandTotal = grandTotal.Add(doc.outstanding)

		group, ok := groupsByContact[doc.contactID]
		if !ok {
			name := doc.contactID
			if contact, found := contacts[doc.contactID]; found {
				name = contact.Name
			}
			group = &domain.AgingContactGroup{
				ContactID:   doc.contactID,
				ContactName: name,
				Totals:      make(map[string]decimal.Decimal, len(buckets)),
				Outstanding: decimal.Zero,
			}
			groupsByContact[doc.contactID] = group
		}
		group.Documents = append(group.Documents, domain.AgingDocument{
			DocumentID:  doc.documentID,
			Number:      doc.number,
			DueDate:     doc.dueDate,
			DaysOverdue: days,
			Outstanding: doc.outstanding,
			Bucket:      buckets[idx].Label,
		})
		group.Totals[buckets[idx].Label] = group.Totals[buckets[idx].Label].Add(doc.outstanding)
		group.Outstanding = group.Outstanding.Add(doc.outstanding)
	}

	groups := make([]domain.AgingContactGroup, 0, len(groupsByContact))
	for _, group := range groupsByContact {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ContactName < groups[j].ContactName })

	return &domain.AgingReport{
		AsOf:       asOf,
		Buckets:    buckets,
		Groups:     groups,
		GrandTotal: grandTotal,
	}, nil
}

// ReceivableAging buckets outstanding customer invoices by days overdue.
func (s *reportingService) ReceivableAging(ctx context.Context, asOf time.Time) (*domain.AgingReport, error) {
	invoices, err := s.documentRepo.ListOpenInvoices(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to list open invoices")
		return nil, fmt.Errorf("failed to build receivable aging: %w", err)
	}

	docs := make([]agingDoc, 0, len(invoices))
	for _, inv := range invoices {
		outstanding := inv.Outstanding()
		if !outstanding.IsPositive() {
			continue
		}
		docs = append(docs, agingDoc{
			contactID:   inv.ContactID,
			documentID:  inv.InvoiceID,
			number:      inv.InvoiceNumber,
			dueDate:     inv.DueDate,
			outstanding: outstanding,
		})
	}
	return s.buildAging(ctx, asOf, docs)
}

// PayableAging buckets outstanding vendor bills by days overdue.
func (s *reportingService) PayableAging(ctx context.Context, asOf time.Time) (*domain.AgingReport, error) {
	bills, err := s.documentRepo.ListOpenBills(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to list open bills")
		return nil, fmt.Errorf("failed to build payable aging: %w", err)
	}

	docs := make([]agingDoc, 0, len(bills))
	for _, bill := range bills {
		outstanding := bill.Outstanding()
		if !outstanding.IsPositive() {
			continue
		}
		docs = append(docs, agingDoc{
			contactID:   bill.ContactID,
			documentID:  bill.BillID,
			number:      bill.BillNumber,
			dueDate:     bill.DueDate,
			outstanding: outstanding,
		})
	}
	return s.buildAging(ctx, asOf, docs)
}

// CogsSummary computes cost of goods sold in [start, end] from inventory
// movement: beginning + purchases - ending. A period with no movement
// yields an all-zero report.
func (s *reportingService) CogsSummary(ctx context.Context, start, end time.Time) (*domain.CogsSummaryReport, error) {
	beginningRows, err := s.reportingRepo.GetAccountActivity(ctx, start.AddDate(0, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("failed to build COGS summary: %w", err)
	}
	endingRows, err := s.reportingRepo.GetAccountActivity(ctx, end)
	if err != nil {
		return nil, fmt.Errorf("failed to build COGS summary: %w", err)
	}
	rangeRows, err := s.reportingRepo.GetAccountActivityInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to build COGS summary: %w", err)
	}

	sumSubtype := func(rows []domain.AccountActivityRow, subtype domain.AccountSubtype) decimal.Decimal {
		total := decimal.Zero
		for _, row := range rows {
			if row.Subtype == subtype {
				total = total.Add(accounting.NaturalBalance(row.AccountType, row.TotalDebit, row.TotalCredit))
			}
		}
		return total
	}

	beginning := sumSubtype(beginningRows, domain.SubtypeInventory)
	ending := sumSubtype(endingRows, domain.SubtypeInventory)
	purchases := sumSubtype(rangeRows, domain.SubtypePurchases)

	return &domain.CogsSummaryReport{
		StartDate:          start,
		EndDate:            end,
		BeginningInventory: beginning,
		Purchases:          purchases,
		EndingInventory:    ending,
		COGS:               beginning.Add(purchases).Sub(ending),
	}, nil
}
