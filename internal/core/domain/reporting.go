package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountActivityRow is the raw per-account aggregate the reports are
// composed from: summed debits and credits over posted lines in a window,
// joined with the account's metadata.
type AccountActivityRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Subtype     AccountSubtype  `json:"subtype"`
	IsActive    bool            `json:"isActive"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}

// TrialBalanceRow presents one account's net balance on its natural side.
type TrialBalanceRow struct {
	AccountID     string          `json:"accountID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	AccountType   AccountType     `json:"accountType"`
	DebitBalance  decimal.Decimal `json:"debitBalance"`
	CreditBalance decimal.Decimal `json:"creditBalance"`
}

// TrialBalanceReport lists every active account as of a date.
// IsBalanced reports the Σdebit == Σcredit closure; a false value signals an
// upstream ledger defect and is surfaced to the caller untouched.
type TrialBalanceReport struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	IsBalanced  bool              `json:"isBalanced"`
}

// AccountBalance is an account annotated with a computed balance, used as a
// building block in the composed reports.
type AccountBalance struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Subtype   AccountSubtype  `json:"subtype"`
	Balance   decimal.Decimal `json:"balance"`
}

// BalanceSheetSection groups accounts with a subtotal.
type BalanceSheetSection struct {
	Title    string           `json:"title"`
	Accounts []AccountBalance `json:"accounts"`
	Total    decimal.Decimal  `json:"total"`
}

// BalanceSheetReport presents the accounting equation as of a date.
// TotalAssets must equal TotalLiabilities + TotalEquity exactly.
type BalanceSheetReport struct {
	AsOf                      time.Time           `json:"asOf"`
	CurrentAssets             BalanceSheetSection `json:"currentAssets"`
	FixedAssets               BalanceSheetSection `json:"fixedAssets"`
	CurrentLiabilities        BalanceSheetSection `json:"currentLiabilities"`
	LongTermLiabilities       BalanceSheetSection `json:"longTermLiabilities"`
	EquityAccounts            BalanceSheetSection `json:"equity"`
	CurrentEarnings           decimal.Decimal     `json:"currentEarnings"` // net income folded into equity
	TotalAssets               decimal.Decimal     `json:"totalAssets"`
	TotalLiabilities          decimal.Decimal     `json:"totalLiabilities"`
	TotalEquity               decimal.Decimal     `json:"totalEquity"`
	TotalLiabilitiesAndEquity decimal.Decimal     `json:"totalLiabilitiesAndEquity"`
}

// IncomeStatementReport breaks revenue and expense activity over a period.
type IncomeStatementReport struct {
	StartDate        time.Time        `json:"startDate"`
	EndDate          time.Time        `json:"endDate"`
	OperatingRevenue []AccountBalance `json:"operatingRevenue"`
	OtherRevenue     []AccountBalance `json:"otherRevenue"`
	TotalRevenue     decimal.Decimal  `json:"totalRevenue"`
	COGS             []AccountBalance `json:"cogs"`
	TotalCOGS        decimal.Decimal  `json:"totalCOGS"`
	GrossProfit      decimal.Decimal  `json:"grossProfit"`
	OperatingExpense []AccountBalance `json:"operatingExpense"`
	OtherExpense     []AccountBalance `json:"otherExpense"`
	TotalExpenses    decimal.Decimal  `json:"totalExpenses"`
	NetIncome        decimal.Decimal  `json:"netIncome"`
}

// CashFlowReport derives operating cash activity from settled payments.
// EndingCash = BeginningCash + NetCashFlow holds as an exact identity.
type CashFlowReport struct {
	StartDate             time.Time       `json:"startDate"`
	EndDate               time.Time       `json:"endDate"`
	ReceiptsFromCustomers decimal.Decimal `json:"receiptsFromCustomers"`
	PaymentsToVendors     decimal.Decimal `json:"paymentsToVendors"`
	OtherCashFlow         decimal.Decimal `json:"otherCashFlow"`
	NetCashFlow           decimal.Decimal `json:"netCashFlow"`
	BeginningCash         decimal.Decimal `json:"beginningCash"`
	EndingCash            decimal.Decimal `json:"endingCash"`
}

// EquityStatementReport explains the change in equity over a period.
type EquityStatementReport struct {
	StartDate     time.Time       `json:"startDate"`
	EndDate       time.Time       `json:"endDate"`
	OpeningEquity decimal.Decimal `json:"openingEquity"`
	NetIncome     decimal.Decimal `json:"netIncome"`
	Contributions decimal.Decimal `json:"contributions"`
	Withdrawals   decimal.Decimal `json:"withdrawals"`
	ClosingEquity decimal.Decimal `json:"closingEquity"`
}

// AgingBucket is one day-range column of an aging report.
type AgingBucket struct {
	Label   string          `json:"label"` // e.g. "1-30"
	MinDays int             `json:"minDays"`
	MaxDays int             `json:"maxDays"` // -1 for open-ended
	Total   decimal.Decimal `json:"total"`
}

// AgingDocument is one open invoice/bill placed into a bucket.
type AgingDocument struct {
	DocumentID  string          `json:"documentID"`
	Number      string          `json:"number"`
	DueDate     time.Time       `json:"dueDate"`
	DaysOverdue int             `json:"daysOverdue"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Bucket      string          `json:"bucket"`
}

// AgingContactGroup groups a contact's open documents with per-bucket totals.
type AgingContactGroup struct {
	ContactID   string                     `json:"contactID"`
	ContactName string                     `json:"contactName"`
	Documents   []AgingDocument            `json:"documents"`
	Totals      map[string]decimal.Decimal `json:"totals"` // bucket label -> total
	Outstanding decimal.Decimal            `json:"outstanding"`
}

// AgingReport buckets outstanding receivables or payables by days overdue.
// The bucket totals always sum to GrandTotal.
type AgingReport struct {
	AsOf       time.Time           `json:"asOf"`
	Buckets    []AgingBucket       `json:"buckets"`
	Groups     []AgingContactGroup `json:"groups"`
	GrandTotal decimal.Decimal     `json:"grandTotal"`
}

// CogsSummaryReport computes cost of goods sold over a period from inventory
// movements: beginning + purchases - ending. A period with no movement
// yields an all-zero report, not an error.
type CogsSummaryReport struct {
	StartDate          time.Time       `json:"startDate"`
	EndDate            time.Time       `json:"endDate"`
	BeginningInventory decimal.Decimal `json:"beginningInventory"`
	Purchases          decimal.Decimal `json:"purchases"`
	EndingInventory    decimal.Decimal `json:"endingInventory"`
	COGS               decimal.Decimal `json:"cogs"`
}
