package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry represents a single, balanced financial event.
// Lifecycle: draft -> posted -> reversed. Drafts may be edited or deleted;
// a posted entry is immutable and can only be cancelled by a linked
// reversing entry.
type JournalEntry struct {
	EntryID          string             `json:"entryID"`
	EntryNumber      string             `json:"entryNumber"` // sequential, e.g. "JE-000042"
	EntryDate        time.Time          `json:"entryDate"`
	Description      string             `json:"description"`
	Reference        string             `json:"reference"`
	IsPosted         bool               `json:"isPosted"`
	IsReversed       bool               `json:"isReversed"`
	OriginalEntryID  *string            `json:"originalEntryID,omitempty"`  // set on reversing entries
	ReversingEntryID *string            `json:"reversingEntryID,omitempty"` // set on reversed originals
	FiscalPeriodID   *string            `json:"fiscalPeriodID,omitempty"`   // stamped at posting time
	Lines            []JournalEntryLine `json:"lines,omitempty"`
	AuditFields
}

// TotalDebit sums the debit side of the entry's lines.
func (e JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Debit)
	}
	return total
}

// TotalCredit sums the credit side of the entry's lines.
func (e JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Credit)
	}
	return total
}

// IsBalanced reports whether debits exactly equal credits.
func (e JournalEntry) IsBalanced() bool {
	return e.TotalDebit().Equal(e.TotalCredit())
}

// JournalEntryLine is a single line within a journal entry, affecting one
// account. Exactly one of Debit/Credit is nonzero; amounts are whole minor
// currency units held in decimals, never floats.
type JournalEntryLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	LineOrder   int             `json:"lineOrder"`
	AuditFields
}

// SignedAmount returns debit minus credit for the line.
func (l JournalEntryLine) SignedAmount() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// LedgerLine is a journal line annotated with its parent entry header and a
// running balance, as presented in a general ledger view.
type LedgerLine struct {
	JournalEntryLine
	EntryNumber    string          `json:"entryNumber"`
	EntryDate      time.Time       `json:"entryDate"`
	EntryReference string          `json:"entryReference"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// GeneralLedger is the ledger view of one account over a date range.
type GeneralLedger struct {
	AccountID      string          `json:"accountID"`
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Lines          []LedgerLine    `json:"lines"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}
