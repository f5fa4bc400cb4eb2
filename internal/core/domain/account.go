package domain

import "time"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountSubtype refines an AccountType for report grouping. The subtype
// decides which balance sheet / income statement section an account rolls
// into, and which accounts count as cash for the cash flow statement.
type AccountSubtype string

const (
	SubtypeCash              AccountSubtype = "CASH"
	SubtypeBank              AccountSubtype = "BANK"
	SubtypeReceivable        AccountSubtype = "ACCOUNTS_RECEIVABLE"
	SubtypeInventory         AccountSubtype = "INVENTORY"
	SubtypeOtherCurrentAsset AccountSubtype = "OTHER_CURRENT_ASSET"
	SubtypeFixedAsset        AccountSubtype = "FIXED_ASSET"
	SubtypePayable           AccountSubtype = "ACCOUNTS_PAYABLE"
	SubtypeTaxPayable        AccountSubtype = "TAX_PAYABLE"
	SubtypeCurrentLiability  AccountSubtype = "OTHER_CURRENT_LIABILITY"
	SubtypeLongTermLiability AccountSubtype = "LONG_TERM_LIABILITY"
	SubtypeOwnerEquity       AccountSubtype = "OWNER_EQUITY"
	SubtypeRetainedEarnings  AccountSubtype = "RETAINED_EARNINGS"
	SubtypeOperatingRevenue  AccountSubtype = "OPERATING_REVENUE"
	SubtypeOtherRevenue      AccountSubtype = "OTHER_REVENUE"
	SubtypeCOGS              AccountSubtype = "COGS"
	SubtypePurchases         AccountSubtype = "PURCHASES"
	SubtypeOperatingExpense  AccountSubtype = "OPERATING_EXPENSE"
	SubtypeOtherExpense      AccountSubtype = "OTHER_EXPENSE"
)

// Account represents one entry in the chart of accounts.
// Code is globally unique and immutable once any journal line references it.
type Account struct {
	AccountID       string         `json:"accountID"`
	Code            string         `json:"code"` // hierarchical, e.g. "1-1001"
	Name            string         `json:"name"`
	AccountType     AccountType    `json:"accountType"`
	Subtype         AccountSubtype `json:"subtype"`
	ParentAccountID *string        `json:"parentAccountID,omitempty"`
	Description     string         `json:"description"`
	IsSystem        bool           `json:"isSystem"` // never deletable, code never editable
	IsActive        bool           `json:"isActive"`
	DeletedAt       *time.Time     `json:"deletedAt,omitempty"`
	AuditFields
}

// IsCashLike reports whether the account participates in cash flow totals.
func (a Account) IsCashLike() bool {
	return a.Subtype == SubtypeCash || a.Subtype == SubtypeBank
}
