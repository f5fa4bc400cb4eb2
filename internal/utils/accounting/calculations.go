package accounting

import (
	"fmt"

	"github.com/bukubesar/bukubesar/internal/apperrors"
	"github.com/bukubesar/bukubesar/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceSign returns the normal-balance sign for an account type:
// +1 for debit-normal (asset, expense), -1 for credit-normal
// (liability, equity, revenue). Unknown types return 0.
func BalanceSign(accountType domain.AccountType) int {
	switch accountType {
	case domain.Asset, domain.Expense:
		return 1
	case domain.Liability, domain.Equity, domain.Revenue:
		return -1
	default:
		return 0
	}
}

// NaturalBalance converts raw debit/credit totals into a balance presented
// as positive for an account sitting on its normal side.
func NaturalBalance(accountType domain.AccountType, totalDebit, totalCredit decimal.Decimal) decimal.Decimal {
	net := totalDebit.Sub(totalCredit)
	if BalanceSign(accountType) < 0 {
		return net.Neg()
	}
	return net
}

// SignedLineAmount is a line's contribution to its account's natural
// balance: (debit - credit) multiplied by the normal-balance sign.
func SignedLineAmount(line domain.JournalEntryLine, accountType domain.AccountType) (decimal.Decimal, error) {
	sign := BalanceSign(accountType)
	if sign == 0 {
		return decimal.Zero, fmt.Errorf("unknown account type %q for account %s", accountType, line.AccountID)
	}
	amount := line.Debit.Sub(line.Credit)
	if sign < 0 {
		amount = amount.Neg()
	}
	return amount, nil
}

// ValidateEntryLines enforces the line-level invariants of a journal entry:
// at least two lines, every amount non-negative, exactly one of
// debit/credit nonzero per line, and Σdebit == Σcredit with exact decimal
// equality (no rounding tolerance).
func ValidateEntryLines(lines []domain.JournalEntryLine) error {
	if len(lines) < 2 {
		return apperrors.ErrInsufficientLines
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, i+1)
		}
		debitSet := line.Debit.IsPositive()
		creditSet := line.Credit.IsPositive()
		if debitSet == creditSet {
			// Either both zero or both set; a line carries exactly one side.
			return fmt.Errorf("%w: line %d must have exactly one of debit or credit set", apperrors.ErrValidation, i+1)
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("%w: debits %s, credits %s",
			apperrors.ErrUnbalancedEntry, totalDebit.String(), totalCredit.String())
	}

	return nil
}

// ReversedLines returns a mirrored copy of the given lines with debit and
// credit swapped, preserving order and descriptions.
func ReversedLines(lines []domain.JournalEntryLine) []domain.JournalEntryLine {
	reversed := make([]domain.JournalEntryLine, len(lines))
	for i, line := range lines {
		reversed[i] = line
		reversed[i].Debit = line.Credit
		reversed[i].Credit = line.Debit
	}
	return reversed
}
