package apperrors

import (
	"errors"
	"fmt"
)

// Generic error kinds shared across services.
var (
	// ErrNotFound indicates that a requested resource could not be found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation indicates that input data failed validation checks.
	ErrValidation = errors.New("validation error")

	// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
	ErrDuplicate = errors.New("resource already exists")

	// ErrConflict indicates that the operation conflicts with the current state of the resource.
	ErrConflict = errors.New("operation conflicts with resource state")

	// ErrInternal indicates an unexpected internal failure.
	ErrInternal = errors.New("internal error")
)

// Validation-time errors, rejected before any state change.
var (
	ErrUnbalancedEntry   = errors.New("journal entry debits do not equal credits")
	ErrInsufficientLines = errors.New("journal entry must have at least two lines")
	ErrDuplicateCode     = errors.New("account code already exists")
	ErrOverlappingPeriod = errors.New("fiscal period overlaps an existing period")
	ErrOverpayment       = errors.New("payment amount exceeds outstanding balance")
)

// State-conflict errors, rejected due to the current entity state.
var (
	ErrAlreadyPosted   = errors.New("journal entry is already posted")
	ErrNotPosted       = errors.New("journal entry is not posted")
	ErrAlreadyReversed = errors.New("journal entry is already reversed")
	ErrImmutableEntry  = errors.New("posted journal entry is immutable")
	ErrPeriodLocked    = errors.New("fiscal period is locked against postings")
	ErrPeriodClosed    = errors.New("fiscal period is closed")
	ErrSystemAccount   = errors.New("system account cannot be modified or deleted")
	ErrHasTransactions = errors.New("account has journal lines and cannot be deleted")
)

// Integrity errors. These should never occur while the posting invariants
// hold; when observed they are surfaced as hard failures, never corrected.
var (
	ErrBalanceSheetMismatch   = errors.New("balance sheet does not balance: assets != liabilities + equity")
	ErrTrialBalanceUnbalanced = errors.New("trial balance debits do not equal credits")
)

// AppError wraps a lower-level failure with an HTTP-ish status code and a
// human-readable message. Repositories use it to classify storage failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that also matches ErrNotFound via errors.Is.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
