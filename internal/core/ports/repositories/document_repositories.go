package repositories

import (
	"context"
	"time"

	"github.com/bukubesar/bukubesar/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DocumentRepository persists contacts, invoices, bills and payments, and
// carries out the atomic document-posting writes: journal entry creation,
// posting, and the document's status flip succeed or fail together.
type DocumentRepository interface {
	SaveContact(ctx context.Context, contact domain.Contact) error
	FindContactByID(ctx context.Context, contactID string) (*domain.Contact, error)
	FindContactsByIDs(ctx context.Context, contactIDs []string) (map[string]domain.Contact, error)

	SaveInvoice(ctx context.Context, invoice domain.Invoice) error
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	// ListOpenInvoices returns posted, not fully paid invoices issued on or
	// before the as-of date, for receivable aging.
	ListOpenInvoices(ctx context.Context, asOf time.Time) ([]domain.Invoice, error)

	SaveBill(ctx context.Context, bill domain.Bill) error
	FindBillByID(ctx context.Context, billID string) (*domain.Bill, error)
	ListOpenBills(ctx context.Context, asOf time.Time) ([]domain.Bill, error)

	SavePayment(ctx context.Context, payment domain.Payment) error
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
	// SumPaymentFlows totals posted RECEIVE and PAY payment amounts inside
	// the range, for the cash flow statement's operating section.
	SumPaymentFlows(ctx context.Context, start, end time.Time) (receipts, disbursements decimal.Decimal, err error)

	// PostInvoiceJournal writes the posted entry with its lines, links it to
	// the invoice, and flips the invoice status in one transaction.
	// The invoice row is guarded on journal_entry_id IS NULL so a
	// concurrent poster fails with apperrors.ErrAlreadyPosted.
	PostInvoiceJournal(ctx context.Context, invoice domain.Invoice, entry domain.JournalEntry) (entryNumber string, err error)
	PostBillJournal(ctx context.Context, bill domain.Bill, entry domain.JournalEntry) (entryNumber string, err error)
	// PostPaymentJournal writes the posted entry, links it to the payment,
	// and increments the settled invoice's or bill's paid amount in one
	// transaction. The increment is guarded against the current row, never
	// the caller's snapshot: when it would push paid_amount past
	// total_amount the whole transaction fails with
	// apperrors.ErrOverpayment. Status derives from the post-increment
	// amount (PAID on full settlement, PARTIAL otherwise).
	PostPaymentJournal(ctx context.Context, payment domain.Payment, entry domain.JournalEntry, invoice *domain.Invoice, bill *domain.Bill) (entryNumber string, err error)
}
