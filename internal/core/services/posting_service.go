package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bukubesar/bukubesar/internal/apperrors"
	"github.com/bukubesar/bukubesar/internal/core/domain"
	portsrepo "github.com/bukubesar/bukubesar/internal/core/ports/repositories"
	portssvc "github.com/bukubesar/bukubesar/internal/core/ports/services"
	"github.com/bukubesar/bukubesar/internal/utils/accounting"
)

// PostingAccounts names the chart codes the document poster writes to.
// The codes must resolve to active accounts at posting time.
type PostingAccounts struct {
	Cash          string // Dr on customer receipts, Cr on vendor payments
	Receivable    string // Dr on invoice posting
	Payable       string // Cr on bill posting
	SalesRevenue  string // Cr on invoice posting
	TaxPayable    string // Cr on invoice posting (output tax)
	Purchases     string // Dr on bill posting
	TaxReceivable string // Dr on bill posting (input tax)
}

// postingService translates finalized documents into balanced, posted
// journal entries under fixed posting rules.
type postingService struct {
	BaseService
	documentRepo portsrepo.DocumentRepository
	accountSvc   portssvc.AccountSvcFacade
	periodSvc    portssvc.FiscalPeriodSvcFacade
	accounts     PostingAccounts
	now          func() time.Time
}

// NewPostingService creates a new document poster.
func NewPostingService(documentRepo portsrepo.DocumentRepository, accountSvc portssvc.AccountSvcFacade, periodSvc portssvc.FiscalPeriodSvcFacade, accounts PostingAccounts) portssvc.PostingSvcFacade {
	return &postingService{
		documentRepo: documentRepo,
		accountSvc:   accountSvc,
		periodSvc:    periodSvc,
		accounts:     accounts,
		now:          time.Now,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// resolveAccount maps a configured chart code to its account, requiring it
// to be active.
func (s *postingService) resolveAccount(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountSvc.GetAccountByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("posting account %s: %w", code, err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: posting account %s is inactive", apperrors.ErrConflict, code)
	}
	return account, nil
}

// checkPostable rejects document postings dated inside a locked or closed
// fiscal period.
func (s *postingService) checkPostable(ctx context.Context, date time.Time) error {
	period, err := s.periodSvc.FindPeriodForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to resolve fiscal period: %w", err)
	}
	if period != nil && period.RejectsPostings() {
		return fmt.Errorf("%w: period %s", apperrors.ErrPeriodLocked, period.Name)
	}
	return nil
}

type postingLine struct {
	accountCode string
	debit       decimal.Decimal
	credit      decimal.Decimal
	description string
}

// buildEntry assembles a posted journal entry from posting lines, skipping
// zero-amount lines (a tax-free invoice simply has no tax line), and
// validates the balance invariant before handing the entry to the
// repository.
func (s *postingService) buildEntry(ctx context.Context, entryDate time.Time, description, reference string, specs []postingLine, actor string) (*domain.JournalEntry, error) {
	now := s.now().UTC()
	entryID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actor,
		LastUpdatedAt: now,
		LastUpdatedBy: actor,
	}

	lines := make([]domain.JournalEntryLine, 0, len(specs))
	for _, spec := range specs {
		if spec.debit.IsZero() && spec.credit.IsZero() {
			continue
		}
		account, err := s.resolveAccount(ctx, spec.accountCode)
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.JournalEntryLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   account.AccountID,
			Debit:       spec.debit,
			Credit:      spec.credit,
			Description: spec.description,
			LineOrder:   len(lines),
			AuditFields: audit,
		})
	}

	if err := accounting.ValidateEntryLines(lines); err != nil {
		return nil, err
	}

	return &domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   entryDate,
		Description: description,
		Reference:   reference,
		IsPosted:    true,
		Lines:       lines,
		AuditFields: audit,
	}, nil
}

// PostInvoice posts a draft invoice: Dr receivable for the total, Cr sales
// revenue for the subtotal, Cr tax payable for the tax. The entry and the
// invoice's DRAFT -> SENT flip commit in one transaction.
func (s *postingService) PostInvoice(ctx context.Context, invoiceID string, actor string) (*domain.JournalEntry, error) {
	invoice, err := s.documentRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.JournalEntryID != nil {
		return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrAlreadyPosted, invoice.InvoiceNumber)
	}
	if invoice.Status == domain.StatusVoid {
		return nil, fmt.Errorf("%w: invoice %s is void", apperrors.ErrConflict, invoice.InvoiceNumber)
	}
	if err := s.checkPostable(ctx, invoice.IssueDate); err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Invoice %s", invoice.InvoiceNumber)
	entry, err := s.buildEntry(ctx, invoice.IssueDate, description, invoice.InvoiceNumber, []postingLine{
		{accountCode: s.accounts.Receivable, debit: invoice.TotalAmount, description: description},
		{accountCode: s.accounts.SalesRevenue, credit: invoice.Subtotal, description: description},
		{accountCode: s.accounts.TaxPayable, credit: invoice.TaxAmount, description: description + " output tax"},
	}, actor)
	if err != nil {
		return nil, err
	}

	entryNumber, err := s.documentRepo.PostInvoiceJournal(ctx, *invoice, *entry)
	if err != nil {
		s.LogError(ctx, err, "Failed to post invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	entry.EntryNumber = entryNumber

	s.LogInfo(ctx, "Invoice posted",
		slog.String("invoice_id", invoiceID),
		slog.String("entry_number", entryNumber))
	return entry, nil
}

// PostBill posts a draft bill: Dr purchases for the subtotal, Dr tax
// receivable for the tax, Cr payable for the total. Status flips
// DRAFT -> RECEIVED atomically with the entry.
func (s *postingService) PostBill(ctx context.Context, billID string, actor string) (*domain.JournalEntry, error) {
	bill, err := s.documentRepo.FindBillByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.JournalEntryID != nil {
		return nil, fmt.Errorf("%w: bill %s", apperrors.ErrAlreadyPosted, bill.BillNumber)
	}
	if bill.Status == domain.StatusVoid {
		return nil, fmt.Errorf("%w: bill %s is void", apperrors.ErrConflict, bill.BillNumber)
	}
	if err := s.checkPostable(ctx, bill.IssueDate); err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Bill %s", bill.BillNumber)
	entry, err := s.buildEntry(ctx, bill.IssueDate, description, bill.BillNumber, []postingLine{
		{accountCode: s.accounts.Purchases, debit: bill.Subtotal, description: description},
		{accountCode: s.accounts.TaxReceivable, debit: bill.TaxAmount, description: description + " input tax"},
		{accountCode: s.accounts.Payable, credit: bill.TotalAmount, description: description},
	}, actor)
	if err != nil {
		return nil, err
	}

	entryNumber, err := s.documentRepo.PostBillJournal(ctx, *bill, *entry)
	if err != nil {
		s.LogError(ctx, err, "Failed to post bill", slog.String("bill_id", billID))
		return nil, err
	}
	entry.EntryNumber = entryNumber

	s.LogInfo(ctx, "Bill posted",
		slog.String("bill_id", billID),
		slog.String("entry_number", entryNumber))
	return entry, nil
}

// PostPayment posts a payment: RECEIVE is Dr cash / Cr receivable, PAY is
// Dr payable / Cr cash. The settled document's paid amount and status
// update in the same transaction as the entry. The overpayment check here
// runs against a snapshot; the repository re-checks it against the current
// row inside the transaction, so a concurrent settlement of the same
// document fails with ErrOverpayment instead of losing an update.
func (s *postingService) PostPayment(ctx context.Context, paymentID string, actor string) (*domain.JournalEntry, error) {
	payment, err := s.documentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.JournalEntryID != nil {
		return nil, fmt.Errorf("%w: payment %s", apperrors.ErrAlreadyPosted, payment.PaymentNumber)
	}
	if err := s.checkPostable(ctx, payment.PaymentDate); err != nil {
		return nil, err
	}

	var (
		invoice *domain.Invoice
		bill    *domain.Bill
		specs   []postingLine
	)
	description := fmt.Sprintf("Payment %s", payment.PaymentNumber)

	switch payment.Direction {
	case domain.Receive:
		if payment.InvoiceID == nil {
			return nil, fmt.Errorf("%w: RECEIVE payment %s has no invoice", apperrors.ErrValidation, payment.PaymentNumber)
		}
		invoice, err = s.documentRepo.FindInvoiceByID(ctx, *payment.InvoiceID)
		if err != nil {
			return nil, err
		}
		if payment.Amount.GreaterThan(invoice.Outstanding()) {
			return nil, fmt.Errorf("%w: %s exceeds outstanding %s on invoice %s",
				apperrors.ErrOverpayment, payment.Amount.String(), invoice.Outstanding().String(), invoice.InvoiceNumber)
		}
		specs = []postingLine{
			{accountCode: s.accounts.Cash, debit: payment.Amount, description: description},
			{accountCode: s.accounts.Receivable, credit: payment.Amount, description: description},
		}
	case domain.Pay:
		if payment.BillID == nil {
			return nil, fmt.Errorf("%w: PAY payment %s has no bill", apperrors.ErrValidation, payment.PaymentNumber)
		}
		bill, err = s.documentRepo.FindBillByID(ctx, *payment.BillID)
		if err != nil {
			return nil, err
		}
		if payment.Amount.GreaterThan(bill.Outstanding()) {
			return nil, fmt.Errorf("%w: %s exceeds outstanding %s on bill %s",
				apperrors.ErrOverpayment, payment.Amount.String(), bill.Outstanding().String(), bill.BillNumber)
		}
		specs = []postingLine{
			{accountCode: s.accounts.Payable, debit: payment.Amount, description: description},
			{accountCode: s.accounts.Cash, credit: payment.Amount, description: description},
		}
	default:
		return nil, fmt.Errorf("%w: unknown payment direction %q", apperrors.ErrValidation, payment.Direction)
	}

	entry, err := s.buildEntry(ctx, payment.PaymentDate, description, payment.PaymentNumber, specs, actor)
	if err != nil {
		return nil, err
	}

	entryNumber, err := s.documentRepo.PostPaymentJournal(ctx, *payment, *entry, invoice, bill)
	if err != nil {
		s.LogError(ctx, err, "Failed to post payment", slog.String("payment_id", paymentID))
		return nil, err
	}
	entry.EntryNumber = entryNumber

	s.LogInfo(ctx, "Payment posted",
		slog.String("payment_id", paymentID),
		slog.String("direction", string(payment.Direction)),
		slog.String("entry_number", entryNumber))
	return entry, nil
}
