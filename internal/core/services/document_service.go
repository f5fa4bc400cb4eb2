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
	"github.com/bukubesar/bukubesar/internal/dto"
)

// documentService manages contacts and the sales/purchase documents that
// feed the document poster.
type documentService struct {
	BaseService
	documentRepo portsrepo.DocumentRepository
	now          func() time.Time
}

// NewDocumentService creates a new document service.
func NewDocumentService(documentRepo portsrepo.DocumentRepository) portssvc.DocumentSvcFacade {
	return &documentService{
		documentRepo: documentRepo,
		now:          time.Now,
	}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

func (s *documentService) audit(actor string) domain.AuditFields {
	now := s.now().UTC()
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actor,
		LastUpdatedAt: now,
		LastUpdatedBy: actor,
	}
}

// CreateContact registers a customer or vendor.
func (s *documentService) CreateContact(ctx context.Context, req dto.CreateContactRequest, actor string) (*domain.Contact, error) {
	contact := domain.Contact{
		ContactID:   uuid.NewString(),
		Name:        req.Name,
		Type:        domain.ContactType(req.Type),
		Email:       req.Email,
		Phone:       req.Phone,
		AuditFields: s.audit(actor),
	}

	if err := s.documentRepo.SaveContact(ctx, contact); err != nil {
		s.LogError(ctx, err, "Failed to save contact", slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}

	s.LogInfo(ctx, "Contact created", slog.String("contact_id", contact.ContactID))
	return &contact, nil
}

// validateDocumentAmounts enforces non-negative amounts and a positive total.
func validateDocumentAmounts(subtotal, taxAmount decimal.Decimal) error {
	if subtotal.IsNegative() || taxAmount.IsNegative() {
		return fmt.Errorf("%w: amounts must be non-negative", apperrors.ErrValidation)
	}
	if !subtotal.Add(taxAmount).IsPositive() {
		return fmt.Errorf("%w: document total must be positive", apperrors.ErrValidation)
	}
	return nil
}

// CreateInvoice records a draft sales invoice. No journal entry exists
// until the invoice is posted.
func (s *documentService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, actor string) (*domain.Invoice, error) {
	if err := validateDocumentAmounts(req.Subtotal, req.TaxAmount); err != nil {
		return nil, err
	}
	if req.DueDate.Before(req.IssueDate) {
		return nil, fmt.Errorf("%w: due date precedes issue date", apperrors.ErrValidation)
	}

	contact, err := s.documentRepo.FindContactByID(ctx, req.ContactID)
	if err != nil {
		return nil, err
	}
	if contact.Type == domain.Vendor {
		return nil, fmt.Errorf("%w: contact %s is a vendor, not a customer", apperrors.ErrValidation, contact.Name)
	}

	invoice := domain.Invoice{
		InvoiceID:     uuid.NewString(),
		InvoiceNumber: req.InvoiceNumber,
		ContactID:     req.ContactID,
		IssueDate:     req.IssueDate,
		DueDate:       req.DueDate,
		Subtotal:      req.Subtotal,
		TaxAmount:     req.TaxAmount,
		TotalAmount:   req.Subtotal.Add(req.TaxAmount),
		PaidAmount:    decimal.Zero,
		Status:        domain.StatusDraft,
		AuditFields:   s.audit(actor),
	}

	if err := s.documentRepo.SaveInvoice(ctx, invoice); err != nil {
		s.LogError(ctx, err, "Failed to save invoice", slog.String("invoice_number", req.InvoiceNumber))
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.LogInfo(ctx, "Invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("invoice_number", invoice.InvoiceNumber))
	return &invoice, nil
}

// GetInvoiceByID retrieves an invoice.
func (s *documentService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return s.documentRepo.FindInvoiceByID(ctx, invoiceID)
}

// CreateBill records a draft purchase bill.
func (s *documentService) CreateBill(ctx context.Context, req dto.CreateBillRequest, actor string) (*domain.Bill, error) {
	if err := validateDocumentAmounts(req.Subtotal, req.TaxAmount); err != nil {
		return nil, err
	}
	if req.DueDate.Before(req.IssueDate) {
		return nil, fmt.Errorf("%w: due date precedes issue date", apperrors.ErrValidation)
	}

	contact, err := s.documentRepo.FindContactByID(ctx, req.ContactID)
	if err != nil {
		return nil, err
	}
	if contact.Type == domain.Customer {
		return nil, fmt.Errorf("%w: contact %s is a customer, not a vendor", apperrors.ErrValidation, contact.Name)
	}

	bill := domain.Bill{
		BillID:      uuid.NewString(),
		BillNumber:  req.BillNumber,
		ContactID:   req.ContactID,
		IssueDate:   req.IssueDate,
		DueDate:     req.DueDate,
		Subtotal:    req.Subtotal,
		TaxAmount:   req.TaxAmount,
		TotalAmount: req.Subtotal.Add(req.TaxAmount),
		PaidAmount:  decimal.Zero,
		Status:      domain.StatusDraft,
		AuditFields: s.audit(actor),
	}

	if err := s.documentRepo.SaveBill(ctx, bill); err != nil {
		s.LogError(ctx, err, "Failed to save bill", slog.String("bill_number", req.BillNumber))
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}

	s.LogInfo(ctx, "Bill created", slog.String("bill_id", bill.BillID), slog.String("bill_number", bill.BillNumber))
	return &bill, nil
}

// GetBillByID retrieves a bill.
func (s *documentService) GetBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	return s.documentRepo.FindBillByID(ctx, billID)
}

// CreatePayment records a payment against an invoice (RECEIVE) or a bill
// (PAY). The payment stays unposted until the poster runs; overpayment is
// rejected here against the document's current outstanding amount.
func (s *documentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, actor string) (*domain.Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	direction := domain.PaymentDirection(req.Direction)
	switch direction {
	case domain.Receive:
		if req.InvoiceID == nil {
			return nil, fmt.Errorf("%w: RECEIVE payment requires invoiceID", apperrors.ErrValidation)
		}
		invoice, err := s.documentRepo.FindInvoiceByID(ctx, *req.InvoiceID)
		if err != nil {
			return nil, err
		}
		if req.Amount.GreaterThan(invoice.Outstanding()) {
			return nil, fmt.Errorf("%w: %s exceeds outstanding %s on invoice %s",
				apperrors.ErrOverpayment, req.Amount.String(), invoice.Outstanding().String(), invoice.InvoiceNumber)
		}
	case domain.Pay:
		if req.BillID == nil {
			return nil, fmt.Errorf("%w: PAY payment requires billID", apperrors.ErrValidation)
		}
		bill, err := s.documentRepo.FindBillByID(ctx, *req.BillID)
		if err != nil {
			return nil, err
		}
		if req.Amount.GreaterThan(bill.Outstanding()) {
			return nil, fmt.Errorf("%w: %s exceeds outstanding %s on bill %s",
				apperrors.ErrOverpayment, req.Amount.String(), bill.Outstanding().String(), bill.BillNumber)
		}
	default:
		return nil, fmt.Errorf("%w: unknown payment direction %q", apperrors.ErrValidation, req.Direction)
	}

	payment := domain.Payment{
		PaymentID:     uuid.NewString(),
		PaymentNumber: req.PaymentNumber,
		Direction:     direction,
		ContactID:     req.ContactID,
		InvoiceID:     req.InvoiceID,
		BillID:        req.BillID,
		PaymentDate:   req.PaymentDate,
		Amount:        req.Amount,
		AuditFields:   s.audit(actor),
	}

	if err := s.documentRepo.SavePayment(ctx, payment); err != nil {
		s.LogError(ctx, err, "Failed to save payment", slog.String("payment_number", req.PaymentNumber))
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	s.LogInfo(ctx, "Payment created", slog.String("payment_id", payment.PaymentID), slog.String("direction", string(direction)))
	return &payment, nil
}

// GetPaymentByID retrieves a payment.
func (s *documentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return s.documentRepo.FindPaymentByID(ctx, paymentID)
}
