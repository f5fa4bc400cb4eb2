package services

import (
	"context"

	"github.com/bukubesar/bukubesar/internal/core/domain"
	"github.com/bukubesar/bukubesar/internal/dto"
)

// DocumentSvcFacade manages the sales/purchase documents the poster
// operates on.
type DocumentSvcFacade interface {
	CreateContact(ctx context.Context, req dto.CreateContactRequest, actor string) (*domain.Contact, error)
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, actor string) (*domain.Invoice, error)
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	CreateBill(ctx context.Context, req dto.CreateBillRequest, actor string) (*domain.Bill, error)
	GetBillByID(ctx context.Context, billID string) (*domain.Bill, error)
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, actor string) (*domain.Payment, error)
	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
}

// PostingSvcFacade is the document poster: it translates finalized business
// documents into balanced, posted journal entries under fixed posting
// rules, atomically with the document's status flip.
type PostingSvcFacade interface {
	PostInvoice(ctx context.Context, invoiceID string, actor string) (*domain.JournalEntry, error)
	PostBill(ctx context.Context, billID string, actor string) (*domain.JournalEntry, error)
	PostPayment(ctx context.Context, paymentID string, actor string) (*domain.JournalEntry, error)
}
