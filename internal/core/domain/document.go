package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContactType classifies a business contact.
type ContactType string

const (
	Customer ContactType = "CUSTOMER"
	Vendor   ContactType = "VENDOR"
	Both     ContactType = "BOTH"
)

// Contact is a customer or vendor that documents are raised against.
type Contact struct {
	ContactID string      `json:"contactID"`
	Name      string      `json:"name"`
	Type      ContactType `json:"type"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	AuditFields
}

// DocumentStatus tracks a sales or purchase document through its lifecycle.
type DocumentStatus string

const (
	StatusDraft    DocumentStatus = "DRAFT"
	StatusSent     DocumentStatus = "SENT"     // invoice posted, awaiting payment
	StatusReceived DocumentStatus = "RECEIVED" // bill posted, awaiting payment
	StatusPartial  DocumentStatus = "PARTIAL"
	StatusPaid     DocumentStatus = "PAID"
	StatusVoid     DocumentStatus = "VOID"
)

// Invoice is a sales document. Posting it produces one balanced journal
// entry (Dr receivable / Cr revenue / Cr tax payable) and links it here.
type Invoice struct {
	InvoiceID      string          `json:"invoiceID"`
	InvoiceNumber  string          `json:"invoiceNumber"`
	ContactID      string          `json:"contactID"`
	IssueDate      time.Time       `json:"issueDate"`
	DueDate        time.Time       `json:"dueDate"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	Status         DocumentStatus  `json:"status"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"`
	AuditFields
}

// Outstanding returns the unpaid portion of the invoice.
func (i Invoice) Outstanding() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount)
}

// Bill is a purchase document, the payable mirror of Invoice.
type Bill struct {
	BillID         string          `json:"billID"`
	BillNumber     string          `json:"billNumber"`
	ContactID      string          `json:"contactID"`
	IssueDate      time.Time       `json:"issueDate"`
	DueDate        time.Time       `json:"dueDate"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	Status         DocumentStatus  `json:"status"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"`
	AuditFields
}

// Outstanding returns the unpaid portion of the bill.
func (b Bill) Outstanding() decimal.Decimal {
	return b.TotalAmount.Sub(b.PaidAmount)
}

// PaymentDirection distinguishes money received from money paid out.
type PaymentDirection string

const (
	Receive PaymentDirection = "RECEIVE" // against an invoice
	Pay     PaymentDirection = "PAY"     // against a bill
)

// Payment settles (part of) an invoice or bill. Posting it produces one
// journal entry and bumps the target document's paid amount atomically.
type Payment struct {
	PaymentID      string           `json:"paymentID"`
	PaymentNumber  string           `json:"paymentNumber"`
	Direction      PaymentDirection `json:"direction"`
	ContactID      string           `json:"contactID"`
	InvoiceID      *string          `json:"invoiceID,omitempty"`
	BillID         *string          `json:"billID,omitempty"`
	PaymentDate    time.Time        `json:"paymentDate"`
	Amount         decimal.Decimal  `json:"amount"`
	JournalEntryID *string          `json:"journalEntryID,omitempty"`
	AuditFields
}
