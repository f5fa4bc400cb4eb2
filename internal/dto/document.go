package dto

import (
	"time"

	"github.com/bukubesar/bukubesar/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateContactRequest defines the payload for creating a customer/vendor.
type CreateContactRequest struct {
	Name  string `json:"name" binding:"required"`
	Type  string `json:"type" binding:"required,oneof=CUSTOMER VENDOR BOTH"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

// CreateInvoiceRequest defines the payload for creating a draft invoice.
type CreateInvoiceRequest struct {
	InvoiceNumber string          `json:"invoiceNumber" binding:"required"`
	ContactID     string          `json:"contactID" binding:"required"`
	IssueDate     time.Time       `json:"issueDate" binding:"required" time_format:"2006-01-02"`
	DueDate       time.Time       `json:"dueDate" binding:"required" time_format:"2006-01-02"`
	Subtotal      decimal.Decimal `json:"subtotal" binding:"required"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
}

// CreateBillRequest defines the payload for creating a draft bill.
type CreateBillRequest struct {
	BillNumber string          `json:"billNumber" binding:"required"`
	ContactID  string          `json:"contactID" binding:"required"`
	IssueDate  time.Time       `json:"issueDate" binding:"required" time_format:"2006-01-02"`
	DueDate    time.Time       `json:"dueDate" binding:"required" time_format:"2006-01-02"`
	Subtotal   decimal.Decimal `json:"subtotal" binding:"required"`
	TaxAmount  decimal.Decimal `json:"taxAmount"`
}

// CreatePaymentRequest defines the payload for recording a payment against
// an invoice (RECEIVE) or a bill (PAY).
type CreatePaymentRequest struct {
	PaymentNumber string          `json:"paymentNumber" binding:"required"`
	Direction     string          `json:"direction" binding:"required,oneof=RECEIVE PAY"`
	ContactID     string          `json:"contactID" binding:"required"`
	InvoiceID     *string         `json:"invoiceID"`
	BillID        *string         `json:"billID"`
	PaymentDate   time.Time       `json:"paymentDate" binding:"required" time_format:"2006-01-02"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// InvoiceResponse is the REST representation of an invoice.
type InvoiceResponse struct {
	InvoiceID      string          `json:"invoiceID"`
	InvoiceNumber  string          `json:"invoiceNumber"`
	ContactID      string          `json:"contactID"`
	IssueDate      time.Time       `json:"issueDate"`
	DueDate        time.Time       `json:"dueDate"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	Status         string          `json:"status"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"`
}

// ToInvoiceResponse converts a domain.Invoice to its response DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:      inv.InvoiceID,
		InvoiceNumber:  inv.InvoiceNumber,
		ContactID:      inv.ContactID,
		IssueDate:      inv.IssueDate,
		DueDate:        inv.DueDate,
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		TotalAmount:    inv.TotalAmount,
		PaidAmount:     inv.PaidAmount,
		Status:         string(inv.Status),
		JournalEntryID: inv.JournalEntryID,
	}
}

// BillResponse is the REST representation of a bill.
type BillResponse struct {
	BillID         string          `json:"billID"`
	BillNumber     string          `json:"billNumber"`
	ContactID      string          `json:"contactID"`
	IssueDate      time.Time       `json:"issueDate"`
	DueDate        time.Time       `json:"dueDate"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	Status         string          `json:"status"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"`
}

// ToBillResponse converts a domain.Bill to its response DTO.
func ToBillResponse(b *domain.Bill) BillResponse {
	return BillResponse{
		BillID:         b.BillID,
		BillNumber:     b.BillNumber,
		ContactID:      b.ContactID,
		IssueDate:      b.IssueDate,
		DueDate:        b.DueDate,
		Subtotal:       b.Subtotal,
		TaxAmount:      b.TaxAmount,
		TotalAmount:    b.TotalAmount,
		PaidAmount:     b.PaidAmount,
		Status:         string(b.Status),
		JournalEntryID: b.JournalEntryID,
	}
}

// PaymentResponse is the REST representation of a payment.
type PaymentResponse struct {
	PaymentID      string          `json:"paymentID"`
	PaymentNumber  string          `json:"paymentNumber"`
	Direction      string          `json:"direction"`
	ContactID      string          `json:"contactID"`
	InvoiceID      *string         `json:"invoiceID,omitempty"`
	BillID         *string         `json:"billID,omitempty"`
	PaymentDate    time.Time       `json:"paymentDate"`
	Amount         decimal.Decimal `json:"amount"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"`
}

// ToPaymentResponse converts a domain.Payment to its response DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:      p.PaymentID,
		PaymentNumber:  p.PaymentNumber,
		Direction:      string(p.Direction),
		ContactID:      p.ContactID,
		InvoiceID:      p.InvoiceID,
		BillID:         p.BillID,
		PaymentDate:    p.PaymentDate,
		Amount:         p.Amount,
		JournalEntryID: p.JournalEntryID,
	}
}
