package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bukubesar/bukubesar/internal/apperrors"
	"github.com/bukubesar/bukubesar/internal/core/domain"
	portssvc "github.com/bukubesar/bukubesar/internal/core/ports/services"
	"github.com/bukubesar/bukubesar/internal/core/services"
	"github.com/bukubesar/bukubesar/internal/dto"
)

type DocumentServiceTestSuite struct {
	suite.Suite
	mockDocumentRepo *MockDocumentRepository
	service          portssvc.DocumentSvcFacade
	customer         domain.Contact
	vendor           domain.Contact
	actor            string
}

func (suite *DocumentServiceTestSuite) SetupTest() {
	suite.mockDocumentRepo = new(MockDocumentRepository)
	suite.service = services.NewDocumentService(suite.mockDocumentRepo)
	suite.actor = uuid.NewString()
	suite.customer = domain.Contact{ContactID: uuid.NewString(), Name: "PT Maju Jaya", Type: domain.Customer}
	suite.vendor = domain.Contact{ContactID: uuid.NewString(), Name: "CV Sumber Rejeki", Type: domain.Vendor}
}

func (suite *DocumentServiceTestSuite) invoiceRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		InvoiceNumber: "INV-001",
		ContactID:     suite.customer.ContactID,
		IssueDate:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC),
		Subtotal:      decimal.NewFromInt(1000),
		TaxAmount:     decimal.NewFromInt(110),
	}
}

func (suite *DocumentServiceTestSuite) TestCreateInvoice_Success() {
	ctx := context.Background()
	req := suite.invoiceRequest()

	suite.mockDocumentRepo.On("FindContactByID", ctx, suite.customer.ContactID).Return(&suite.customer, nil).Once()
	suite.mockDocumentRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	invoice, err := suite.service.CreateInvoice(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusDraft, invoice.Status)
	suite.True(invoice.TotalAmount.Equal(decimal.NewFromInt(1110)))
	suite.True(invoice.PaidAmount.IsZero())
	suite.Nil(invoice.JournalEntryID, "no journal entry exists before posting")
}

func (suite *DocumentServiceTestSuite) TestCreateInvoice_VendorRejected() {
	ctx := context.Background()
	req := suite.invoiceRequest()
	req.ContactID = suite.vendor.ContactID

	suite.mockDocumentRepo.On("FindContactByID", ctx, suite.vendor.ContactID).Return(&suite.vendor, nil).Once()

	_, err := suite.service.CreateInvoice(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestCreateInvoice_DueBeforeIssue() {
	ctx := context.Background()
	req := suite.invoiceRequest()
	req.DueDate = req.IssueDate.AddDate(0, 0, -1)

	_, err := suite.service.CreateInvoice(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DocumentServiceTestSuite) TestCreateInvoice_NegativeAmounts() {
	ctx := context.Background()
	req := suite.invoiceRequest()
	req.TaxAmount = decimal.NewFromInt(-10)

	_, err := suite.service.CreateInvoice(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DocumentServiceTestSuite) TestCreateBill_CustomerRejected() {
	ctx := context.Background()
	req := dto.CreateBillRequest{
		BillNumber: "BILL-001",
		ContactID:  suite.customer.ContactID,
		IssueDate:  time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC),
		Subtotal:   decimal.NewFromInt(500),
	}

	suite.mockDocumentRepo.On("FindContactByID", ctx, suite.customer.ContactID).Return(&suite.customer, nil).Once()

	_, err := suite.service.CreateBill(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DocumentServiceTestSuite) TestCreateBill_BothTypeContactAllowed() {
	ctx := context.Background()
	contact := domain.Contact{ContactID: uuid.NewString(), Name: "UD Serba Ada", Type: domain.Both}
	req := dto.CreateBillRequest{
		BillNumber: "BILL-002",
		ContactID:  contact.ContactID,
		IssueDate:  time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC),
		Subtotal:   decimal.NewFromInt(500),
	}

	suite.mockDocumentRepo.On("FindContactByID", ctx, contact.ContactID).Return(&contact, nil).Once()
	suite.mockDocumentRepo.On("SaveBill", ctx, mock.AnythingOfType("domain.Bill")).Return(nil).Once()

	bill, err := suite.service.CreateBill(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusDraft, bill.Status)
}

func (suite *DocumentServiceTestSuite) TestCreatePayment_OverpaymentRejected() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID:     invoiceID,
		InvoiceNumber: "INV-005",
		TotalAmount:   decimal.NewFromInt(1000),
		PaidAmount:    decimal.NewFromInt(800),
	}
	req := dto.CreatePaymentRequest{
		PaymentNumber: "PAY-001",
		Direction:     "RECEIVE",
		ContactID:     suite.customer.ContactID,
		InvoiceID:     &invoiceID,
		PaymentDate:   time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.NewFromInt(300), // outstanding is only 200
	}

	suite.mockDocumentRepo.On("FindInvoiceByID", ctx, invoiceID).Return(invoice, nil).Once()

	_, err := suite.service.CreatePayment(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrOverpayment)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestCreatePayment_ReceiveRequiresInvoice() {
	ctx := context.Background()
	req := dto.CreatePaymentRequest{
		PaymentNumber: "PAY-002",
		Direction:     "RECEIVE",
		ContactID:     suite.customer.ContactID,
		PaymentDate:   time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.NewFromInt(100),
	}

	_, err := suite.service.CreatePayment(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DocumentServiceTestSuite) TestCreatePayment_NonPositiveAmount() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	req := dto.CreatePaymentRequest{
		PaymentNumber: "PAY-003",
		Direction:     "RECEIVE",
		ContactID:     suite.customer.ContactID,
		InvoiceID:     &invoiceID,
		PaymentDate:   time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.Zero,
	}

	_, err := suite.service.CreatePayment(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DocumentServiceTestSuite) TestCreatePayment_Success() {
	ctx := context.Background()
	billID := uuid.NewString()
	bill := &domain.Bill{
		BillID:      billID,
		BillNumber:  "BILL-005",
		TotalAmount: decimal.NewFromInt(500),
		PaidAmount:  decimal.Zero,
	}
	req := dto.CreatePaymentRequest{
		PaymentNumber: "PAY-004",
		Direction:     "PAY",
		ContactID:     suite.vendor.ContactID,
		BillID:        &billID,
		PaymentDate:   time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.NewFromInt(500),
	}

	suite.mockDocumentRepo.On("FindBillByID", ctx, billID).Return(bill, nil).Once()
	suite.mockDocumentRepo.On("SavePayment", ctx, mock.AnythingOfType("domain.Payment")).Return(nil).Once()

	payment, err := suite.service.CreatePayment(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.Pay, payment.Direction)
	suite.Nil(payment.JournalEntryID, "payments stay unposted until the poster runs")
}

func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}
