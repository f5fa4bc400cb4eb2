package services_test

import (
	"context"
	"fmt"
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
)

var testPostingAccounts = services.PostingAccounts{
	Cash:          "1-1001",
	Receivable:    "1-1201",
	Payable:       "2-2001",
	SalesRevenue:  "4-4001",
	TaxPayable:    "2-2101",
	Purchases:     "5-5101",
	TaxReceivable: "1-1401",
}

type PostingServiceTestSuite struct {
	suite.Suite
	mockDocumentRepo *MockDocumentRepository
	mockAccountSvc   *MockAccountService
	mockPeriodSvc    *MockPeriodService
	service          portssvc.PostingSvcFacade
	accountsByCode   map[string]*domain.Account
	actor            string
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockDocumentRepo = new(MockDocumentRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockPeriodSvc = new(MockPeriodService)
	suite.service = services.NewPostingService(suite.mockDocumentRepo, suite.mockAccountSvc, suite.mockPeriodSvc, testPostingAccounts)
	suite.actor = uuid.NewString()

	suite.accountsByCode = map[string]*domain.Account{}
	for code, accountType := range map[string]domain.AccountType{
		testPostingAccounts.Cash:          domain.Asset,
		testPostingAccounts.Receivable:    domain.Asset,
		testPostingAccounts.Payable:       domain.Liability,
		testPostingAccounts.SalesRevenue:  domain.Revenue,
		testPostingAccounts.TaxPayable:    domain.Liability,
		testPostingAccounts.Purchases:     domain.Expense,
		testPostingAccounts.TaxReceivable: domain.Asset,
	} {
		suite.accountsByCode[code] = &domain.Account{
			AccountID:   uuid.NewString(),
			Code:        code,
			AccountType: accountType,
			IsActive:    true,
		}
	}
}

// stubAccounts lets every configured posting code resolve.
func (suite *PostingServiceTestSuite) stubAccounts() {
	for code, account := range suite.accountsByCode {
		suite.mockAccountSvc.On("GetAccountByCode", mock.Anything, code).Return(account, nil).Maybe()
	}
}

func (suite *PostingServiceTestSuite) stubOpenPeriod() {
	suite.mockPeriodSvc.On("FindPeriodForDate", mock.Anything, mock.AnythingOfType("time.Time")).Return(nil, nil).Maybe()
}

func (suite *PostingServiceTestSuite) lineFor(entry domain.JournalEntry, code string) *domain.JournalEntryLine {
	accountID := suite.accountsByCode[code].AccountID
	for i := range entry.Lines {
		if entry.Lines[i].AccountID == accountID {
			return &entry.Lines[i]
		}
	}
	return nil
}

func (suite *PostingServiceTestSuite) draftInvoice() *domain.Invoice {
	return &domain.Invoice{
		InvoiceID:     uuid.NewString(),
		InvoiceNumber: "INV-001",
		ContactID:     uuid.NewString(),
		IssueDate:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC),
		Subtotal:      decimal.NewFromInt(1000),
		TaxAmount:     decimal.NewFromInt(110),
		TotalAmount:   decimal.NewFromInt(1110),
		PaidAmount:    decimal.Zero,
		Status:        domain.StatusDraft,
	}
}

func (suite *PostingServiceTestSuite) TestPostInvoice_Success() {
	ctx := context.Background()
	invoice := suite.draftInvoice()
	suite.stubAccounts()
	suite.stubOpenPeriod()

	var capturedEntry domain.JournalEntry
	suite.mockDocumentRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockDocumentRepo.On("PostInvoiceJournal", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) { capturedEntry = args.Get(2).(domain.JournalEntry) }).
		Return("JE-000100", nil).Once()

	entry, err := suite.service.PostInvoice(ctx, invoice.InvoiceID, suite.actor)

	suite.Require().NoError(err)
	suite.Equal("JE-000100", entry.EntryNumber)
	suite.True(entry.IsPosted)
	suite.Require().Len(capturedEntry.Lines, 3)

	receivable := suite.lineFor(capturedEntry, testPostingAccounts.Receivable)
	suite.Require().NotNil(receivable)
	suite.True(receivable.Debit.Equal(invoice.TotalAmount))

	revenue := suite.lineFor(capturedEntry, testPostingAccounts.SalesRevenue)
	suite.Require().NotNil(revenue)
	suite.True(revenue.Credit.Equal(invoice.Subtotal))

	tax := suite.lineFor(capturedEntry, testPostingAccounts.TaxPayable)
	suite.Require().NotNil(tax)
	suite.True(tax.Credit.Equal(invoice.TaxAmount))
}

func (suite *PostingServiceTestSuite) TestPostInvoice_TaxFreeSkipsTaxLine() {
	ctx := context.Background()
	invoice := suite.draftInvoice()
	invoice.TaxAmount = decimal.Zero
	invoice.TotalAmount = invoice.Subtotal
	suite.stubAccounts()
	suite.stubOpenPeriod()

	var capturedEntry domain.JournalEntry
	suite.mockDocumentRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockDocumentRepo.On("PostInvoiceJournal", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) { capturedEntry = args.Get(2).(domain.JournalEntry) }).
		Return("JE-000101", nil).Once()

	_, err := suite.service.PostInvoice(ctx, invoice.InvoiceID, suite.actor)

	suite.Require().NoError(err)
	suite.Len(capturedEntry.Lines, 2)
	suite.Nil(suite.lineFor(capturedEntry, testPostingAccounts.TaxPayable))
}

func (suite *PostingServiceTestSuite) TestPostInvoice_AlreadyPosted() {
	ctx := context.Background()
	invoice := suite.draftInvoice()
	entryID := uuid.NewString()
	invoice.JournalEntryID = &entryID
	invoice.Status = domain.StatusSent

	suite.mockDocumentRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	_, err := suite.service.PostInvoice(ctx, invoice.InvoiceID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyPosted)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "PostInvoiceJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostInvoice_VoidRejected() {
	ctx := context.Background()
	invoice := suite.draftInvoice()
	invoice.Status = domain.StatusVoid

	suite.mockDocumentRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	_, err := suite.service.PostInvoice(ctx, invoice.InvoiceID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *PostingServiceTestSuite) TestPostInvoice_LockedPeriod() {
	ctx := context.Background()
	invoice := suite.draftInvoice()
	period := &domain.FiscalPeriod{
		PeriodID: uuid.NewString(),
		Name:     "March 2024",
		IsLocked: true,
	}

	suite.mockDocumentRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockPeriodSvc.On("FindPeriodForDate", ctx, invoice.IssueDate).Return(period, nil).Once()

	_, err := suite.service.PostInvoice(ctx, invoice.InvoiceID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodLocked)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "PostInvoiceJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostBill_Success() {
	ctx := context.Background()
	bill := &domain.Bill{
		BillID:      uuid.NewString(),
		BillNumber:  "BILL-001",
		ContactID:   uuid.NewString(),
		IssueDate:   time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2024, 4, 11, 0, 0, 0, 0, time.UTC),
		Subtotal:    decimal.NewFromInt(500),
		TaxAmount:   decimal.NewFromInt(55),
		TotalAmount: decimal.NewFromInt(555),
		PaidAmount:  decimal.Zero,
		Status:      domain.StatusDraft,
	}
	suite.stubAccounts()
	suite.stubOpenPeriod()

	var capturedEntry domain.JournalEntry
	suite.mockDocumentRepo.On("FindBillByID", ctx, bill.BillID).Return(bill, nil).Once()
	suite.mockDocumentRepo.On("PostBillJournal", ctx, mock.AnythingOfType("domain.Bill"), mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) { capturedEntry = args.Get(2).(domain.JournalEntry) }).
		Return("JE-000102", nil).Once()

	entry, err := suite.service.PostBill(ctx, bill.BillID, suite.actor)

	suite.Require().NoError(err)
	suite.True(entry.IsPosted)
	suite.Require().Len(capturedEntry.Lines, 3)

	purchases := suite.lineFor(capturedEntry, testPostingAccounts.Purchases)
	suite.Require().NotNil(purchases)
	suite.True(purchases.Debit.Equal(bill.Subtotal))

	taxReceivable := suite.lineFor(capturedEntry, testPostingAccounts.TaxReceivable)
	suite.Require().NotNil(taxReceivable)
	suite.True(taxReceivable.Debit.Equal(bill.TaxAmount))

	payable := suite.lineFor(capturedEntry, testPostingAccounts.Payable)
	suite.Require().NotNil(payable)
	suite.True(payable.Credit.Equal(bill.TotalAmount))
}

func (suite *PostingServiceTestSuite) postedInvoice() *domain.Invoice {
	invoice := suite.draftInvoice()
	entryID := uuid.NewString()
	invoice.JournalEntryID = &entryID
	invoice.Status = domain.StatusSent
	return invoice
}

func (suite *PostingServiceTestSuite) receivePayment(invoiceID string, amount int64) *domain.Payment {
	return &domain.Payment{
		PaymentID:     uuid.NewString(),
		PaymentNumber: "PAY-001",
		Direction:     domain.Receive,
		ContactID:     uuid.NewString(),
		InvoiceID:     &invoiceID,
		PaymentDate:   time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.NewFromInt(amount),
	}
}

func (suite *PostingServiceTestSuite) TestPostPayment_PartialReceive() {
	ctx := context.Background()
	invoice := suite.postedInvoice()
	payment := suite.receivePayment(invoice.InvoiceID, 500)
	suite.stubAccounts()
	suite.stubOpenPeriod()

	var capturedEntry domain.JournalEntry
	var capturedInvoice *domain.Invoice
	suite.mockDocumentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()
	suite.mockDocumentRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockDocumentRepo.On("PostPaymentJournal", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("*domain.Invoice"), (*domain.Bill)(nil)).
		Run(func(args mock.Arguments) {
			capturedEntry = args.Get(2).(domain.JournalEntry)
			capturedInvoice = args.Get(3).(*domain.Invoice)
		}).
		Return("JE-000103", nil).Once()

	_, err := suite.service.PostPayment(ctx, payment.PaymentID, suite.actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(capturedInvoice)
	suite.Equal(invoice.InvoiceID, capturedInvoice.InvoiceID)
	// The paid-amount increment happens in the repository against the
	// current row; the snapshot goes through untouched.
	suite.True(capturedInvoice.PaidAmount.IsZero())

	cash := suite.lineFor(capturedEntry, testPostingAccounts.Cash)
	suite.Require().NotNil(cash)
	suite.True(cash.Debit.Equal(payment.Amount))

	receivable := suite.lineFor(capturedEntry, testPostingAccounts.Receivable)
	suite.Require().NotNil(receivable)
	suite.True(receivable.Credit.Equal(payment.Amount))
}

func (suite *PostingServiceTestSuite) TestPostPayment_FullSettlementAllowed() {
	ctx := context.Background()
	invoice := suite.postedInvoice()
	payment := suite.receivePayment(invoice.InvoiceID, 1110)
	suite.stubAccounts()
	suite.stubOpenPeriod()

	suite.mockDocumentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()
	suite.mockDocumentRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockDocumentRepo.On("PostPaymentJournal", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("*domain.Invoice"), (*domain.Bill)(nil)).
		Return("JE-000104", nil).Once()

	// Paying exactly the outstanding amount is not an overpayment.
	_, err := suite.service.PostPayment(ctx, payment.PaymentID, suite.actor)

	suite.Require().NoError(err)
	suite.mockDocumentRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostPayment_ConcurrentSettlementRejected() {
	ctx := context.Background()
	invoice := suite.postedInvoice()
	payment := suite.receivePayment(invoice.InvoiceID, 1110)
	suite.stubAccounts()
	suite.stubOpenPeriod()

	// The snapshot read (paid 0 of 1110) passes the outstanding check, but
	// another full settlement commits first; the guarded update inside the
	// transaction finds the row already settled and rejects.
	suite.mockDocumentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()
	suite.mockDocumentRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockDocumentRepo.On("PostPaymentJournal", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("*domain.Invoice"), (*domain.Bill)(nil)).
		Return("", fmt.Errorf("%w: invoice %s", apperrors.ErrOverpayment, invoice.InvoiceNumber)).Once()

	_, err := suite.service.PostPayment(ctx, payment.PaymentID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrOverpayment)
}

func (suite *PostingServiceTestSuite) TestPostPayment_OverpaymentRejected() {
	ctx := context.Background()
	invoice := suite.postedInvoice()
	invoice.PaidAmount = decimal.NewFromInt(1000)
	payment := suite.receivePayment(invoice.InvoiceID, 500)
	suite.stubOpenPeriod()

	suite.mockDocumentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()
	suite.mockDocumentRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	_, err := suite.service.PostPayment(ctx, payment.PaymentID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrOverpayment)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "PostPaymentJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostPayment_PayDirection() {
	ctx := context.Background()
	entryID := uuid.NewString()
	bill := &domain.Bill{
		BillID:         uuid.NewString(),
		BillNumber:     "BILL-002",
		ContactID:      uuid.NewString(),
		IssueDate:      time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
		DueDate:        time.Date(2024, 4, 11, 0, 0, 0, 0, time.UTC),
		Subtotal:       decimal.NewFromInt(555),
		TotalAmount:    decimal.NewFromInt(555),
		PaidAmount:     decimal.Zero,
		Status:         domain.StatusReceived,
		JournalEntryID: &entryID,
	}
	payment := &domain.Payment{
		PaymentID:     uuid.NewString(),
		PaymentNumber: "PAY-002",
		Direction:     domain.Pay,
		ContactID:     bill.ContactID,
		BillID:        &bill.BillID,
		PaymentDate:   time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.NewFromInt(555),
	}
	suite.stubAccounts()
	suite.stubOpenPeriod()

	var capturedEntry domain.JournalEntry
	var capturedBill *domain.Bill
	suite.mockDocumentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()
	suite.mockDocumentRepo.On("FindBillByID", ctx, bill.BillID).Return(bill, nil).Once()
	suite.mockDocumentRepo.On("PostPaymentJournal", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.JournalEntry"), (*domain.Invoice)(nil), mock.AnythingOfType("*domain.Bill")).
		Run(func(args mock.Arguments) {
			capturedEntry = args.Get(2).(domain.JournalEntry)
			capturedBill = args.Get(4).(*domain.Bill)
		}).
		Return("JE-000105", nil).Once()

	_, err := suite.service.PostPayment(ctx, payment.PaymentID, suite.actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(capturedBill)
	suite.Equal(bill.BillID, capturedBill.BillID)

	payable := suite.lineFor(capturedEntry, testPostingAccounts.Payable)
	suite.Require().NotNil(payable)
	suite.True(payable.Debit.Equal(payment.Amount))

	cash := suite.lineFor(capturedEntry, testPostingAccounts.Cash)
	suite.Require().NotNil(cash)
	suite.True(cash.Credit.Equal(payment.Amount))
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
