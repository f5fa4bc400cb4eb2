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

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountSvc  *MockAccountService
	mockPeriodSvc   *MockPeriodService
	service         portssvc.JournalSvcFacade
	cashAccount     domain.Account
	revenueAccount  domain.Account
	actor           string
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockPeriodSvc = new(MockPeriodService)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountSvc, suite.mockPeriodSvc)

	suite.actor = uuid.NewString()
	suite.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1-1001",
		AccountType: domain.Asset,
		Subtype:     domain.SubtypeCash,
		IsActive:    true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4-4001",
		AccountType: domain.Revenue,
		Subtype:     domain.SubtypeOperatingRevenue,
		IsActive:    true,
	}
}

func (suite *JournalServiceTestSuite) balancedRequest() dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		EntryDate:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "Cash sale",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(500)},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(500)},
		},
	}
}

func (suite *JournalServiceTestSuite) accountsMap() map[string]domain.Account {
	return map[string]domain.Account{
		suite.cashAccount.AccountID:    suite.cashAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return("JE-000042", nil).Once()

	entry, err := suite.service.CreateEntry(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal("JE-000042", entry.EntryNumber)
	suite.False(entry.IsPosted)
	suite.Len(entry.Lines, 2)
	suite.Equal(suite.actor, entry.CreatedBy)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_UnbalancedPersistsNothing() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[1].Credit = decimal.NewFromInt(499)

	_, err := suite.service.CreateEntry(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalancedEntry)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "GetAccountsByIDs", mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_SingleLineRejected() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines = req.Lines[:1]

	_, err := suite.service.CreateEntry(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientLines)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_MissingDescription() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Description = ""

	_, err := suite.service.CreateEntry(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrMissingDescription)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_InactiveAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()

	accounts := suite.accountsMap()
	inactive := suite.revenueAccount
	inactive.IsActive = false
	accounts[inactive.AccountID] = inactive

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, mock.Anything).Return(accounts, nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountInactive)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_UnknownAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()

	accounts := suite.accountsMap()
	delete(accounts, suite.revenueAccount.AccountID)

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, mock.Anything).Return(accounts, nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountNotFound)
}

func (suite *JournalServiceTestSuite) draftEntry() *domain.JournalEntry {
	entryID := uuid.NewString()
	return &domain.JournalEntry{
		EntryID:     entryID,
		EntryNumber: "JE-000007",
		EntryDate:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "Cash sale",
		Lines: []domain.JournalEntryLine{
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(500)},
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(500)},
		},
	}
}

func (suite *JournalServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockPeriodSvc.On("FindPeriodForDate", ctx, entry.EntryDate).Return(nil, nil).Once()
	suite.mockJournalRepo.On("MarkEntryPosted", ctx, entry.EntryID, (*string)(nil), suite.actor, mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	posted, err := suite.service.PostEntry(ctx, entry.EntryID, suite.actor)

	suite.Require().NoError(err)
	suite.True(posted.IsPosted)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_AlreadyPosted() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.IsPosted = true

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.PostEntry(ctx, entry.EntryID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyPosted)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkEntryPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_ConcurrentPosterLoses() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockPeriodSvc.On("FindPeriodForDate", ctx, entry.EntryDate).Return(nil, nil).Once()
	// The guard reports the other poster won.
	suite.mockJournalRepo.On("MarkEntryPosted", ctx, entry.EntryID, (*string)(nil), suite.actor, mock.AnythingOfType("time.Time")).Return(false, nil).Once()

	_, err := suite.service.PostEntry(ctx, entry.EntryID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyPosted)
}

func (suite *JournalServiceTestSuite) TestPostEntry_LockedPeriod() {
	ctx := context.Background()
	entry := suite.draftEntry()
	period := &domain.FiscalPeriod{
		PeriodID:  uuid.NewString(),
		Name:      "March 2024",
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		IsLocked:  true,
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockPeriodSvc.On("FindPeriodForDate", ctx, entry.EntryDate).Return(period, nil).Once()

	_, err := suite.service.PostEntry(ctx, entry.EntryID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodLocked)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkEntryPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_Success() {
	ctx := context.Background()
	original := suite.draftEntry()
	original.IsPosted = true

	suite.mockJournalRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()
	suite.mockPeriodSvc.On("FindPeriodForDate", ctx, mock.AnythingOfType("time.Time")).Return(nil, nil).Once()
	suite.mockJournalRepo.On("SaveReversal", ctx, mock.AnythingOfType("domain.JournalEntry"), original.EntryID, suite.actor, mock.AnythingOfType("time.Time")).Return("JE-000008", nil).Once()

	reversing, err := suite.service.ReverseEntry(ctx, original.EntryID, dto.ReverseJournalEntryRequest{}, suite.actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversing)
	suite.Equal("JE-000008", reversing.EntryNumber)
	suite.True(reversing.IsPosted)
	suite.Require().NotNil(reversing.OriginalEntryID)
	suite.Equal(original.EntryID, *reversing.OriginalEntryID)
	suite.Contains(reversing.Description, original.EntryNumber)

	// Mirrored amounts: the pair nets to zero per account.
	suite.Require().Len(reversing.Lines, 2)
	for i, revLine := range reversing.Lines {
		origLine := original.Lines[i]
		suite.Equal(origLine.AccountID, revLine.AccountID)
		suite.True(revLine.Debit.Equal(origLine.Credit))
		suite.True(revLine.Credit.Equal(origLine.Debit))
		suite.NotEqual(origLine.LineID, revLine.LineID)
	}
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseEntry_DraftRejected() {
	ctx := context.Background()
	original := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, original.EntryID, dto.ReverseJournalEntryRequest{}, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotPosted)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	ctx := context.Background()
	original := suite.draftEntry()
	original.IsPosted = true
	original.IsReversed = true

	suite.mockJournalRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, original.EntryID, dto.ReverseJournalEntryRequest{}, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyReversed)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_PostedIsImmutable() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.IsPosted = true

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	newDescription := "edited"
	_, err := suite.service.UpdateEntry(ctx, entry.EntryID, dto.UpdateJournalEntryRequest{Description: &newDescription}, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrImmutableEntry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateDraftEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestDeleteEntry_PostedIsImmutable() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.IsPosted = true

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	err := suite.service.DeleteEntry(ctx, entry.EntryID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrImmutableEntry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteDraftEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestDeleteEntry_DraftSucceeds() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("DeleteDraftEntry", ctx, entry.EntryID).Return(nil).Once()

	suite.Require().NoError(suite.service.DeleteEntry(ctx, entry.EntryID, suite.actor))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
