package services_test

import (
	"context"
	"testing"

	"github.com/branchpay/teller_backend/internal/apperrors"
	"github.com/branchpay/teller_backend/internal/core/domain"
	portsrepo "github.com/branchpay/teller_backend/internal/core/ports/repositories"
	portssvc "github.com/branchpay/teller_backend/internal/core/ports/services"
	"github.com/branchpay/teller_backend/internal/core/services"
	"github.com/branchpay/teller_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DrawerServiceTestSuite struct {
	suite.Suite
	mockDrawerRepo *MockDrawerRepository
	mockAuditRepo  *MockAuditRepository
	service        portssvc.DrawerSvcFacade
	operatorID     string
	ctx            context.Context
}

func (suite *DrawerServiceTestSuite) SetupTest() {
	suite.mockDrawerRepo = new(MockDrawerRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.service = services.NewDrawerService(portsrepo.RepositoryProvider{
		DrawerRepo: suite.mockDrawerRepo,
		AuditRepo:  suite.mockAuditRepo,
	}, newTestConfig())
	suite.operatorID = uuid.NewString()
	suite.ctx = context.Background()
}

func (suite *DrawerServiceTestSuite) TestRecordEntries_TotalsAndPersists() {
	transactionID := uuid.NewString()
	entries := []domain.DenominationEntry{
		{EntryType: domain.EntryReceived, Denomination: decimal.NewFromInt(200), Quantity: 2},
		{EntryType: domain.EntryReceived, Denomination: decimal.NewFromInt(50), Quantity: 1},
	}

	var captured []domain.DenominationEntry
	suite.mockDrawerRepo.On("RecordEntries", suite.ctx, suite.operatorID, mock.AnythingOfType("[]domain.DenominationEntry")).
		Run(func(args mock.Arguments) { captured = args.Get(2).([]domain.DenominationEntry) }).
		Return(nil).Once()

	total, err := suite.service.RecordEntries(suite.ctx, transactionID, entries, suite.operatorID)

	suite.Require().NoError(err)
	assert.True(suite.T(), total.Equal(decimal.NewFromInt(450)))
	suite.Require().Len(captured, 2)
	assert.Equal(suite.T(), transactionID, captured[0].TransactionID)
	assert.NotEmpty(suite.T(), captured[0].EntryID)
	assert.True(suite.T(), captured[0].Amount.Equal(decimal.NewFromInt(400)))
}

func (suite *DrawerServiceTestSuite) TestRecordEntries_UnknownDenominationRejected() {
	entries := []domain.DenominationEntry{
		{EntryType: domain.EntryReceived, Denomination: decimal.NewFromInt(3), Quantity: 1},
	}

	_, err := suite.service.RecordEntries(suite.ctx, uuid.NewString(), entries, suite.operatorID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockDrawerRepo.AssertNotCalled(suite.T(), "RecordEntries", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DrawerServiceTestSuite) TestRecordEntries_NegativeQuantityRejected() {
	entries := []domain.DenominationEntry{
		{EntryType: domain.EntryReceived, Denomination: decimal.NewFromInt(100), Quantity: -1},
	}

	_, err := suite.service.RecordEntries(suite.ctx, uuid.NewString(), entries, suite.operatorID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *DrawerServiceTestSuite) TestAdjustDrawer_SubtractPassesNegativeDelta() {
	suite.mockDrawerRepo.On("AdjustDenomination", suite.ctx, suite.operatorID, decimal.NewFromInt(100), -5, suite.operatorID, mock.Anything).Return(nil).Once()
	suite.mockAuditRepo.On("SaveAuditEntry", suite.ctx, mock.MatchedBy(func(e domain.AuditEntry) bool {
		return e.Action == domain.AuditDrawerAdjusted && e.EntityID == suite.operatorID
	})).Return(nil).Once()
	suite.mockDrawerRepo.On("GetDrawerBalances", suite.ctx, suite.operatorID).Return([]domain.DrawerBalance{
		{OperatorID: suite.operatorID, Denomination: decimal.NewFromInt(100), Quantity: 5, Amount: decimal.NewFromInt(500)},
	}, nil).Once()

	resp, err := suite.service.AdjustDrawer(suite.ctx, suite.operatorID, dto.AdjustDrawerRequest{
		Denomination: decimal.NewFromInt(100),
		Quantity:     5,
		Op:           dto.DrawerOpSubtract,
		Reason:       "end of shift pickup",
	}, suite.operatorID)

	suite.Require().NoError(err)
	assert.True(suite.T(), resp.Total.Equal(decimal.NewFromInt(500)))
	suite.mockDrawerRepo.AssertExpectations(suite.T())
}

func (suite *DrawerServiceTestSuite) TestAdjustDrawer_InsufficientInventoryPropagates() {
	repoErr := apperrors.NewAppError(409, "insufficient drawer inventory for denomination 100", apperrors.ErrInsufficientInventory)
	suite.mockDrawerRepo.On("AdjustDenomination", suite.ctx, suite.operatorID, decimal.NewFromInt(100), -50, suite.operatorID, mock.Anything).Return(repoErr).Once()

	resp, err := suite.service.AdjustDrawer(suite.ctx, suite.operatorID, dto.AdjustDrawerRequest{
		Denomination: decimal.NewFromInt(100),
		Quantity:     50,
		Op:           dto.DrawerOpSubtract,
	}, suite.operatorID)

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrInsufficientInventory)
}

func (suite *DrawerServiceTestSuite) TestComputeChange_ExplicitInventory() {
	resp, err := suite.service.ComputeChange(suite.ctx, suite.operatorID, dto.ComputeChangeRequest{
		Amount: decimal.NewFromInt(55),
		Inventory: []dto.InventoryLine{
			{Denomination: decimal.NewFromInt(20), Quantity: 1},
			{Denomination: decimal.NewFromInt(10), Quantity: 10},
			{Denomination: decimal.NewFromInt(5), Quantity: 10},
		},
	})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Entries, 3)
	assert.Equal(suite.T(), 1, resp.Entries[0].Quantity)  // 20 x 1
	assert.Equal(suite.T(), 3, resp.Entries[1].Quantity)  // 10 x 3
	assert.Equal(suite.T(), 1, resp.Entries[2].Quantity)  // 5 x 1
	suite.mockDrawerRepo.AssertNotCalled(suite.T(), "GetDrawerBalances", mock.Anything, mock.Anything)
}

func (suite *DrawerServiceTestSuite) TestComputeChange_FallsBackToDrawer() {
	suite.mockDrawerRepo.On("GetDrawerBalances", suite.ctx, suite.operatorID).Return([]domain.DrawerBalance{
		{OperatorID: suite.operatorID, Denomination: decimal.NewFromInt(50), Quantity: 2},
	}, nil).Once()

	resp, err := suite.service.ComputeChange(suite.ctx, suite.operatorID, dto.ComputeChangeRequest{
		Amount: decimal.NewFromInt(100),
	})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Entries, 1)
	assert.Equal(suite.T(), 2, resp.Entries[0].Quantity)
}

func (suite *DrawerServiceTestSuite) TestComputeChange_UnreachableReportsDeficiency() {
	suite.mockDrawerRepo.On("GetDrawerBalances", suite.ctx, suite.operatorID).Return([]domain.DrawerBalance{
		{OperatorID: suite.operatorID, Denomination: decimal.NewFromInt(100), Quantity: 1},
	}, nil).Once()

	resp, err := suite.service.ComputeChange(suite.ctx, suite.operatorID, dto.ComputeChangeRequest{
		Amount: decimal.NewFromFloat(174.50),
	})

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrUnreachableChange)
}

func TestDrawerServiceSuite(t *testing.T) {
	suite.Run(t, new(DrawerServiceTestSuite))
}
