package services_test

import (
	"context"
	"testing"
	"time"

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

// Reference numbers that satisfy the provider rules.
const (
	validCFERef     = "123456789012345678901234567891"
	validTelmexRef  = "5512345678"
	telmexDigit     = "6"
	validDiestelRef = "12345678901234567890"
)

type PaymentServiceTestSuite struct {
	suite.Suite
	mockTxnRepo    *MockTransactionRepository
	mockDrawerRepo *MockDrawerRepository
	mockCardRepo   *MockCardAccountRepository
	mockAuditRepo  *MockAuditRepository
	service        portssvc.PaymentSvcFacade
	operatorID     string
	branchID       string
	ctx            context.Context
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockDrawerRepo = new(MockDrawerRepository)
	suite.mockCardRepo = new(MockCardAccountRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.service = services.NewPaymentService(portsrepo.RepositoryProvider{
		TransactionRepo: suite.mockTxnRepo,
		DrawerRepo:      suite.mockDrawerRepo,
		CardAccountRepo: suite.mockCardRepo,
		AuditRepo:       suite.mockAuditRepo,
	}, newTestConfig())
	suite.operatorID = uuid.NewString()
	suite.branchID = uuid.NewString()
	suite.ctx = context.Background()
}

func (suite *PaymentServiceTestSuite) drawerWithPlenty() []domain.DrawerBalance {
	denoms := []string{"1000", "500", "200", "100", "50", "20", "10", "5", "2", "1", "0.5"}
	balances := make([]domain.DrawerBalance, 0, len(denoms))
	for _, d := range denoms {
		balances = append(balances, domain.DrawerBalance{
			OperatorID:   suite.operatorID,
			Denomination: decimal.RequireFromString(d),
			Quantity:     100,
		})
	}
	return balances
}

func (suite *PaymentServiceTestSuite) expectNumbering(prefix string, seq, receiptSeq int) {
	suite.mockTxnRepo.On("NextDailySequence", suite.ctx, prefix, mock.Anything).Return(seq, nil).Once()
	suite.mockTxnRepo.On("NextDailySequence", suite.ctx, "RCP", mock.Anything).Return(receiptSeq, nil).Once()
}

func (suite *PaymentServiceTestSuite) TestPostPayment_CashServicePayment() {
	req := dto.PostPaymentRequest{
		TransactionType: string(domain.ServicePayment),
		PaymentMethod:   "CASH",
		CashReceived:    decimal.NewFromInt(500),
		Items: []dto.PaymentItemRequest{{
			Description:     "electricity bill",
			Amount:          decimal.NewFromFloat(425.50),
			Quantity:        1,
			ProviderCode:    "CFE",
			ReferenceNumber: validCFERef,
		}},
		Denominations: []dto.DenominationEntryRequest{{
			EntryType:    "RECEIVED",
			Denomination: decimal.NewFromInt(500),
			Quantity:     1,
		}},
	}

	suite.mockDrawerRepo.On("GetDrawerBalances", suite.ctx, suite.operatorID).Return(suite.drawerWithPlenty(), nil).Once()
	suite.expectNumbering("SRV", 42, 317)

	var captured portsrepo.PostingBundle
	suite.mockTxnRepo.On("SavePosting", suite.ctx, mock.AnythingOfType("repositories.PostingBundle")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(portsrepo.PostingBundle) }).
		Return(nil).Once()

	resp, err := suite.service.PostPayment(suite.ctx, req, suite.operatorID, suite.branchID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	assert.Regexp(suite.T(), `^SRV-\d{8}-0042$`, resp.TransactionNumber)
	assert.Regexp(suite.T(), `^RCP-\d{8}-000317$`, resp.ReceiptNumber)
	assert.Equal(suite.T(), string(domain.StatusCompleted), resp.Status)
	assert.True(suite.T(), resp.TotalAmount.Equal(decimal.NewFromFloat(425.50)))
	assert.True(suite.T(), resp.ChangeAmount.Equal(decimal.NewFromFloat(74.50)))

	// Greedy breakdown of 74.50: 20x3, 10x1, 2x2, 0.50x1.
	suite.Require().Len(resp.Change, 4)
	assert.True(suite.T(), resp.Change[0].Denomination.Equal(decimal.NewFromInt(20)))
	assert.Equal(suite.T(), 3, resp.Change[0].Quantity)
	assert.True(suite.T(), resp.Change[1].Denomination.Equal(decimal.NewFromInt(10)))
	assert.Equal(suite.T(), 1, resp.Change[1].Quantity)
	assert.True(suite.T(), resp.Change[2].Denomination.Equal(decimal.NewFromInt(2)))
	assert.Equal(suite.T(), 2, resp.Change[2].Quantity)
	assert.True(suite.T(), resp.Change[3].Denomination.Equal(decimal.NewFromFloat(0.5)))
	assert.Equal(suite.T(), 1, resp.Change[3].Quantity)

	// The drawer gains the 500 received and loses the change dispensed.
	assert.Equal(suite.T(), 1, captured.DrawerDeltas["500"])
	assert.Equal(suite.T(), -3, captured.DrawerDeltas["20"])
	assert.Equal(suite.T(), -1, captured.DrawerDeltas["10"])
	assert.Equal(suite.T(), -2, captured.DrawerDeltas["2"])
	assert.Equal(suite.T(), -1, captured.DrawerDeltas["0.5"])
	assert.Equal(suite.T(), domain.AuditTransactionPosted, captured.Audit.Action)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestPostPayment_ChecksumFailureBlocksPosting() {
	// Flip the final digit so the Luhn pass fails.
	badRef := validCFERef[:len(validCFERef)-1] + "2"
	req := dto.PostPaymentRequest{
		TransactionType: string(domain.ServicePayment),
		PaymentMethod:   "CASH",
		CashReceived:    decimal.NewFromInt(100),
		Items: []dto.PaymentItemRequest{{
			Description:     "electricity bill",
			Amount:          decimal.NewFromInt(100),
			Quantity:        1,
			ProviderCode:    "CFE",
			ReferenceNumber: badRef,
		}},
	}

	resp, err := suite.service.PostPayment(suite.ctx, req, suite.operatorID, suite.branchID)

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrChecksum)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestPostPayment_MissingVerificationDigitBlocksPosting() {
	req := dto.PostPaymentRequest{
		TransactionType: string(domain.ServicePayment),
		PaymentMethod:   "CASH",
		CashReceived:    decimal.NewFromInt(100),
		Items: []dto.PaymentItemRequest{{
			Description:     "telephone bill",
			Amount:          decimal.NewFromInt(100),
			Quantity:        1,
			ProviderCode:    "TELMEX",
			ReferenceNumber: validTelmexRef,
			// VerificationDigit deliberately absent.
		}},
	}

	resp, err := suite.service.PostPayment(suite.ctx, req, suite.operatorID, suite.branchID)

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrChecksum)
}

func (suite *PaymentServiceTestSuite) TestPostPayment_DiestelBelowMinimum() {
	req := dto.PostPaymentRequest{
		TransactionType: string(domain.DiestelPayment),
		PaymentMethod:   "CASH",
		CashReceived:    decimal.NewFromInt(5),
		Items: []dto.PaymentItemRequest{{
			Description:     "diestel recharge",
			Amount:          decimal.NewFromInt(5),
			Quantity:        1,
			ProviderCode:    "DIESTEL",
			ReferenceNumber: validDiestelRef,
		}},
	}

	resp, err := suite.service.PostPayment(suite.ctx, req, suite.operatorID, suite.branchID)

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrLimitExceeded)
}

func (suite *PaymentServiceTestSuite) TestPostPayment_DiestelDailyCapExceeded() {
	suite.mockTxnRepo.On("SumCompletedByType", suite.ctx, domain.DiestelPayment).Return(decimal.NewFromInt(20000), nil).Once()
	suite.mockTxnRepo.On("SumCompletedByTypeSince", suite.ctx, domain.DiestelPayment, mock.Anything).Return(decimal.NewFromInt(7500), nil).Once()

	req := dto.PostPaymentRequest{
		TransactionType: string(domain.DiestelPayment),
		PaymentMethod:   "CASH",
		CashReceived:    decimal.NewFromInt(1000),
		Items: []dto.PaymentItemRequest{{
			Description:     "diestel recharge",
			Amount:          decimal.NewFromInt(1000),
			Quantity:        1,
			ProviderCode:    "DIESTEL",
			ReferenceNumber: validDiestelRef,
		}},
	}

	resp, err := suite.service.PostPayment(suite.ctx, req, suite.operatorID, suite.branchID)

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrLimitExceeded)
	assert.Contains(suite.T(), err.Error(), "daily")
}

func (suite *PaymentServiceTestSuite) TestPostPayment_ReconciliationMismatch() {
	req := dto.PostPaymentRequest{
		TransactionType: string(domain.ServicePayment),
		PaymentMethod:   "CASH",
		CashReceived:    decimal.NewFromInt(500),
		Items: []dto.PaymentItemRequest{{
			Description: "water bill",
			Amount:      decimal.NewFromInt(480),
			Quantity:    1,
		}},
		Denominations: []dto.DenominationEntryRequest{{
			EntryType:    "RECEIVED",
			Denomination: decimal.NewFromInt(200),
			Quantity:     2, // Sums to 400, declared 500.
		}},
	}

	resp, err := suite.service.PostPayment(suite.ctx, req, suite.operatorID, suite.branchID)

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrReconciliation)
}

func (suite *PaymentServiceTestSuite) TestPostPayment_CardPaymentDebitsBalance() {
	accountID := uuid.NewString()
	suite.mockCardRepo.On("FindCardAccountByID", suite.ctx, accountID).Return(&domain.CardAccount{
		AccountID:   accountID,
		Balance:     decimal.NewFromInt(5000),
		CreditLimit: decimal.NewFromInt(10000),
		IsActive:    true,
	}, nil).Once()
	suite.expectNumbering("CRD", 7, 8)

	var captured portsrepo.PostingBundle
	suite.mockTxnRepo.On("SavePosting", suite.ctx, mock.AnythingOfType("repositories.PostingBundle")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(portsrepo.PostingBundle) }).
		Return(nil).Once()

	req := dto.PostPaymentRequest{
		TransactionType: string(domain.CardPayment),
		PaymentMethod:   "CASH",
		CardAccountID:   accountID,
		CashReceived:    decimal.NewFromInt(250),
		Items: []dto.PaymentItemRequest{{
			Description: "card payment",
			Amount:      decimal.NewFromInt(250),
			Quantity:    1,
		}},
		Denominations: []dto.DenominationEntryRequest{{
			EntryType:    "RECEIVED",
			Denomination: decimal.NewFromInt(50),
			Quantity:     5,
		}},
	}

	resp, err := suite.service.PostPayment(suite.ctx, req, suite.operatorID, suite.branchID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp.NewBalance)
	assert.True(suite.T(), resp.NewBalance.Equal(decimal.NewFromInt(4750)))
	suite.Require().NotNil(captured.CardDebit)
	assert.Equal(suite.T(), accountID, captured.CardDebit.AccountID)
	assert.True(suite.T(), captured.CardDebit.Amount.Equal(decimal.NewFromInt(250)))
}

func (suite *PaymentServiceTestSuite) TestPostPayment_CardPaymentExceedsBalance() {
	accountID := uuid.NewString()
	suite.mockCardRepo.On("FindCardAccountByID", suite.ctx, accountID).Return(&domain.CardAccount{
		AccountID: accountID,
		Balance:   decimal.NewFromInt(100),
		IsActive:  true,
	}, nil).Once()

	req := dto.PostPaymentRequest{
		TransactionType: string(domain.CardPayment),
		PaymentMethod:   "CASH",
		CardAccountID:   accountID,
		CashReceived:    decimal.NewFromInt(250),
		Items: []dto.PaymentItemRequest{{
			Description: "card payment",
			Amount:      decimal.NewFromInt(250),
			Quantity:    1,
		}},
	}

	resp, err := suite.service.PostPayment(suite.ctx, req, suite.operatorID, suite.branchID)

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *PaymentServiceTestSuite) TestCheckCreditLimit_DiestelHeadroom() {
	suite.mockTxnRepo.On("SumCompletedByType", suite.ctx, domain.DiestelPayment).Return(decimal.NewFromInt(90000), nil).Once()
	suite.mockTxnRepo.On("SumCompletedByTypeSince", suite.ctx, domain.DiestelPayment, mock.Anything).Return(decimal.NewFromInt(500), nil).Once()

	resp, err := suite.service.CheckCreditLimit(suite.ctx, "DIESTEL", decimal.NewFromInt(7500))

	suite.Require().NoError(err)
	assert.True(suite.T(), resp.CanProcess)
	assert.True(suite.T(), resp.RemainingTotal.Equal(decimal.NewFromInt(10000)))
	assert.True(suite.T(), resp.RemainingDaily.Equal(decimal.NewFromInt(7500)))
}

func (suite *PaymentServiceTestSuite) TestCheckCreditLimit_NonDiestelHasNoLimits() {
	resp, err := suite.service.CheckCreditLimit(suite.ctx, "CFE", decimal.NewFromInt(999999))

	suite.Require().NoError(err)
	assert.True(suite.T(), resp.CanProcess)
}

func (suite *PaymentServiceTestSuite) TestGetCardAccount_DerivedFigures() {
	tests := []struct {
		name        string
		balance     decimal.Decimal
		creditLimit decimal.Decimal
		wantMinimum decimal.Decimal
	}{
		{"five percent wins over floor", decimal.NewFromInt(5000), decimal.NewFromInt(10000), decimal.NewFromInt(250)},
		{"floor wins over five percent", decimal.NewFromInt(3000), decimal.NewFromInt(10000), decimal.NewFromInt(200)},
		{"minimum capped at small balance", decimal.NewFromInt(100), decimal.NewFromInt(10000), decimal.NewFromInt(100)},
		{"minimum rounds up to half unit", decimal.NewFromInt(4010), decimal.NewFromInt(10000), decimal.NewFromFloat(200.5)},
	}
	for _, tc := range tests {
		suite.Run(tc.name, func() {
			accountID := uuid.NewString()
			suite.mockCardRepo.On("FindCardAccountByID", suite.ctx, accountID).Return(&domain.CardAccount{
				AccountID:   accountID,
				Balance:     tc.balance,
				CreditLimit: tc.creditLimit,
				IsActive:    true,
			}, nil).Once()

			resp, err := suite.service.GetCardAccount(suite.ctx, accountID)

			suite.Require().NoError(err)
			assert.True(suite.T(), resp.MinimumPayment.Equal(tc.wantMinimum),
				"minimum payment %s, want %s", resp.MinimumPayment, tc.wantMinimum)
			assert.True(suite.T(), resp.AvailableCredit.Equal(tc.creditLimit.Sub(tc.balance)))
		})
	}
}

func (suite *PaymentServiceTestSuite) TestCancelTransaction_CompletedCannotBeCancelled() {
	transactionID := uuid.NewString()
	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, transactionID).Return(&domain.Transaction{
		TransactionID: transactionID,
		Status:        domain.StatusCompleted,
	}, nil).Once()

	resp, err := suite.service.CancelTransaction(suite.ctx, transactionID, "customer left", suite.operatorID)

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrStateConflict)
}

func (suite *PaymentServiceTestSuite) TestCancelTransaction_DraftSucceeds() {
	transactionID := uuid.NewString()
	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, transactionID).Return(&domain.Transaction{
		TransactionID: transactionID,
		Status:        domain.StatusDraft,
	}, nil).Once()
	suite.mockTxnRepo.On("UpdateTransactionStatus", suite.ctx, transactionID, domain.StatusDraft, domain.StatusCancelled, (*time.Time)(nil), suite.operatorID, mock.Anything).Return(nil).Once()
	suite.mockAuditRepo.On("SaveAuditEntry", suite.ctx, mock.AnythingOfType("domain.AuditEntry")).Return(nil).Once()

	resp, err := suite.service.CancelTransaction(suite.ctx, transactionID, "customer left", suite.operatorID)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), string(domain.StatusCancelled), resp.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestPostPayment_NonCashRejectsDenominationEntries() {
	req := dto.PostPaymentRequest{
		TransactionType: string(domain.ServicePayment),
		PaymentMethod:   "TRANSFER",
		Items: []dto.PaymentItemRequest{{
			Description: "water bill",
			Amount:      decimal.NewFromInt(480),
			Quantity:    1,
		}},
		Denominations: []dto.DenominationEntryRequest{{
			EntryType:    "RECEIVED",
			Denomination: decimal.NewFromInt(500),
			Quantity:     1,
		}},
	}

	resp, err := suite.service.PostPayment(suite.ctx, req, suite.operatorID, suite.branchID)

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestPostDraft_KeepsVerificationDigit() {
	suite.mockTxnRepo.On("NextDailySequence", suite.ctx, "SRV", mock.Anything).Return(11, nil).Once()

	var savedItems []domain.TransactionItem
	suite.mockTxnRepo.On("SaveDraft", suite.ctx, mock.AnythingOfType("domain.Transaction"), mock.Anything).
		Run(func(args mock.Arguments) { savedItems = args.Get(2).([]domain.TransactionItem) }).
		Return(nil).Once()

	draft, err := suite.service.CreateDraft(suite.ctx, dto.CreateDraftRequest{
		TransactionType: string(domain.ServicePayment),
		PaymentMethod:   "CASH",
		Items: []dto.PaymentItemRequest{{
			Description:       "telephone bill",
			Amount:            decimal.NewFromInt(349),
			Quantity:          1,
			ProviderCode:      "TELMEX",
			ReferenceNumber:   validTelmexRef,
			VerificationDigit: telmexDigit,
		}},
	}, suite.operatorID, suite.branchID)
	suite.Require().NoError(err)

	// The digit travels with the stored item, so posting the draft later
	// still has it for the checksum gate.
	suite.Require().Len(savedItems, 1)
	assert.Equal(suite.T(), telmexDigit, savedItems[0].Metadata["verificationDigit"])

	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, draft.TransactionID).Return(&domain.Transaction{
		TransactionID: draft.TransactionID,
		Status:        domain.StatusDraft,
	}, nil).Once()
	suite.mockTxnRepo.On("FindItemsByTransactionID", suite.ctx, draft.TransactionID).Return(savedItems, nil).Once()
	suite.mockTxnRepo.On("UpdateTransactionStatus", suite.ctx, draft.TransactionID, domain.StatusDraft, domain.StatusPosted, mock.Anything, suite.operatorID, mock.Anything).Return(nil).Once()
	suite.mockAuditRepo.On("SaveAuditEntry", suite.ctx, mock.AnythingOfType("domain.AuditEntry")).Return(nil).Once()

	posted, err := suite.service.PostDraft(suite.ctx, draft.TransactionID, suite.operatorID)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), string(domain.StatusPosted), posted.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestPostDraft_NonDraftRejected() {
	transactionID := uuid.NewString()
	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, transactionID).Return(&domain.Transaction{
		TransactionID: transactionID,
		Status:        domain.StatusCompleted,
	}, nil).Once()

	resp, err := suite.service.PostDraft(suite.ctx, transactionID, suite.operatorID)

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrStateConflict)
}

func TestPaymentServiceSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
