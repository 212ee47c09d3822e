package services_test

import (
	"context"
	"time"

	"github.com/branchpay/teller_backend/internal/core/domain"
	portsrepo "github.com/branchpay/teller_backend/internal/core/ports/repositories"
	"github.com/branchpay/teller_backend/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindItemsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionItem, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionItem), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByBranch(ctx context.Context, branchID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, branchID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

func (m *MockTransactionRepository) SumCompletedByType(ctx context.Context, transactionType domain.TransactionType) (decimal.Decimal, error) {
	args := m.Called(ctx, transactionType)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) SumCompletedByTypeSince(ctx context.Context, transactionType domain.TransactionType, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, transactionType, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) SavePosting(ctx context.Context, bundle portsrepo.PostingBundle) error {
	args := m.Called(ctx, bundle)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveDraft(ctx context.Context, txn domain.Transaction, items []domain.TransactionItem) error {
	args := m.Called(ctx, txn, items)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, from, to domain.TransactionStatus, postedAt *time.Time, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, transactionID, from, to, postedAt, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockTransactionRepository) ApplyRollback(ctx context.Context, bundle portsrepo.RollbackBundle) error {
	args := m.Called(ctx, bundle)
	return args.Error(0)
}

func (m *MockTransactionRepository) RestoreFromSnapshot(ctx context.Context, snapshot domain.TransactionSnapshot, audit domain.AuditEntry) error {
	args := m.Called(ctx, snapshot, audit)
	return args.Error(0)
}

func (m *MockTransactionRepository) NextDailySequence(ctx context.Context, scope string, day time.Time) (int, error) {
	args := m.Called(ctx, scope, day)
	return args.Int(0), args.Error(1)
}

// --- Mock DrawerRepository ---
type MockDrawerRepository struct {
	mock.Mock
}

var _ portsrepo.DrawerRepositoryFacade = (*MockDrawerRepository)(nil)

func (m *MockDrawerRepository) GetDrawerBalances(ctx context.Context, operatorID string) ([]domain.DrawerBalance, error) {
	args := m.Called(ctx, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DrawerBalance), args.Error(1)
}

func (m *MockDrawerRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.DenominationEntry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DenominationEntry), args.Error(1)
}

func (m *MockDrawerRepository) AdjustDenomination(ctx context.Context, operatorID string, denomination decimal.Decimal, delta int, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, operatorID, denomination, delta, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockDrawerRepository) RecordEntries(ctx context.Context, operatorID string, entries []domain.DenominationEntry) error {
	args := m.Called(ctx, operatorID, entries)
	return args.Error(0)
}

// --- Mock CardAccountRepository ---
type MockCardAccountRepository struct {
	mock.Mock
}

var _ portsrepo.CardAccountRepositoryFacade = (*MockCardAccountRepository)(nil)

func (m *MockCardAccountRepository) FindCardAccountByID(ctx context.Context, accountID string) (*domain.CardAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardAccount), args.Error(1)
}

// --- Mock AuditRepository ---
type MockAuditRepository struct {
	mock.Mock
}

var _ portsrepo.AuditRepositoryFacade = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) SaveAuditEntry(ctx context.Context, entry domain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListAuditEntries(ctx context.Context, entityID string, limit int, nextToken *string) ([]domain.AuditEntry, *string, error) {
	args := m.Called(ctx, entityID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.AuditEntry), returnedNextToken, args.Error(2)
}

// --- Mock SnapshotRepository ---
type MockSnapshotRepository struct {
	mock.Mock
}

var _ portsrepo.SnapshotRepositoryFacade = (*MockSnapshotRepository)(nil)

func (m *MockSnapshotRepository) FindSnapshotByID(ctx context.Context, snapshotID string) (*domain.TransactionSnapshot, error) {
	args := m.Called(ctx, snapshotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) FindLatestSnapshotByTransactionID(ctx context.Context, transactionID string) (*domain.TransactionSnapshot, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot domain.TransactionSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// newTestConfig returns the policy knobs used across the service suites.
func newTestConfig() *config.Config {
	return &config.Config{
		CurrencyProfile:  "standard",
		DiestelTotalCap:  decimal.NewFromInt(100000),
		DiestelDailyMax:  decimal.NewFromInt(8000),
		DiestelDailyMin:  decimal.NewFromInt(10),
		MinPaymentRate:   decimal.NewFromFloat(0.05),
		MinPaymentFloor:  decimal.NewFromInt(200),
		RollbackWindow:   24 * time.Hour,
		RetryMaxAttempts: 3,
	}
}
