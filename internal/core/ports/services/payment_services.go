package services

import (
	"context"

	"github.com/branchpay/teller_backend/internal/core/domain"
	"github.com/branchpay/teller_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// PaymentPoster owns the synchronous posting flow and its gates.
type PaymentPoster interface {
	// PostPayment validates references, limits and cash reconciliation, then
	// persists the transaction, items, denomination entries, drawer movement,
	// balance debit and audit record as one unit of work.
	PostPayment(ctx context.Context, req dto.PostPaymentRequest, operatorID, branchID string) (*dto.PostPaymentResponse, error)

	// CheckCreditLimit reports remaining Diestel headroom for an amount.
	CheckCreditLimit(ctx context.Context, providerCode string, amount decimal.Decimal) (*dto.CreditLimitResponse, error)
}

// TransactionLifecycle owns explicit two-step creation and state transitions.
type TransactionLifecycle interface {
	// CreateDraft creates a transaction in Draft status.
	CreateDraft(ctx context.Context, req dto.CreateDraftRequest, operatorID, branchID string) (*dto.TransactionResponse, error)

	// PostDraft transitions a Draft transaction to Posted.
	PostDraft(ctx context.Context, transactionID, operatorID string) (*dto.TransactionResponse, error)

	// CancelTransaction transitions a transaction to Cancelled. Posted and
	// Completed transactions cannot be cancelled.
	CancelTransaction(ctx context.Context, transactionID, reason, operatorID string) (*dto.TransactionResponse, error)
}

// TransactionReaderSvc exposes read access to transactions and card accounts.
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, branchID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	GetCardAccount(ctx context.Context, accountID string) (*dto.CardAccountResponse, error)
}

// PaymentSvcFacade combines all payment service interfaces.
type PaymentSvcFacade interface {
	PaymentPoster
	TransactionLifecycle
	TransactionReaderSvc
}
