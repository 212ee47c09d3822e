package dto

import (
	"time"

	"github.com/branchpay/teller_backend/internal/core/cash"
	"github.com/branchpay/teller_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DenominationEntryRequest is one denomination count submitted with a payment.
type DenominationEntryRequest struct {
	EntryType    string          `json:"entryType" binding:"required,oneof=RECEIVED PAYMENT CHANGE"`
	Denomination decimal.Decimal `json:"denomination" binding:"required"`
	Quantity     int             `json:"quantity" binding:"min=0"`
}

// ToDomain converts the request line to a domain entry (amount derived).
func (r DenominationEntryRequest) ToDomain() domain.DenominationEntry {
	return domain.DenominationEntry{
		EntryType:    domain.DenominationEntryType(r.EntryType),
		Denomination: r.Denomination,
		Quantity:     r.Quantity,
		Amount:       r.Denomination.Mul(decimal.NewFromInt(int64(r.Quantity))),
	}
}

// PaymentItemRequest is one line of a payment submission.
type PaymentItemRequest struct {
	Description       string            `json:"description" binding:"required"`
	Amount            decimal.Decimal   `json:"amount" binding:"required"`
	Quantity          int               `json:"quantity" binding:"required,min=1"`
	ServiceReference  string            `json:"serviceReference"`
	ProviderCode      string            `json:"providerCode" binding:"omitempty,providercode"`
	ReferenceNumber   string            `json:"referenceNumber"`
	VerificationDigit string            `json:"verificationDigit"`
	Metadata          map[string]string `json:"metadata"`
}

// PostPaymentRequest submits a payment for synchronous posting.
type PostPaymentRequest struct {
	TransactionType   string                     `json:"transactionType" binding:"required"`
	PaymentMethod     string                     `json:"paymentMethod" binding:"required"`
	CustomerReference string                     `json:"customerReference"`
	CardAccountID     string                     `json:"cardAccountID"`
	CashReceived      decimal.Decimal            `json:"cashReceived"`
	Items             []PaymentItemRequest       `json:"items" binding:"required,min=1,dive"`
	Denominations     []DenominationEntryRequest `json:"denominations" binding:"dive"`
	Notes             string                     `json:"notes"`
}

// CreateDraftRequest creates a transaction in Draft for two-step posting.
type CreateDraftRequest struct {
	TransactionType   string               `json:"transactionType" binding:"required"`
	PaymentMethod     string               `json:"paymentMethod" binding:"required"`
	CustomerReference string               `json:"customerReference"`
	Items             []PaymentItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes             string               `json:"notes"`
}

// PostPaymentResponse reports the outcome of a successful posting.
type PostPaymentResponse struct {
	TransactionID     string            `json:"transactionID"`
	TransactionNumber string            `json:"transactionNumber"`
	ReceiptNumber     string            `json:"receiptNumber"`
	Status            string            `json:"status"`
	TotalAmount       decimal.Decimal   `json:"totalAmount"`
	CashReceived      decimal.Decimal   `json:"cashReceived"`
	ChangeAmount      decimal.Decimal   `json:"changeAmount"`
	Change            []cash.ChangeLine `json:"change,omitempty"`
	NewBalance        *decimal.Decimal  `json:"newBalance,omitempty"`
}

// CreditLimitResponse reports headroom against the Diestel caps.
type CreditLimitResponse struct {
	CanProcess     bool            `json:"canProcess"`
	RemainingTotal decimal.Decimal `json:"remainingTotal"`
	RemainingDaily decimal.Decimal `json:"remainingDaily"`
	Message        string          `json:"message,omitempty"`
}

// CardAccountResponse exposes a card account with derived figures.
type CardAccountResponse struct {
	AccountID       string          `json:"accountID"`
	CardNumber      string          `json:"cardNumber"`
	HolderName      string          `json:"holderName"`
	Balance         decimal.Decimal `json:"balance"`
	CreditLimit     decimal.Decimal `json:"creditLimit"`
	AvailableCredit decimal.Decimal `json:"availableCredit"`
	MinimumPayment  decimal.Decimal `json:"minimumPayment"`
}

// TransactionItemResponse is the API shape of a transaction line.
type TransactionItemResponse struct {
	ItemID           string          `json:"itemID"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	Quantity         int             `json:"quantity"`
	ServiceReference string          `json:"serviceReference,omitempty"`
	ProviderCode     string          `json:"providerCode,omitempty"`
	ReferenceNumber  string          `json:"referenceNumber,omitempty"`
}

// TransactionResponse is the API shape of a teller transaction.
type TransactionResponse struct {
	TransactionID     string                    `json:"transactionID"`
	TransactionNumber string                    `json:"transactionNumber"`
	ReceiptNumber     string                    `json:"receiptNumber,omitempty"`
	TransactionType   string                    `json:"transactionType"`
	Status            string                    `json:"status"`
	TotalAmount       decimal.Decimal           `json:"totalAmount"`
	PaymentMethod     string                    `json:"paymentMethod"`
	CustomerReference string                    `json:"customerReference,omitempty"`
	OperatorID        string                    `json:"operatorID"`
	BranchID          string                    `json:"branchID"`
	PostedAt          *time.Time                `json:"postedAt,omitempty"`
	Notes             string                    `json:"notes,omitempty"`
	Items             []TransactionItemResponse `json:"items,omitempty"`
	CreatedAt         time.Time                 `json:"createdAt"`
}

// ToTransactionResponse maps a domain transaction to its API shape.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:     txn.TransactionID,
		TransactionNumber: txn.TransactionNumber,
		ReceiptNumber:     txn.ReceiptNumber,
		TransactionType:   string(txn.TransactionType),
		Status:            string(txn.Status),
		TotalAmount:       txn.TotalAmount,
		PaymentMethod:     txn.PaymentMethod,
		CustomerReference: txn.CustomerReference,
		OperatorID:        txn.OperatorID,
		BranchID:          txn.BranchID,
		PostedAt:          txn.PostedAt,
		Notes:             txn.Notes,
		CreatedAt:         txn.CreatedAt,
	}
	for _, item := range txn.Items {
		resp.Items = append(resp.Items, TransactionItemResponse{
			ItemID:           item.ItemID,
			Description:      item.Description,
			Amount:           item.Amount,
			Quantity:         item.Quantity,
			ServiceReference: item.ServiceReference,
			ProviderCode:     item.ProviderCode,
			ReferenceNumber:  item.ReferenceNumber,
		})
	}
	return resp
}

// ListTransactionsParams holds pagination parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int
	NextToken *string
}

// ListTransactionsResponse is a paginated page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
