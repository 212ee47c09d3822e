package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database row shape for the transactions table.
type Transaction struct {
	TransactionID     string
	TransactionNumber string
	ReceiptNumber     *string
	TransactionType   string
	Status            string
	TotalAmount       decimal.Decimal
	PaymentMethod     string
	CustomerReference *string
	CardAccountID     *string
	OperatorID        string
	BranchID          string
	PostedAt          *time.Time
	Notes             string
	CreatedAt         time.Time
	CreatedBy         string
	LastUpdatedAt     time.Time
	LastUpdatedBy     string
}

// TransactionItem is the database row shape for the transaction_items table.
type TransactionItem struct {
	ItemID           string
	TransactionID    string
	Description      string
	Amount           decimal.Decimal
	Quantity         int
	ServiceReference *string
	ProviderCode     *string
	ReferenceNumber  *string
	Metadata         map[string]string
	CreatedAt        time.Time
	CreatedBy        string
	LastUpdatedAt    time.Time
	LastUpdatedBy    string
}
