package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the teller operations supported at the branch.
type TransactionType string

const (
	ServicePayment TransactionType = "SERVICE_PAYMENT"
	CardPayment    TransactionType = "CARD_PAYMENT"
	DiestelPayment TransactionType = "DIESTEL_PAYMENT"
	CashDeposit    TransactionType = "CASH_DEPOSIT"
	CashWithdrawal TransactionType = "CASH_WITHDRAWAL"
)

// NumberPrefix returns the three-letter prefix used when building the
// human-readable transaction number.
func (t TransactionType) NumberPrefix() string {
	switch t {
	case ServicePayment:
		return "SRV"
	case CardPayment:
		return "CRD"
	case DiestelPayment:
		return "DST"
	case CashDeposit:
		return "DEP"
	case CashWithdrawal:
		return "WDL"
	default:
		return "TRX"
	}
}

// IsValid reports whether the type is one of the supported teller operations.
func (t TransactionType) IsValid() bool {
	switch t {
	case ServicePayment, CardPayment, DiestelPayment, CashDeposit, CashWithdrawal:
		return true
	}
	return false
}

// TransactionStatus is the lifecycle state of a teller transaction.
type TransactionStatus string

const (
	StatusDraft      TransactionStatus = "DRAFT"
	StatusPending    TransactionStatus = "PENDING"
	StatusPosted     TransactionStatus = "POSTED"
	StatusCompleted  TransactionStatus = "COMPLETED"
	StatusFailed     TransactionStatus = "FAILED"
	StatusCancelled  TransactionStatus = "CANCELLED"
	StatusRolledBack TransactionStatus = "ROLLED_BACK"
)

// IsTerminal reports whether no further forward transition is allowed.
// Posted/Completed remain reachable by rollback, so they are not terminal here.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRolledBack
}

// CanCancel reports whether the transaction may still be cancelled.
// Once money has been posted, cancellation is no longer an option.
func (s TransactionStatus) CanCancel() bool {
	switch s {
	case StatusDraft, StatusPending, StatusFailed:
		return true
	}
	return false
}

// Transaction represents a single teller operation at a branch.
type Transaction struct {
	TransactionID     string            `json:"transactionID"`     // Primary Key (UUID)
	TransactionNumber string            `json:"transactionNumber"` // e.g. SRV-20250115-0042
	ReceiptNumber     string            `json:"receiptNumber"`     // e.g. RCP-20250115-000317
	TransactionType   TransactionType   `json:"transactionType"`
	Status            TransactionStatus `json:"status"`
	TotalAmount       decimal.Decimal   `json:"totalAmount"` // Always >= 0
	PaymentMethod     string            `json:"paymentMethod"`
	CustomerReference string            `json:"customerReference"` // Nullable
	CardAccountID     string            `json:"cardAccountID,omitempty"` // Set for card payments; rollback re-credits it
	OperatorID        string            `json:"operatorID"`
	BranchID          string            `json:"branchID"`
	PostedAt          *time.Time        `json:"postedAt"` // Set on transition to Posted/Completed
	Notes             string            `json:"notes"`    // Free text; rollback appends, never overwrites
	Items             []TransactionItem `json:"items,omitempty"`
	AuditFields
}

// TransactionItem is a single line within a teller transaction.
type TransactionItem struct {
	ItemID           string            `json:"itemID"` // Primary Key (UUID)
	TransactionID    string            `json:"transactionID"`
	Description      string            `json:"description"`
	Amount           decimal.Decimal   `json:"amount"`
	Quantity         int               `json:"quantity"`
	ServiceReference string            `json:"serviceReference"` // Nullable
	ProviderCode     string            `json:"providerCode"`     // Nullable; reference validation key
	ReferenceNumber  string            `json:"referenceNumber"`  // Nullable provider reference
	Metadata         map[string]string `json:"metadata,omitempty"`
	AuditFields
}

// Subtotal returns amount multiplied by quantity for the line.
func (i TransactionItem) Subtotal() decimal.Decimal {
	return i.Amount.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CardAccount is the card balance a card payment debits against.
type CardAccount struct {
	AccountID   string          `json:"accountID"`
	CardNumber  string          `json:"cardNumber"`
	HolderName  string          `json:"holderName"`
	Balance     decimal.Decimal `json:"balance"`     // Outstanding amount owed
	CreditLimit decimal.Decimal `json:"creditLimit"` // Maximum outstanding balance
	IsActive    bool            `json:"isActive"`
	AuditFields
}
