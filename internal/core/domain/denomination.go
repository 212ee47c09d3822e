package domain

import "github.com/shopspring/decimal"

// DenominationEntryType classifies how a denomination line relates to the drawer.
type DenominationEntryType string

const (
	// EntryReceived is cash handed over by the customer; increases the drawer.
	EntryReceived DenominationEntryType = "RECEIVED"
	// EntryPayment is an informational split of the amount applied to the
	// payment itself; it never moves drawer inventory.
	EntryPayment DenominationEntryType = "PAYMENT"
	// EntryChange is cash dispensed back to the customer; decreases the drawer.
	EntryChange DenominationEntryType = "CHANGE"
)

// IsValid reports whether the entry type is one of the known kinds.
func (t DenominationEntryType) IsValid() bool {
	switch t {
	case EntryReceived, EntryPayment, EntryChange:
		return true
	}
	return false
}

// DenominationEntry records a (transaction, type, denomination) count.
// Entries are immutable once created; corrections are new entries.
type DenominationEntry struct {
	EntryID       string                `json:"entryID"` // Primary Key (UUID)
	TransactionID string                `json:"transactionID"`
	EntryType     DenominationEntryType `json:"entryType"`
	Denomination  decimal.Decimal       `json:"denomination"` // Face value from the currency ladder
	Quantity      int                   `json:"quantity"`     // >= 0
	Amount        decimal.Decimal       `json:"amount"`       // Denomination * Quantity
	AuditFields
}

// DrawerBalance is the running on-hand quantity of one denomination for an operator.
type DrawerBalance struct {
	OperatorID   string          `json:"operatorID"`
	Denomination decimal.Decimal `json:"denomination"`
	Quantity     int             `json:"quantity"` // Never negative
	Amount       decimal.Decimal `json:"amount"`   // Denomination * Quantity
	AuditFields
}
