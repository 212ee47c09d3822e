package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DenominationEntry is the database row shape for the denomination_entries table.
type DenominationEntry struct {
	EntryID       string
	TransactionID string
	EntryType     string
	Denomination  decimal.Decimal
	Quantity      int
	Amount        decimal.Decimal
	CreatedAt     time.Time
	CreatedBy     string
	LastUpdatedAt time.Time
	LastUpdatedBy string
}

// DrawerBalance is the database row shape for the drawer_balances table.
type DrawerBalance struct {
	OperatorID    string
	Denomination  decimal.Decimal
	Quantity      int
	CreatedAt     time.Time
	CreatedBy     string
	LastUpdatedAt time.Time
	LastUpdatedBy string
}
