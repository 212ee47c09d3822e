package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardAccount is the database row shape for the card_accounts table.
type CardAccount struct {
	AccountID     string
	CardNumber    string
	HolderName    string
	Balance       decimal.Decimal
	CreditLimit   decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
	CreatedBy     string
	LastUpdatedAt time.Time
	LastUpdatedBy string
}
