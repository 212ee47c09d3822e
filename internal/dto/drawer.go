package dto

import (
	"github.com/branchpay/teller_backend/internal/core/cash"
	"github.com/branchpay/teller_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Drawer adjustment operations.
const (
	DrawerOpAdd      = "add"
	DrawerOpSubtract = "subtract"
)

// DrawerBalanceResponse is one denomination row of an operator's drawer.
type DrawerBalanceResponse struct {
	Denomination decimal.Decimal `json:"denomination"`
	Quantity     int             `json:"quantity"`
	Amount       decimal.Decimal `json:"amount"`
}

// DrawerResponse is the full drawer state for an operator.
type DrawerResponse struct {
	OperatorID string                  `json:"operatorID"`
	Balances   []DrawerBalanceResponse `json:"balances"`
	Total      decimal.Decimal         `json:"total"`
}

// ToDrawerResponse maps drawer balances to the API shape.
func ToDrawerResponse(operatorID string, balances []domain.DrawerBalance) DrawerResponse {
	resp := DrawerResponse{OperatorID: operatorID, Total: decimal.Zero}
	for _, b := range balances {
		resp.Balances = append(resp.Balances, DrawerBalanceResponse{
			Denomination: b.Denomination,
			Quantity:     b.Quantity,
			Amount:       b.Amount,
		})
		resp.Total = resp.Total.Add(b.Amount)
	}
	return resp
}

// AdjustDrawerRequest applies a manual refill or pickup to one denomination.
type AdjustDrawerRequest struct {
	Denomination decimal.Decimal `json:"denomination" binding:"required"`
	Quantity     int             `json:"quantity" binding:"required,min=1"`
	Op           string          `json:"op" binding:"required,oneof=add subtract"`
	Reason       string          `json:"reason"`
}

// InventoryLine declares the available quantity of one denomination for an
// explicit change computation.
type InventoryLine struct {
	Denomination decimal.Decimal `json:"denomination" binding:"required"`
	Quantity     int             `json:"quantity" binding:"min=0"`
}

// ComputeChangeRequest asks for an exact change breakdown. When Inventory is
// empty the caller's drawer inventory is used.
type ComputeChangeRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Inventory []InventoryLine `json:"inventory" binding:"dive"`
}

// ComputeChangeResponse is the exact breakdown for a change amount.
type ComputeChangeResponse struct {
	Amount  decimal.Decimal   `json:"amount"`
	Entries []cash.ChangeLine `json:"entries"`
}

// RecordEntriesRequest records denomination entries against a transaction.
type RecordEntriesRequest struct {
	Entries []DenominationEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// RecordEntriesResponse reports the total amount recorded.
type RecordEntriesResponse struct {
	TransactionID string          `json:"transactionID"`
	TotalRecorded decimal.Decimal `json:"totalRecorded"`
}
