// Package mapping converts between database row models and core domain types.
package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/branchpay/teller_backend/internal/core/domain"
	"github.com/branchpay/teller_backend/internal/models"
	"github.com/shopspring/decimal"
)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullableStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ToDomainTransaction maps a transaction row to its domain type.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:     m.TransactionID,
		TransactionNumber: m.TransactionNumber,
		ReceiptNumber:     strOrEmpty(m.ReceiptNumber),
		TransactionType:   domain.TransactionType(m.TransactionType),
		Status:            domain.TransactionStatus(m.Status),
		TotalAmount:       m.TotalAmount,
		PaymentMethod:     m.PaymentMethod,
		CustomerReference: strOrEmpty(m.CustomerReference),
		CardAccountID:     strOrEmpty(m.CardAccountID),
		OperatorID:        m.OperatorID,
		BranchID:          m.BranchID,
		PostedAt:          m.PostedAt,
		Notes:             m.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToModelTransaction maps a domain transaction to its row shape.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:     d.TransactionID,
		TransactionNumber: d.TransactionNumber,
		ReceiptNumber:     nullableStr(d.ReceiptNumber),
		TransactionType:   string(d.TransactionType),
		Status:            string(d.Status),
		TotalAmount:       d.TotalAmount,
		PaymentMethod:     d.PaymentMethod,
		CustomerReference: nullableStr(d.CustomerReference),
		CardAccountID:     nullableStr(d.CardAccountID),
		OperatorID:        d.OperatorID,
		BranchID:          d.BranchID,
		PostedAt:          d.PostedAt,
		Notes:             d.Notes,
		CreatedAt:         d.CreatedAt,
		CreatedBy:         d.CreatedBy,
		LastUpdatedAt:     d.LastUpdatedAt,
		LastUpdatedBy:     d.LastUpdatedBy,
	}
}

// ToDomainTransactionItem maps an item row to its domain type.
func ToDomainTransactionItem(m models.TransactionItem) domain.TransactionItem {
	return domain.TransactionItem{
		ItemID:           m.ItemID,
		TransactionID:    m.TransactionID,
		Description:      m.Description,
		Amount:           m.Amount,
		Quantity:         m.Quantity,
		ServiceReference: strOrEmpty(m.ServiceReference),
		ProviderCode:     strOrEmpty(m.ProviderCode),
		ReferenceNumber:  strOrEmpty(m.ReferenceNumber),
		Metadata:         m.Metadata,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToModelTransactionItem maps a domain item to its row shape.
func ToModelTransactionItem(d domain.TransactionItem) models.TransactionItem {
	return models.TransactionItem{
		ItemID:           d.ItemID,
		TransactionID:    d.TransactionID,
		Description:      d.Description,
		Amount:           d.Amount,
		Quantity:         d.Quantity,
		ServiceReference: nullableStr(d.ServiceReference),
		ProviderCode:     nullableStr(d.ProviderCode),
		ReferenceNumber:  nullableStr(d.ReferenceNumber),
		Metadata:         d.Metadata,
		CreatedAt:        d.CreatedAt,
		CreatedBy:        d.CreatedBy,
		LastUpdatedAt:    d.LastUpdatedAt,
		LastUpdatedBy:    d.LastUpdatedBy,
	}
}

// ToDomainDenominationEntry maps a denomination entry row to its domain type.
func ToDomainDenominationEntry(m models.DenominationEntry) domain.DenominationEntry {
	return domain.DenominationEntry{
		EntryID:       m.EntryID,
		TransactionID: m.TransactionID,
		EntryType:     domain.DenominationEntryType(m.EntryType),
		Denomination:  m.Denomination,
		Quantity:      m.Quantity,
		Amount:        m.Amount,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToModelDenominationEntry maps a domain denomination entry to its row shape.
func ToModelDenominationEntry(d domain.DenominationEntry) models.DenominationEntry {
	return models.DenominationEntry{
		EntryID:       d.EntryID,
		TransactionID: d.TransactionID,
		EntryType:     string(d.EntryType),
		Denomination:  d.Denomination,
		Quantity:      d.Quantity,
		Amount:        d.Amount,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

// ToDomainDrawerBalance maps a drawer balance row to its domain type.
// Amount is derived; it is not stored.
func ToDomainDrawerBalance(m models.DrawerBalance) domain.DrawerBalance {
	return domain.DrawerBalance{
		OperatorID:   m.OperatorID,
		Denomination: m.Denomination,
		Quantity:     m.Quantity,
		Amount:       m.Denomination.Mul(decimalFromInt(m.Quantity)),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToDomainCardAccount maps a card account row to its domain type.
func ToDomainCardAccount(m models.CardAccount) domain.CardAccount {
	return domain.CardAccount{
		AccountID:   m.AccountID,
		CardNumber:  m.CardNumber,
		HolderName:  m.HolderName,
		Balance:     m.Balance,
		CreditLimit: m.CreditLimit,
		IsActive:    m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToDomainAuditEntry maps an audit row to its domain type.
func ToDomainAuditEntry(m models.AuditEntry) domain.AuditEntry {
	return domain.AuditEntry{
		EntryID:      m.EntryID,
		Action:       domain.AuditAction(m.Action),
		EntityType:   m.EntityType,
		EntityID:     m.EntityID,
		BeforeStatus: strOrEmpty(m.BeforeStatus),
		AfterStatus:  strOrEmpty(m.AfterStatus),
		Reason:       m.Reason,
		ActorID:      m.ActorID,
		OccurredAt:   m.OccurredAt,
	}
}

// ToModelAuditEntry maps a domain audit entry to its row shape.
func ToModelAuditEntry(d domain.AuditEntry) models.AuditEntry {
	return models.AuditEntry{
		EntryID:      d.EntryID,
		Action:       string(d.Action),
		EntityType:   d.EntityType,
		EntityID:     d.EntityID,
		BeforeStatus: nullableStr(d.BeforeStatus),
		AfterStatus:  nullableStr(d.AfterStatus),
		Reason:       d.Reason,
		ActorID:      d.ActorID,
		OccurredAt:   d.OccurredAt,
	}
}

// snapshotPayload is the JSON shape stored in the snapshots table.
type snapshotPayload struct {
	Transaction   domain.Transaction         `json:"transaction"`
	Items         []domain.TransactionItem   `json:"items"`
	Denominations []domain.DenominationEntry `json:"denominations"`
}

// ToModelSnapshot serializes a domain snapshot into its row shape.
func ToModelSnapshot(d domain.TransactionSnapshot) (models.TransactionSnapshot, error) {
	payload, err := json.Marshal(snapshotPayload{
		Transaction:   d.Transaction,
		Items:         d.Items,
		Denominations: d.Denominations,
	})
	if err != nil {
		return models.TransactionSnapshot{}, fmt.Errorf("failed to marshal snapshot payload: %w", err)
	}
	return models.TransactionSnapshot{
		SnapshotID:    d.SnapshotID,
		TransactionID: d.TransactionID,
		Payload:       payload,
		TakenAt:       d.TakenAt,
		TakenBy:       d.TakenBy,
	}, nil
}

// ToDomainSnapshot deserializes a snapshot row into its domain type.
func ToDomainSnapshot(m models.TransactionSnapshot) (domain.TransactionSnapshot, error) {
	var payload snapshotPayload
	if err := json.Unmarshal(m.Payload, &payload); err != nil {
		return domain.TransactionSnapshot{}, fmt.Errorf("failed to unmarshal snapshot payload: %w", err)
	}
	return domain.TransactionSnapshot{
		SnapshotID:    m.SnapshotID,
		TransactionID: m.TransactionID,
		Transaction:   payload.Transaction,
		Items:         payload.Items,
		Denominations: payload.Denominations,
		TakenAt:       m.TakenAt,
		TakenBy:       m.TakenBy,
	}, nil
}
