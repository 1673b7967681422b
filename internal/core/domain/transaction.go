package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of wallet movement.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypePurchase   TransactionType = "purchase"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeRefund     TransactionType = "refund"
)

// IsValid reports whether t is one of the known transaction kinds.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypePurchase, TransactionTypeWithdrawal, TransactionTypeRefund:
		return true
	}
	return false
}

// Transaction represents an immutable wallet ledger entry.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	WalletID    *uuid.UUID      `json:"wallet_id,omitempty"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"` // Signed: debits are negative
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// IsCredit returns true if the entry increased the balance.
func (t *Transaction) IsCredit() bool {
	return t.Amount.IsPositive()
}
