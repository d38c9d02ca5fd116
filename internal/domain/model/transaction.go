package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies wallet transactions.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionTrade      TransactionType = "trade"
	TransactionTransfer   TransactionType = "transfer"
)

// TransactionStatus describes transaction lifecycle.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// Transaction records a movement of funds in or out of a wallet.
// Empty TxHash and addresses mean the value is unknown.
type Transaction struct {
	ID          string
	Owner       string
	Type        TransactionType
	Asset       string
	Amount      decimal.Decimal
	Status      TransactionStatus
	TxHash      string
	FromAddress string
	ToAddress   string
	Fee         decimal.NullDecimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LedgerEffect returns the balance operation a transaction applies to its wallet, if any.
func (t Transaction) LedgerEffect() (BalanceOperation, bool) {
	if t.Status != TransactionCompleted {
		return "", false
	}
	switch t.Type {
	case TransactionDeposit:
		return BalanceAdd, true
	case TransactionWithdrawal:
		return BalanceSubtract, true
	default:
		return "", false
	}
}
