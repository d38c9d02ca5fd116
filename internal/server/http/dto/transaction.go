package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRequest is the operator payload recording a wallet transaction.
type TransactionRequest struct {
	Owner       string              `json:"owner"`
	Type        string              `json:"type"`
	Asset       string              `json:"asset"`
	Amount      decimal.Decimal     `json:"amount"`
	Status      string              `json:"status"`
	TxHash      string              `json:"tx_hash"`
	FromAddress string              `json:"from_address"`
	ToAddress   string              `json:"to_address"`
	Fee         decimal.NullDecimal `json:"fee"`
}

// TransactionResponse describes a wallet transaction.
type TransactionResponse struct {
	ID          string              `json:"id"`
	Type        string              `json:"type"`
	Asset       string              `json:"asset"`
	Amount      decimal.Decimal     `json:"amount"`
	Status      string              `json:"status"`
	TxHash      string              `json:"tx_hash,omitempty"`
	FromAddress string              `json:"from_address,omitempty"`
	ToAddress   string              `json:"to_address,omitempty"`
	Fee         decimal.NullDecimal `json:"fee"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}
