package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceResponse represents a wallet position in one asset.
type BalanceResponse struct {
	Asset     string          `json:"asset"`
	Total     decimal.Decimal `json:"total"`
	Available decimal.Decimal `json:"available"`
	Locked    decimal.Decimal `json:"locked"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MutateBalanceRequest is the operator payload applying a ledger operation.
type MutateBalanceRequest struct {
	Owner     string          `json:"owner"`
	Asset     string          `json:"asset"`
	Amount    decimal.Decimal `json:"amount"`
	Operation string          `json:"operation"`
}
