package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is an executed fill reported by the matching engine.
type Trade struct {
	ID        string
	Owner     string
	OrderID   string
	Symbol    string
	Side      OrderSide
	Type      OrderType
	Amount    decimal.Decimal
	Price     decimal.Decimal
	Fee       decimal.Decimal
	Total     decimal.Decimal
	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
