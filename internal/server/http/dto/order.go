package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlaceOrderRequest describes a new order.
type PlaceOrderRequest struct {
	Symbol    string              `json:"symbol"`
	Side      string              `json:"side"`
	Type      string              `json:"type"`
	Amount    decimal.Decimal     `json:"amount"`
	Price     decimal.Decimal     `json:"price"`
	StopPrice decimal.NullDecimal `json:"stop_price"`
}

// OrderResponse describes an order of the current user.
type OrderResponse struct {
	ID              string              `json:"id"`
	Symbol          string              `json:"symbol"`
	Side            string              `json:"side"`
	Type            string              `json:"type"`
	Amount          decimal.Decimal     `json:"amount"`
	Price           decimal.Decimal     `json:"price"`
	StopPrice       decimal.NullDecimal `json:"stop_price"`
	Status          string              `json:"status"`
	FilledAmount    decimal.Decimal     `json:"filled_amount"`
	RemainingAmount decimal.Decimal     `json:"remaining_amount"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// TradeResponse describes an executed trade.
type TradeResponse struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	Symbol    string          `json:"symbol"`
	Side      string          `json:"side"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Price     decimal.Decimal `json:"price"`
	Fee       decimal.Decimal `json:"fee"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}
