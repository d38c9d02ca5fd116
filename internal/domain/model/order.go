package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderSide tells whether an order buys or sells the base asset.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// OrderType describes how an order is priced.
type OrderType string

const (
	OrderTypeMarket    OrderType = "market"
	OrderTypeLimit     OrderType = "limit"
	OrderTypeStopLimit OrderType = "stop-limit"
)

// OrderStatus describes order lifecycle.
type OrderStatus string

const (
	OrderStatusOpen            OrderStatus = "open"
	OrderStatusFilled          OrderStatus = "filled"
	OrderStatusCancelled       OrderStatus = "cancelled"
	OrderStatusPartiallyFilled OrderStatus = "partially_filled"
)

// Order is a trading order placed by an owner.
type Order struct {
	ID              string
	Owner           string
	Symbol          string
	Side            OrderSide
	Type            OrderType
	Amount          decimal.Decimal
	Price           decimal.Decimal
	StopPrice       decimal.NullDecimal
	Status          OrderStatus
	FilledAmount    decimal.Decimal
	RemainingAmount decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Reservation returns the asset and amount held by the ledger for the unfilled part of the order.
// A buy reservation is rounded up to AmountScale so that placing and cancelling agree on it.
func (o Order) Reservation() (asset string, amount decimal.Decimal, ok bool) {
	base, quote, ok := SplitSymbol(o.Symbol)
	if !ok {
		return "", decimal.Zero, false
	}
	if o.Side == OrderSideBuy {
		return quote, o.RemainingAmount.Mul(o.Price).RoundCeil(AmountScale), true
	}
	return base, o.RemainingAmount, true
}

var quoteAssets = []string{"USDT", "USDC", "BUSD", "USD", "BTC", "ETH"}

// SplitSymbol splits a trading pair such as BTCUSDT into its base and quote assets.
func SplitSymbol(symbol string) (base, quote string, ok bool) {
	symbol = strings.ToUpper(symbol)
	for _, q := range quoteAssets {
		if strings.HasSuffix(symbol, q) && len(symbol) > len(q) {
			return strings.TrimSuffix(symbol, q), q, true
		}
	}
	return "", "", false
}
