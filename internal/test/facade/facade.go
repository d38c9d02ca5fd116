// Package facade holds controllable stand-ins for the HTTP facade used in handler and router tests.
package facade

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/ocexchange/internal/domain/model"
	"github.com/polkiloo/ocexchange/internal/usecase"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (string, error)
	RequestCodeFn  func(context.Context, string) error
	ConfirmCodeFn  func(context.Context, string, string) error
}

// Register returns token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, email, password, name string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, email, password, name)
	}
	return "token", nil
}

// Authenticate returns token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return "token", nil
}

// ParseToken returns stored identifier for authenticated user.
func (s AuthFacadeStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return "user-1", nil
}

// RequestVerificationCode delegates to override when set.
func (s AuthFacadeStub) RequestVerificationCode(ctx context.Context, userID string) error {
	if s.RequestCodeFn != nil {
		return s.RequestCodeFn(ctx, userID)
	}
	return nil
}

// ConfirmVerificationCode delegates to override when set.
func (s AuthFacadeStub) ConfirmVerificationCode(ctx context.Context, userID, code string) error {
	if s.ConfirmCodeFn != nil {
		return s.ConfirmCodeFn(ctx, userID, code)
	}
	return nil
}

// BalanceFacadeStub simulates balance reads.
type BalanceFacadeStub struct {
	BalancesFn func(context.Context, string) ([]model.Balance, error)
	BalanceFn  func(context.Context, string, string) (*model.Balance, error)
}

// Balances returns configured balances or a single BTC record.
func (s BalanceFacadeStub) Balances(ctx context.Context, userID string) ([]model.Balance, error) {
	if s.BalancesFn != nil {
		return s.BalancesFn(ctx, userID)
	}
	return []model.Balance{{
		Owner:     userID,
		Asset:     "BTC",
		Total:     decimal.RequireFromString("1.5"),
		Available: decimal.RequireFromString("1"),
		Locked:    decimal.RequireFromString("0.5"),
		UpdatedAt: time.Unix(0, 0).UTC(),
	}}, nil
}

// Balance returns configured balance or an empty record of asset.
func (s BalanceFacadeStub) Balance(ctx context.Context, userID, asset string) (*model.Balance, error) {
	if s.BalanceFn != nil {
		return s.BalanceFn(ctx, userID, asset)
	}
	return model.NewBalance(userID, asset), nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceFn  func(context.Context, string, usecase.PlaceOrderCommand) (*model.Order, error)
	OrdersFn func(context.Context, string) ([]model.Order, error)
	CancelFn func(context.Context, string, string) (*model.Order, error)
}

// PlaceOrder delegates to provided function or echoes the command as an open order.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, userID string, cmd usecase.PlaceOrderCommand) (*model.Order, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, userID, cmd)
	}
	return &model.Order{
		ID:              "order-1",
		Owner:           userID,
		Symbol:          cmd.Symbol,
		Side:            cmd.Side,
		Type:            cmd.Type,
		Amount:          cmd.Amount,
		Price:           cmd.Price,
		StopPrice:       cmd.StopPrice,
		Status:          model.OrderStatusOpen,
		RemainingAmount: cmd.Amount,
	}, nil
}

// Orders returns predefined orders for given user.
func (s OrderFacadeStub) Orders(ctx context.Context, userID string) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return []model.Order{{ID: "order-1", Owner: userID, Symbol: "BTCUSDT", Status: model.OrderStatusOpen}}, nil
}

// CancelOrder returns a cancelled order by default.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, userID, id string) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, userID, id)
	}
	return &model.Order{ID: id, Owner: userID, Symbol: "BTCUSDT", Status: model.OrderStatusCancelled}, nil
}

// TradeFacadeStub returns configured trades.
type TradeFacadeStub struct {
	TradesFn func(context.Context, string) ([]model.Trade, error)
}

// Trades returns configured trades or none.
func (s TradeFacadeStub) Trades(ctx context.Context, userID string) ([]model.Trade, error) {
	if s.TradesFn != nil {
		return s.TradesFn(ctx, userID)
	}
	return nil, nil
}

// TransactionFacadeStub returns configured transactions.
type TransactionFacadeStub struct {
	TransactionsFn func(context.Context, string) ([]model.Transaction, error)
}

// Transactions returns configured transactions or none.
func (s TransactionFacadeStub) Transactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	if s.TransactionsFn != nil {
		return s.TransactionsFn(ctx, userID)
	}
	return nil, nil
}

// MarketFacadeStub serves canned market data.
type MarketFacadeStub struct {
	MarketsFn func(context.Context) ([]model.MarketTicker, error)
	PriceFn   func(context.Context, string) (decimal.Decimal, error)
	HistoryFn func(context.Context, string, int) ([]model.PricePoint, error)
}

// Markets returns configured tickers or a single BTCUSDT ticker.
func (s MarketFacadeStub) Markets(ctx context.Context) ([]model.MarketTicker, error) {
	if s.MarketsFn != nil {
		return s.MarketsFn(ctx)
	}
	return []model.MarketTicker{{Symbol: "BTCUSDT", BaseAsset: "BTC", QuoteAsset: "USDT", Price: decimal.NewFromInt(65000)}}, nil
}

// CoinPrice returns configured price or 1.
func (s MarketFacadeStub) CoinPrice(ctx context.Context, coin string) (decimal.Decimal, error) {
	if s.PriceFn != nil {
		return s.PriceFn(ctx, coin)
	}
	return decimal.NewFromInt(1), nil
}

// PriceHistory returns configured points or none.
func (s MarketFacadeStub) PriceHistory(ctx context.Context, coin string, days int) ([]model.PricePoint, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, coin, days)
	}
	return nil, nil
}

// AdminFacadeStub simulates operator operations.
type AdminFacadeStub struct {
	MutateFn func(context.Context, string, string, decimal.Decimal, model.BalanceOperation) (*model.Balance, error)
	RecordFn func(context.Context, usecase.RecordTransactionCommand) (*model.Transaction, error)
}

// MutateBalance delegates to override or applies the operation to a zero balance.
func (s AdminFacadeStub) MutateBalance(ctx context.Context, owner, asset string, amount decimal.Decimal, op model.BalanceOperation) (*model.Balance, error) {
	if s.MutateFn != nil {
		return s.MutateFn(ctx, owner, asset, amount, op)
	}
	balance := model.NewBalance(owner, asset)
	if err := balance.Apply(op, amount, time.Unix(0, 0).UTC()); err != nil {
		return nil, err
	}
	return balance, nil
}

// RecordTransaction delegates to override or echoes the command.
func (s AdminFacadeStub) RecordTransaction(ctx context.Context, cmd usecase.RecordTransactionCommand) (*model.Transaction, error) {
	if s.RecordFn != nil {
		return s.RecordFn(ctx, cmd)
	}
	return &model.Transaction{
		ID:     "tx-1",
		Owner:  cmd.Owner,
		Type:   cmd.Type,
		Asset:  cmd.Asset,
		Amount: cmd.Amount,
		Status: cmd.Status,
		Fee:    cmd.Fee,
	}, nil
}

// HealthFacadeStub reports configured store health.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck returns configured error.
func (s HealthFacadeStub) HealthCheck(ctx context.Context) error {
	return s.Err
}

// ExchangeFacadeStub aggregates facade dependencies for HTTP layer tests.
type ExchangeFacadeStub struct {
	AuthFacadeStub
	BalanceFacadeStub
	OrderFacadeStub
	TradeFacadeStub
	TransactionFacadeStub
	MarketFacadeStub
	AdminFacadeStub
	HealthFacadeStub
}
