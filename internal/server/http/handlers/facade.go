package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/ocexchange/internal/domain/model"
	"github.com/polkiloo/ocexchange/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, email, password, name string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (string, error)
	RequestVerificationCode(ctx context.Context, userID string) error
	ConfirmVerificationCode(ctx context.Context, userID, code string) error
}

// BalanceFacade provides wallet reads.
type BalanceFacade interface {
	Balances(ctx context.Context, userID string) ([]model.Balance, error)
	Balance(ctx context.Context, userID, asset string) (*model.Balance, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, userID string, cmd usecase.PlaceOrderCommand) (*model.Order, error)
	Orders(ctx context.Context, userID string) ([]model.Order, error)
	CancelOrder(ctx context.Context, userID, id string) (*model.Order, error)
}

type TradeFacade interface {
	Trades(ctx context.Context, userID string) ([]model.Trade, error)
}

type TransactionFacade interface {
	Transactions(ctx context.Context, userID string) ([]model.Transaction, error)
}

// MarketFacade serves public market data.
type MarketFacade interface {
	Markets(ctx context.Context) ([]model.MarketTicker, error)
	CoinPrice(ctx context.Context, coin string) (decimal.Decimal, error)
	PriceHistory(ctx context.Context, coin string, days int) ([]model.PricePoint, error)
}

// AdminFacade holds operator operations.
type AdminFacade interface {
	MutateBalance(ctx context.Context, owner, asset string, amount decimal.Decimal, op model.BalanceOperation) (*model.Balance, error)
	RecordTransaction(ctx context.Context, cmd usecase.RecordTransactionCommand) (*model.Transaction, error)
}

type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// ExchangeFacade aggregates the full set of operations used across handlers.
type ExchangeFacade interface {
	AuthFacade
	BalanceFacade
	OrderFacade
	TradeFacade
	TransactionFacade
	MarketFacade
	AdminFacade
	HealthFacade
}
