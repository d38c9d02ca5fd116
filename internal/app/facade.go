package app

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/ocexchange/internal/domain/model"
	"github.com/polkiloo/ocexchange/internal/usecase"
	"github.com/polkiloo/ocexchange/internal/worker"
)

// HealthChecker reports whether the store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// MailQueue accepts emails for asynchronous delivery.
type MailQueue interface {
	Enqueue(job worker.MailJob) bool
}

type ExchangeFacade struct {
	auth         *usecase.AuthUseCase
	ledger       *usecase.LedgerUseCase
	orders       *usecase.OrderUseCase
	trades       *usecase.TradeUseCase
	transactions *usecase.TransactionUseCase
	market       *usecase.MarketUseCase
	mail         MailQueue
	health       HealthChecker
	logger       *slog.Logger
}

func NewExchangeFacade(
	auth *usecase.AuthUseCase,
	ledger *usecase.LedgerUseCase,
	orders *usecase.OrderUseCase,
	trades *usecase.TradeUseCase,
	transactions *usecase.TransactionUseCase,
	market *usecase.MarketUseCase,
	mail MailQueue,
	health HealthChecker,
	logger *slog.Logger,
) *ExchangeFacade {
	return &ExchangeFacade{
		auth:         auth,
		ledger:       ledger,
		orders:       orders,
		trades:       trades,
		transactions: transactions,
		market:       market,
		mail:         mail,
		health:       health,
		logger:       logger,
	}
}

// Register creates the account and queues the welcome email.
func (f *ExchangeFacade) Register(ctx context.Context, email, password, name string) (string, error) {
	user, token, err := f.auth.Register(ctx, email, password, name)
	if err != nil {
		return "", err
	}
	f.mail.Enqueue(worker.MailJob{To: user.Email, Name: user.Name})
	f.logger.Info("user registered", slog.String("user_id", user.ID))
	return token, nil
}

func (f *ExchangeFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *ExchangeFacade) ParseToken(token string) (string, error) {
	return f.auth.ParseToken(token)
}

func (f *ExchangeFacade) RequestVerificationCode(ctx context.Context, userID string) error {
	return f.auth.RequestVerificationCode(ctx, userID)
}

func (f *ExchangeFacade) ConfirmVerificationCode(ctx context.Context, userID, code string) error {
	return f.auth.ConfirmVerificationCode(ctx, userID, code)
}

func (f *ExchangeFacade) Balances(ctx context.Context, userID string) ([]model.Balance, error) {
	return f.ledger.Balances(ctx, userID)
}

func (f *ExchangeFacade) Balance(ctx context.Context, userID, asset string) (*model.Balance, error) {
	return f.ledger.Balance(ctx, userID, asset)
}

func (f *ExchangeFacade) PlaceOrder(ctx context.Context, userID string, cmd usecase.PlaceOrderCommand) (*model.Order, error) {
	return f.orders.Place(ctx, userID, cmd)
}

func (f *ExchangeFacade) Orders(ctx context.Context, userID string) ([]model.Order, error) {
	return f.orders.List(ctx, userID)
}

func (f *ExchangeFacade) CancelOrder(ctx context.Context, userID, id string) (*model.Order, error) {
	return f.orders.Cancel(ctx, userID, id)
}

func (f *ExchangeFacade) Trades(ctx context.Context, userID string) ([]model.Trade, error) {
	return f.trades.List(ctx, userID)
}

func (f *ExchangeFacade) Transactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	return f.transactions.List(ctx, userID)
}

func (f *ExchangeFacade) Markets(ctx context.Context) ([]model.MarketTicker, error) {
	return f.market.Markets(ctx)
}

func (f *ExchangeFacade) CoinPrice(ctx context.Context, coin string) (decimal.Decimal, error) {
	return f.market.Price(ctx, coin)
}

func (f *ExchangeFacade) PriceHistory(ctx context.Context, coin string, days int) ([]model.PricePoint, error) {
	return f.market.History(ctx, coin, days)
}

func (f *ExchangeFacade) MutateBalance(ctx context.Context, owner, asset string, amount decimal.Decimal, op model.BalanceOperation) (*model.Balance, error) {
	return f.ledger.Mutate(ctx, owner, asset, amount, op)
}

func (f *ExchangeFacade) RecordTransaction(ctx context.Context, cmd usecase.RecordTransactionCommand) (*model.Transaction, error) {
	return f.transactions.Record(ctx, cmd)
}

func (f *ExchangeFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
