package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/ocexchange/internal/config"
	domainErrors "github.com/polkiloo/ocexchange/internal/domain/errors"
	"github.com/polkiloo/ocexchange/internal/domain/model"
	testhelpers "github.com/polkiloo/ocexchange/internal/test"
	"github.com/polkiloo/ocexchange/internal/usecase"
	"github.com/polkiloo/ocexchange/internal/worker"
)

type mailQueueStub struct {
	jobs []worker.MailJob
}

func (q *mailQueueStub) Enqueue(job worker.MailJob) bool {
	q.jobs = append(q.jobs, job)
	return true
}

type healthStub struct {
	err error
}

func (h healthStub) HealthCheck(context.Context) error { return h.err }

type facadeFixture struct {
	facade       *ExchangeFacade
	users        *testhelpers.UserRepositoryStub
	balances     *testhelpers.BalanceRepositoryStub
	orders       *testhelpers.OrderRepositoryStub
	trades       *testhelpers.TradeRepositoryStub
	transactions *testhelpers.TransactionRepositoryStub
	market       *testhelpers.MarketProviderStub
	mail         *mailQueueStub
}

func newFacade(health HealthChecker) facadeFixture {
	cfg := &config.Config{LedgerMaxRetries: 3, MarketSnapshotMaxAge: time.Minute}
	fixture := facadeFixture{
		users:        testhelpers.NewUserRepositoryStub(),
		balances:     testhelpers.NewBalanceRepositoryStub(),
		orders:       &testhelpers.OrderRepositoryStub{},
		trades:       &testhelpers.TradeRepositoryStub{},
		transactions: &testhelpers.TransactionRepositoryStub{},
		market:       &testhelpers.MarketProviderStub{},
		mail:         &mailQueueStub{},
	}

	strategy := testhelpers.StrategyStub{ParseFn: func(string) (string, error) { return "user-99", nil }}
	authUC := usecase.NewAuthUseCase(fixture.users, testhelpers.HasherStub{}, strategy, &testhelpers.MailerStub{})
	ledger := usecase.NewLedgerUseCase(fixture.balances, cfg)

	fixture.facade = NewExchangeFacade(
		authUC,
		ledger,
		usecase.NewOrderUseCase(fixture.orders, ledger),
		usecase.NewTradeUseCase(fixture.trades),
		usecase.NewTransactionUseCase(fixture.transactions, ledger),
		usecase.NewMarketUseCase(fixture.market, cfg),
		fixture.mail,
		health,
		slog.New(slog.NewJSONHandler(io.Discard, nil)),
	)
	return fixture
}

func TestExchangeFacadeAuth(t *testing.T) {
	f := newFacade(healthStub{})
	ctx := context.Background()

	token, err := f.facade.Register(ctx, "Alice@Example.com", "pass", "Alice")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}
	if len(f.mail.jobs) != 1 || f.mail.jobs[0].To != "alice@example.com" || f.mail.jobs[0].Name != "Alice" {
		t.Fatalf("expected welcome mail queued, got %+v", f.mail.jobs)
	}

	if _, err := f.users.GetByEmail(ctx, "alice@example.com"); err != nil {
		t.Fatalf("user not stored: %v", err)
	}

	token, err = f.facade.Authenticate(ctx, "alice@example.com", "pass")
	if err != nil || token != "token" {
		t.Fatalf("unexpected authenticate result token=%q err=%v", token, err)
	}

	id, err := f.facade.ParseToken("anything")
	if err != nil || id != "user-99" {
		t.Fatalf("unexpected parse result id=%q err=%v", id, err)
	}
}

func TestExchangeFacadeRegisterFailureQueuesNothing(t *testing.T) {
	f := newFacade(healthStub{})
	if _, err := f.facade.Register(context.Background(), "not-an-email", "pass", ""); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if len(f.mail.jobs) != 0 {
		t.Fatalf("expected no mail queued, got %d", len(f.mail.jobs))
	}
}

func TestExchangeFacadeBalancesAndOrders(t *testing.T) {
	f := newFacade(healthStub{})
	ctx := context.Background()

	if _, err := f.facade.MutateBalance(ctx, "u1", "USDT", decimal.NewFromInt(1000), model.BalanceAdd); err != nil {
		t.Fatalf("mutate balance returned error: %v", err)
	}

	order, err := f.facade.PlaceOrder(ctx, "u1", usecase.PlaceOrderCommand{
		Symbol: "btcusdt",
		Side:   model.OrderSideBuy,
		Type:   model.OrderTypeLimit,
		Amount: decimal.NewFromInt(2),
		Price:  decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("place order returned error: %v", err)
	}

	balance, err := f.facade.Balance(ctx, "u1", "USDT")
	if err != nil {
		t.Fatalf("balance returned error: %v", err)
	}
	if !balance.Locked.Equal(decimal.NewFromInt(200)) || !balance.Available.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("unexpected balance after placing order: %+v", balance)
	}

	if _, err := f.facade.CancelOrder(ctx, "u1", order.ID); err != nil {
		t.Fatalf("cancel order returned error: %v", err)
	}
	balances, err := f.facade.Balances(ctx, "u1")
	if err != nil || len(balances) != 1 {
		t.Fatalf("unexpected balances %v err=%v", balances, err)
	}
	if !balances[0].Available.Equal(decimal.NewFromInt(1000)) || !balances[0].Locked.IsZero() {
		t.Fatalf("expected reservation released, got %+v", balances[0])
	}

	f.orders.Orders = f.orders.Created
	listed, err := f.facade.Orders(ctx, "u1")
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one order, got %v err=%v", listed, err)
	}
}

func TestExchangeFacadeHistory(t *testing.T) {
	f := newFacade(healthStub{})
	ctx := context.Background()
	f.trades.Trades = []model.Trade{{ID: "t1", Owner: "u1", Symbol: "BTCUSDT"}}

	trades, err := f.facade.Trades(ctx, "u1")
	if err != nil || len(trades) != 1 {
		t.Fatalf("unexpected trades %v err=%v", trades, err)
	}

	tx, err := f.facade.RecordTransaction(ctx, usecase.RecordTransactionCommand{
		Owner:  "u1",
		Type:   model.TransactionDeposit,
		Asset:  "eth",
		Amount: decimal.NewFromInt(3),
		Status: model.TransactionCompleted,
	})
	if err != nil {
		t.Fatalf("record transaction returned error: %v", err)
	}
	if tx.Asset != "ETH" {
		t.Fatalf("expected uppercased asset, got %q", tx.Asset)
	}

	list, err := f.facade.Transactions(ctx, "u1")
	if err != nil || len(list) != 1 {
		t.Fatalf("unexpected transactions %v err=%v", list, err)
	}

	eth, err := f.facade.Balance(ctx, "u1", "ETH")
	if err != nil || !eth.Available.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("expected deposit credited, got %+v err=%v", eth, err)
	}
}

func TestExchangeFacadeMarket(t *testing.T) {
	f := newFacade(healthStub{})
	ctx := context.Background()

	tickers, err := f.facade.Markets(ctx)
	if err != nil || len(tickers) != 1 {
		t.Fatalf("unexpected tickers %v err=%v", tickers, err)
	}

	price, err := f.facade.CoinPrice(ctx, "bitcoin")
	if err != nil || !price.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("unexpected price %s err=%v", price, err)
	}

	points, err := f.facade.PriceHistory(ctx, "bitcoin", 7)
	if err != nil || len(points) != 1 {
		t.Fatalf("unexpected history %v err=%v", points, err)
	}
}

func TestExchangeFacadeHealthCheck(t *testing.T) {
	if err := newFacade(healthStub{}).facade.HealthCheck(context.Background()); err != nil {
		t.Fatalf("expected healthy store, got %v", err)
	}

	boom := errors.New("boom")
	if err := newFacade(healthStub{err: boom}).facade.HealthCheck(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected health error, got %v", err)
	}
}
