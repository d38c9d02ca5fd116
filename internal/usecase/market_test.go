package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/ocexchange/internal/config"
	domainErrors "github.com/polkiloo/ocexchange/internal/domain/errors"
	"github.com/polkiloo/ocexchange/internal/domain/model"
	testhelpers "github.com/polkiloo/ocexchange/internal/test"
)

func newMarketFixture(provider *testhelpers.MarketProviderStub) (*MarketUseCase, *time.Time) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	uc := NewMarketUseCase(provider, &config.Config{MarketSnapshotMaxAge: time.Minute})
	uc.now = func() time.Time { return now }
	return uc, &now
}

func TestMarketUseCaseServesFreshSnapshot(t *testing.T) {
	provider := &testhelpers.MarketProviderStub{}
	uc, now := newMarketFixture(provider)
	ctx := context.Background()

	if err := uc.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	tickers, err := uc.Markets(ctx)
	if err != nil {
		t.Fatalf("markets: %v", err)
	}
	if len(tickers) != 1 || tickers[0].Symbol != "BTCUSDT" {
		t.Fatalf("unexpected tickers %+v", tickers)
	}
	if provider.Calls() != 1 {
		t.Fatalf("fresh snapshot must be served from cache, got %d calls", provider.Calls())
	}

	*now = now.Add(2 * time.Minute)
	if _, err := uc.Markets(ctx); err != nil {
		t.Fatalf("markets: %v", err)
	}
	if provider.Calls() != 2 {
		t.Fatalf("stale snapshot must trigger live fetch, got %d calls", provider.Calls())
	}
}

func TestMarketUseCaseFetchErrorKeepsSnapshot(t *testing.T) {
	fail := false
	provider := &testhelpers.MarketProviderStub{MarketsFn: func(context.Context) ([]model.MarketTicker, error) {
		if fail {
			return nil, errors.New("upstream down")
		}
		return []model.MarketTicker{{Symbol: "ETHUSDT"}}, nil
	}}
	uc, now := newMarketFixture(provider)
	ctx := context.Background()

	if err := uc.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	fail = true
	if err := uc.Refresh(ctx); err == nil {
		t.Fatal("expected refresh error")
	}
	tickers, err := uc.Markets(ctx)
	if err != nil || len(tickers) != 1 {
		t.Fatalf("expected previous snapshot, got %+v %v", tickers, err)
	}

	*now = now.Add(time.Hour)
	if _, err := uc.Markets(ctx); err == nil {
		t.Fatal("expected live fetch error for stale snapshot")
	}
}

func TestMarketUseCasePriceAndHistory(t *testing.T) {
	var gotCoin string
	var gotDays int
	provider := &testhelpers.MarketProviderStub{
		PriceFn: func(_ context.Context, coin string) (decimal.Decimal, error) {
			gotCoin = coin
			return dec("64000.5"), nil
		},
		HistoryFn: func(_ context.Context, coin string, days int) ([]model.PricePoint, error) {
			gotCoin, gotDays = coin, days
			return nil, nil
		},
	}
	uc, _ := newMarketFixture(provider)
	ctx := context.Background()

	price, err := uc.Price(ctx, " Bitcoin ")
	if err != nil || !price.Equal(dec("64000.5")) || gotCoin != "bitcoin" {
		t.Fatalf("unexpected price %s coin %q err %v", price, gotCoin, err)
	}

	if _, err := uc.History(ctx, "ethereum", 0); err != nil {
		t.Fatalf("history: %v", err)
	}
	if gotDays != 30 {
		t.Fatalf("expected default 30 days, got %d", gotDays)
	}
	if _, err := uc.History(ctx, "ethereum", 7); err != nil || gotDays != 7 {
		t.Fatalf("expected 7 days, got %d err %v", gotDays, err)
	}

	if _, err := uc.Price(ctx, ""); !errors.Is(err, domainErrors.ErrCoinNotFound) {
		t.Fatalf("expected coin not found, got %v", err)
	}
	if _, err := uc.History(ctx, " ", 1); !errors.Is(err, domainErrors.ErrCoinNotFound) {
		t.Fatalf("expected coin not found, got %v", err)
	}
}
