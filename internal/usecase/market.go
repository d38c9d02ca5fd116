package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/ocexchange/internal/config"
	domainErrors "github.com/polkiloo/ocexchange/internal/domain/errors"
	"github.com/polkiloo/ocexchange/internal/domain/model"
)

const defaultHistoryDays = 30

// MarketDataProvider fetches public market data from an external price API.
type MarketDataProvider interface {
	Markets(ctx context.Context) ([]model.MarketTicker, error)
	CoinPrice(ctx context.Context, coin string) (decimal.Decimal, error)
	History(ctx context.Context, coin string, days int) ([]model.PricePoint, error)
}

// MarketUseCase serves market data, preferring the snapshot kept by the refresher.
type MarketUseCase struct {
	provider MarketDataProvider
	maxAge   time.Duration
	now      func() time.Time

	mu        sync.RWMutex
	snapshot  []model.MarketTicker
	fetchedAt time.Time
}

// NewMarketUseCase constructs MarketUseCase.
func NewMarketUseCase(provider MarketDataProvider, cfg *config.Config) *MarketUseCase {
	return &MarketUseCase{provider: provider, maxAge: cfg.MarketSnapshotMaxAge, now: time.Now}
}

// Refresh fetches the markets and replaces the snapshot.
func (u *MarketUseCase) Refresh(ctx context.Context) error {
	_, err := u.fetch(ctx)
	return err
}

// Markets returns the snapshot when it is fresh and fetches live data otherwise.
func (u *MarketUseCase) Markets(ctx context.Context) ([]model.MarketTicker, error) {
	if tickers, ok := u.cached(); ok {
		return tickers, nil
	}
	return u.fetch(ctx)
}

// Price returns the USD price of coin.
func (u *MarketUseCase) Price(ctx context.Context, coin string) (decimal.Decimal, error) {
	coin = normalizeCoin(coin)
	if coin == "" {
		return decimal.Zero, domainErrors.ErrCoinNotFound
	}
	return u.provider.CoinPrice(ctx, coin)
}

// History returns USD price points of coin over the last days, 30 when days is not positive.
func (u *MarketUseCase) History(ctx context.Context, coin string, days int) ([]model.PricePoint, error) {
	coin = normalizeCoin(coin)
	if coin == "" {
		return nil, domainErrors.ErrCoinNotFound
	}
	if days <= 0 {
		days = defaultHistoryDays
	}
	return u.provider.History(ctx, coin, days)
}

func (u *MarketUseCase) cached() ([]model.MarketTicker, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.snapshot == nil || u.now().Sub(u.fetchedAt) > u.maxAge {
		return nil, false
	}
	return u.snapshot, true
}

func (u *MarketUseCase) fetch(ctx context.Context) ([]model.MarketTicker, error) {
	tickers, err := u.provider.Markets(ctx)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	u.snapshot = tickers
	u.fetchedAt = u.now()
	u.mu.Unlock()
	return tickers, nil
}

func normalizeCoin(coin string) string {
	return strings.ToLower(strings.TrimSpace(coin))
}
