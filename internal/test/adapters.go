package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/ocexchange/internal/domain/model"
)

// MailCall records a single email delivery.
type MailCall struct {
	To    string
	Value string
}

// MailerStub records sent emails.
type MailerStub struct {
	WelcomeErr      error
	VerificationErr error

	mu           sync.Mutex
	Welcomes     []MailCall
	Verification []MailCall
}

// SendWelcome records the welcome email.
func (s *MailerStub) SendWelcome(ctx context.Context, to, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Welcomes = append(s.Welcomes, MailCall{To: to, Value: name})
	return s.WelcomeErr
}

// SendVerificationCode records the verification email.
func (s *MailerStub) SendVerificationCode(ctx context.Context, to, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Verification = append(s.Verification, MailCall{To: to, Value: code})
	return s.VerificationErr
}

// WelcomeCount returns the number of welcome emails sent so far.
func (s *MailerStub) WelcomeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Welcomes)
}

// MarketProviderStub serves canned market data and counts calls.
type MarketProviderStub struct {
	MarketsFn func(context.Context) ([]model.MarketTicker, error)
	PriceFn   func(context.Context, string) (decimal.Decimal, error)
	HistoryFn func(context.Context, string, int) ([]model.PricePoint, error)

	mu          sync.Mutex
	MarketCalls int
}

// Markets returns configured tickers.
func (s *MarketProviderStub) Markets(ctx context.Context) ([]model.MarketTicker, error) {
	s.mu.Lock()
	s.MarketCalls++
	s.mu.Unlock()
	if s.MarketsFn != nil {
		return s.MarketsFn(ctx)
	}
	return []model.MarketTicker{{Symbol: "BTCUSDT", BaseAsset: "BTC", QuoteAsset: "USDT", Price: decimal.NewFromInt(65000)}}, nil
}

// Calls returns the number of Markets invocations.
func (s *MarketProviderStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.MarketCalls
}

// CoinPrice returns configured price.
func (s *MarketProviderStub) CoinPrice(ctx context.Context, coin string) (decimal.Decimal, error) {
	if s.PriceFn != nil {
		return s.PriceFn(ctx, coin)
	}
	return decimal.NewFromInt(1), nil
}

// History returns configured points.
func (s *MarketProviderStub) History(ctx context.Context, coin string, days int) ([]model.PricePoint, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, coin, days)
	}
	return []model.PricePoint{{Time: time.Unix(0, 0).UTC(), Price: decimal.NewFromInt(1)}}, nil
}
