// Package marketdata fetches public market data from the CoinGecko v3 REST API.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/ocexchange/internal/domain/errors"
	"github.com/polkiloo/ocexchange/internal/domain/model"
)

const (
	quoteAsset        = "USDT"
	defaultRetryAfter = 5 * time.Second
)

// ErrUnexpectedStatus wraps non-success answers of the market data API.
var ErrUnexpectedStatus = errors.New("market data request failed")

// TooManyRequestsError represents rate limiting signal from the market data API.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client queries CoinGecko through resty.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

type coinMarket struct {
	Symbol                   string              `json:"symbol"`
	CurrentPrice             decimal.Decimal     `json:"current_price"`
	MarketCap                decimal.NullDecimal `json:"market_cap"`
	TotalVolume              decimal.NullDecimal `json:"total_volume"`
	High24h                  decimal.NullDecimal `json:"high_24h"`
	Low24h                   decimal.NullDecimal `json:"low_24h"`
	PriceChange24h           decimal.NullDecimal `json:"price_change_24h"`
	PriceChangePercentage24h decimal.NullDecimal `json:"price_change_percentage_24h"`
}

type marketChart struct {
	Prices [][2]decimal.Decimal `json:"prices"`
}

// NewClient creates market data client for baseURL, e.g. https://api.coingecko.com/api/v3.
func NewClient(baseURL string, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse market data url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("market data url must be absolute")
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(parsed.String(), "/")).
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient, logger: logger}, nil
}

// Markets returns the top 100 coins by market cap as USDT tickers.
func (c *Client) Markets(ctx context.Context) ([]model.MarketTicker, error) {
	var coins []coinMarket
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"vs_currency":             "usd",
			"order":                   "market_cap_desc",
			"per_page":                "100",
			"page":                    "1",
			"sparkline":               "false",
			"price_change_percentage": "24h",
		}).
		SetResult(&coins).
		Get("/coins/markets")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}

	tickers := make([]model.MarketTicker, 0, len(coins))
	for _, coin := range coins {
		tickers = append(tickers, toTicker(coin))
	}
	return tickers, nil
}

// CoinPrice returns the USD price of coin, e.g. "bitcoin".
func (c *Client) CoinPrice(ctx context.Context, coin string) (decimal.Decimal, error) {
	var prices map[string]map[string]decimal.NullDecimal
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"ids": coin, "vs_currencies": "usd"}).
		SetResult(&prices).
		Get("/simple/price")
	if err := c.check(resp, err); err != nil {
		return decimal.Zero, err
	}

	price, ok := prices[coin]["usd"]
	if !ok || !price.Valid || price.Decimal.IsZero() {
		return decimal.Zero, domainErrors.ErrCoinNotFound
	}
	return price.Decimal, nil
}

// History returns USD price samples of coin over the last days.
func (c *Client) History(ctx context.Context, coin string, days int) ([]model.PricePoint, error) {
	var chart marketChart
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("coin", coin).
		SetQueryParams(map[string]string{"vs_currency": "usd", "days": strconv.Itoa(days)}).
		SetResult(&chart).
		Get("/coins/{coin}/market_chart")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}

	points := make([]model.PricePoint, 0, len(chart.Prices))
	for _, sample := range chart.Prices {
		points = append(points, model.PricePoint{
			Time:  time.UnixMilli(sample[0].IntPart()).UTC(),
			Price: sample[1],
		})
	}
	return points, nil
}

func (c *Client) check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("market data request: %w", err)
	}

	switch {
	case resp.IsSuccess():
		return nil
	case resp.StatusCode() == http.StatusTooManyRequests:
		return TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header().Get("Retry-After"))}
	case resp.StatusCode() == http.StatusNotFound:
		return domainErrors.ErrCoinNotFound
	default:
		c.logger.Error("market data request failed",
			slog.String("url", resp.Request.URL),
			slog.Int("status", resp.StatusCode()),
			slog.String("body", resp.String()),
		)
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status())
	}
}

func toTicker(coin coinMarket) model.MarketTicker {
	base := strings.ToUpper(coin.Symbol)
	return model.MarketTicker{
		Symbol:        base + quoteAsset,
		BaseAsset:     base,
		QuoteAsset:    quoteAsset,
		Price:         coin.CurrentPrice,
		Change:        orZero(coin.PriceChange24h),
		ChangePercent: orZero(coin.PriceChangePercentage24h),
		Volume:        orZero(coin.TotalVolume),
		High:          orDefault(coin.High24h, coin.CurrentPrice),
		Low:           orDefault(coin.Low24h, coin.CurrentPrice),
		MarketCap:     orZero(coin.MarketCap),
	}
}

func orZero(v decimal.NullDecimal) decimal.Decimal {
	return orDefault(v, decimal.Zero)
}

func orDefault(v decimal.NullDecimal, def decimal.Decimal) decimal.Decimal {
	if !v.Valid || v.Decimal.IsZero() {
		return def
	}
	return v.Decimal
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return defaultRetryAfter
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return defaultRetryAfter
}
