package marketdata

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/ocexchange/internal/config"
	domainErrors "github.com/polkiloo/ocexchange/internal/domain/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL+"/api/v3/", testLogger())
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestNewClientValidatesURL(t *testing.T) {
	_, err := NewClient("://bad-url", testLogger())
	assert.Error(t, err)
	_, err = NewClient("/relative", testLogger())
	assert.Error(t, err)
}

func TestMarkets(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/coins/markets", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "usd", q.Get("vs_currency"))
		assert.Equal(t, "market_cap_desc", q.Get("order"))
		assert.Equal(t, "100", q.Get("per_page"))
		assert.Equal(t, "24h", q.Get("price_change_percentage"))
		writeJSON(w, `[
			{"symbol":"btc","current_price":65000.5,"market_cap":1280000000000,"total_volume":31000000000,
			 "high_24h":66000,"low_24h":64000,"price_change_24h":-120.25,"price_change_percentage_24h":-0.18},
			{"symbol":"newcoin","current_price":0.002,"market_cap":null,"total_volume":null,
			 "high_24h":null,"low_24h":null,"price_change_24h":null,"price_change_percentage_24h":null}
		]`)
	})

	tickers, err := client.Markets(context.Background())
	require.NoError(t, err)
	require.Len(t, tickers, 2)

	btc := tickers[0]
	assert.Equal(t, "BTCUSDT", btc.Symbol)
	assert.Equal(t, "BTC", btc.BaseAsset)
	assert.Equal(t, "USDT", btc.QuoteAsset)
	assert.True(t, btc.Price.Equal(decimal.RequireFromString("65000.5")))
	assert.True(t, btc.Change.Equal(decimal.RequireFromString("-120.25")))
	assert.True(t, btc.High.Equal(decimal.NewFromInt(66000)))
	assert.True(t, btc.Low.Equal(decimal.NewFromInt(64000)))

	fresh := tickers[1]
	assert.Equal(t, "NEWCOINUSDT", fresh.Symbol)
	assert.True(t, fresh.High.Equal(fresh.Price), "missing high falls back to price")
	assert.True(t, fresh.Low.Equal(fresh.Price), "missing low falls back to price")
	assert.True(t, fresh.Volume.IsZero())
	assert.True(t, fresh.MarketCap.IsZero())
}

func TestCoinPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/simple/price", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		switch r.URL.Query().Get("ids") {
		case "bitcoin":
			writeJSON(w, `{"bitcoin":{"usd":64123.12}}`)
		default:
			writeJSON(w, `{}`)
		}
	})

	price, err := client.CoinPrice(context.Background(), "bitcoin")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("64123.12")))

	_, err = client.CoinPrice(context.Background(), "unknown-coin")
	assert.ErrorIs(t, err, domainErrors.ErrCoinNotFound)
}

func TestHistory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/coins/ethereum/market_chart", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("days"))
		writeJSON(w, `{"prices":[[1714564800000,3010.5],[1714568400000,3021.75]],"market_caps":[],"total_volumes":[]}`)
	})

	points, err := client.History(context.Background(), "ethereum", 7)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, time.UnixMilli(1714564800000).UTC(), points[0].Time)
	assert.True(t, points[1].Price.Equal(decimal.RequireFromString("3021.75")))
}

func TestStatusHandling(t *testing.T) {
	cases := []struct {
		name   string
		status int
		header string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			header: "3",
			check: func(t *testing.T, err error) {
				var tooMany TooManyRequestsError
				require.True(t, errors.As(err, &tooMany))
				assert.Equal(t, 3*time.Second, tooMany.RetryAfter)
			},
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domainErrors.ErrCoinNotFound)
			},
		},
		{
			name:   "server error",
			status: http.StatusBadGateway,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnexpectedStatus)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tc.header != "" {
					w.Header().Set("Retry-After", tc.header)
				}
				w.WriteHeader(tc.status)
			})
			_, err := client.History(context.Background(), "bitcoin", 1)
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client, err := NewClient(srv.URL, testLogger())
	require.NoError(t, err)
	_, err = client.Markets(context.Background())
	assert.Error(t, err)
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, defaultRetryAfter, parseRetryAfter(""))
	assert.Equal(t, 7*time.Second, parseRetryAfter("7"))
	assert.Equal(t, defaultRetryAfter, parseRetryAfter("soon"))

	future := time.Now().Add(30 * time.Second).UTC().Format(http.TimeFormat)
	got := parseRetryAfter(future)
	assert.Greater(t, got, 20*time.Second)
	assert.LessOrEqual(t, got, 30*time.Second)
}

func TestModuleProvidesClient(t *testing.T) {
	var client *Client
	app := fxtest.New(t,
		fx.Supply(&config.Config{MarketDataURL: "https://api.coingecko.com/api/v3"}),
		fx.Provide(testLogger),
		Module,
		fx.Populate(&client),
	)
	app.RequireStart()
	defer app.RequireStop()
	assert.NotNil(t, client)
}
