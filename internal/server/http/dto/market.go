package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TickerResponse is a 24h market summary.
type TickerResponse struct {
	Symbol        string          `json:"symbol"`
	BaseAsset     string          `json:"base_asset"`
	QuoteAsset    string          `json:"quote_asset"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Volume        decimal.Decimal `json:"volume"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	MarketCap     decimal.Decimal `json:"market_cap"`
}

// PriceResponse is the current USD price of a coin.
type PriceResponse struct {
	Coin  string          `json:"coin"`
	Price decimal.Decimal `json:"price"`
}

// PricePointResponse is a historical price sample.
type PricePointResponse struct {
	Time  time.Time       `json:"time"`
	Price decimal.Decimal `json:"price"`
}
