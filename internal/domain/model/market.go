package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketTicker is a 24h market summary of one asset quoted in USDT.
type MarketTicker struct {
	Symbol        string
	BaseAsset     string
	QuoteAsset    string
	Price         decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
	Volume        decimal.Decimal
	High          decimal.Decimal
	Low           decimal.Decimal
	MarketCap     decimal.Decimal
}

// PricePoint is a single historical price sample.
type PricePoint struct {
	Time  time.Time
	Price decimal.Decimal
}
