package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ocexchange/internal/server/http/dto"
)

// MarketHandler exposes public market data.
type MarketHandler struct {
	facade MarketFacade
}

// NewMarketHandler constructs MarketHandler.
func NewMarketHandler(facade MarketFacade) *MarketHandler {
	return &MarketHandler{facade: facade}
}

// Markets handles GET /api/market.
func (h *MarketHandler) Markets(c *gin.Context) {
	tickers, err := h.facade.Markets(c.Request.Context())
	if err != nil {
		respondMarketError(c, err)
		return
	}

	resp := make([]dto.TickerResponse, 0, len(tickers))
	for _, t := range tickers {
		resp = append(resp, dto.TickerResponse{
			Symbol:        t.Symbol,
			BaseAsset:     t.BaseAsset,
			QuoteAsset:    t.QuoteAsset,
			Price:         t.Price,
			Change:        t.Change,
			ChangePercent: t.ChangePercent,
			Volume:        t.Volume,
			High:          t.High,
			Low:           t.Low,
			MarketCap:     t.MarketCap,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Price handles GET /api/market/:coin/price.
func (h *MarketHandler) Price(c *gin.Context) {
	coin := c.Param("coin")
	price, err := h.facade.CoinPrice(c.Request.Context(), coin)
	if err != nil {
		respondMarketError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PriceResponse{Coin: coin, Price: price})
}

// History handles GET /api/market/:coin/history?days=N.
func (h *MarketHandler) History(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			badRequest(c, errors.New("days must be a non-negative integer"))
			return
		}
		days = parsed
	}

	points, err := h.facade.PriceHistory(c.Request.Context(), c.Param("coin"), days)
	if err != nil {
		respondMarketError(c, err)
		return
	}

	resp := make([]dto.PricePointResponse, 0, len(points))
	for _, p := range points {
		resp = append(resp, dto.PricePointResponse{Time: p.Time, Price: p.Price})
	}
	c.JSON(http.StatusOK, resp)
}
