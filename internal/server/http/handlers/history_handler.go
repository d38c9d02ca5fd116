package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ocexchange/internal/domain/model"
	"github.com/polkiloo/ocexchange/internal/server/http/dto"
)

type historyFacade interface {
	TradeFacade
	TransactionFacade
}

// HistoryHandler serves trade and transaction history.
type HistoryHandler struct {
	facade historyFacade
}

func NewHistoryHandler(facade historyFacade) *HistoryHandler {
	return &HistoryHandler{facade: facade}
}

// Trades handles GET /api/user/trades.
func (h *HistoryHandler) Trades(c *gin.Context) {
	trades, err := h.facade.Trades(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(trades) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.TradeResponse, 0, len(trades))
	for _, t := range trades {
		resp = append(resp, dto.TradeResponse{
			ID:        t.ID,
			OrderID:   t.OrderID,
			Symbol:    t.Symbol,
			Side:      string(t.Side),
			Type:      string(t.Type),
			Amount:    t.Amount,
			Price:     t.Price,
			Fee:       t.Fee,
			Total:     t.Total,
			Status:    string(t.Status),
			CreatedAt: t.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Transactions handles GET /api/user/transactions.
func (h *HistoryHandler) Transactions(c *gin.Context) {
	txs, err := h.facade.Transactions(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(txs) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		resp = append(resp, toTransactionResponse(tx))
	}
	c.JSON(http.StatusOK, resp)
}

func toTransactionResponse(tx model.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Asset:       tx.Asset,
		Amount:      tx.Amount,
		Status:      string(tx.Status),
		TxHash:      tx.TxHash,
		FromAddress: tx.FromAddress,
		ToAddress:   tx.ToAddress,
		Fee:         tx.Fee,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}
