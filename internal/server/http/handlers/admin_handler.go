package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ocexchange/internal/domain/model"
	"github.com/polkiloo/ocexchange/internal/server/http/dto"
	"github.com/polkiloo/ocexchange/internal/usecase"
)

// AdminHandler serves operator endpoints guarded by the admin token.
type AdminHandler struct {
	facade AdminFacade
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(facade AdminFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// MutateBalance handles POST /api/admin/balances.
func (h *AdminHandler) MutateBalance(c *gin.Context) {
	var req dto.MutateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	asset := strings.ToUpper(strings.TrimSpace(req.Asset))
	balance, err := h.facade.MutateBalance(c.Request.Context(), req.Owner, asset, req.Amount, model.BalanceOperation(req.Operation))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBalanceResponse(*balance))
}

// RecordTransaction handles POST /api/admin/transactions.
func (h *AdminHandler) RecordTransaction(c *gin.Context) {
	var req dto.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	tx, err := h.facade.RecordTransaction(c.Request.Context(), usecase.RecordTransactionCommand{
		Owner:       req.Owner,
		Type:        model.TransactionType(req.Type),
		Asset:       req.Asset,
		Amount:      req.Amount,
		Status:      model.TransactionStatus(req.Status),
		TxHash:      req.TxHash,
		FromAddress: req.FromAddress,
		ToAddress:   req.ToAddress,
		Fee:         req.Fee,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTransactionResponse(*tx))
}
