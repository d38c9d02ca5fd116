package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ocexchange/internal/domain/model"
	"github.com/polkiloo/ocexchange/internal/server/http/dto"
)

// BalanceHandler manages wallet endpoints.
type BalanceHandler struct {
	facade BalanceFacade
}

// NewBalanceHandler constructs BalanceHandler.
func NewBalanceHandler(facade BalanceFacade) *BalanceHandler {
	return &BalanceHandler{facade: facade}
}

// List handles GET /api/user/balances.
func (h *BalanceHandler) List(c *gin.Context) {
	balances, err := h.facade.Balances(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(balances) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		resp = append(resp, toBalanceResponse(b))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/user/balances/:asset.
func (h *BalanceHandler) Get(c *gin.Context) {
	asset := strings.ToUpper(strings.TrimSpace(c.Param("asset")))
	balance, err := h.facade.Balance(c.Request.Context(), CurrentUserID(c), asset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBalanceResponse(*balance))
}

func toBalanceResponse(b model.Balance) dto.BalanceResponse {
	return dto.BalanceResponse{
		Asset:     b.Asset,
		Total:     b.Total,
		Available: b.Available,
		Locked:    b.Locked,
		UpdatedAt: b.UpdatedAt,
	}
}
