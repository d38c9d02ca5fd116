package repository

import (
	"context"

	"github.com/polkiloo/ocexchange/internal/domain/model"
)

// TradeRepository reads executed trades.
type TradeRepository interface {
	ListByOwner(ctx context.Context, owner string) ([]model.Trade, error)
}
