package usecase

import (
	"context"

	"github.com/polkiloo/ocexchange/internal/domain/model"
	"github.com/polkiloo/ocexchange/internal/domain/repository"
)

// TradeUseCase reads trades written by the matcher.
type TradeUseCase struct {
	trades repository.TradeRepository
}

// NewTradeUseCase constructs TradeUseCase.
func NewTradeUseCase(trades repository.TradeRepository) *TradeUseCase {
	return &TradeUseCase{trades: trades}
}

// List returns trades of owner, newest first.
func (u *TradeUseCase) List(ctx context.Context, owner string) ([]model.Trade, error) {
	return u.trades.ListByOwner(ctx, owner)
}
