package postgres

import (
	"context"

	"github.com/polkiloo/ocexchange/internal/domain/model"
)

type tradeRepository struct {
	storage *Storage
}

func scanTrade(row scanner) (model.Trade, error) {
	var (
		t                         model.Trade
		amount, price, fee, total string
	)
	err := row.Scan(&t.ID, &t.Owner, &t.OrderID, &t.Symbol, &t.Side, &t.Type, &amount, &price, &fee, &total,
		&t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.Trade{}, err
	}

	if t.Amount, err = parseDecimal("amount", amount); err != nil {
		return model.Trade{}, err
	}
	if t.Price, err = parseDecimal("price", price); err != nil {
		return model.Trade{}, err
	}
	if t.Fee, err = parseDecimal("fee", fee); err != nil {
		return model.Trade{}, err
	}
	if t.Total, err = parseDecimal("total", total); err != nil {
		return model.Trade{}, err
	}
	return t, nil
}

func (r *tradeRepository) ListByOwner(ctx context.Context, owner string) ([]model.Trade, error) {
	const query = `SELECT id, owner, order_id, symbol, side, type, amount::text, price::text, fee::text, total::text,
                          status, created_at, updated_at
                   FROM trades WHERE owner=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTrade)
}
