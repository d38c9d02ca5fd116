package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/ocexchange/internal/domain/errors"
	"github.com/polkiloo/ocexchange/internal/domain/model"
)

type orderRepository struct {
	storage *Storage
}

const orderColumns = `id, owner, symbol, side, type, amount::text, price::text, stop_price::text, status,
                      filled_amount::text, remaining_amount::text, created_at, updated_at`

func scanOrder(row scanner) (model.Order, error) {
	var (
		o                                model.Order
		amount, price, filled, remaining string
		stopPrice                        *string
	)
	err := row.Scan(&o.ID, &o.Owner, &o.Symbol, &o.Side, &o.Type, &amount, &price, &stopPrice, &o.Status,
		&filled, &remaining, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return model.Order{}, err
	}

	if o.Amount, err = parseDecimal("amount", amount); err != nil {
		return model.Order{}, err
	}
	if o.Price, err = parseDecimal("price", price); err != nil {
		return model.Order{}, err
	}
	if o.StopPrice, err = parseNullDecimal("stop_price", stopPrice); err != nil {
		return model.Order{}, err
	}
	if o.FilledAmount, err = parseDecimal("filled_amount", filled); err != nil {
		return model.Order{}, err
	}
	if o.RemainingAmount, err = parseDecimal("remaining_amount", remaining); err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *orderRepository) Create(ctx context.Context, order model.Order) error {
	const query = `INSERT INTO orders (id, owner, symbol, side, type, amount, price, stop_price, status,
                       filled_amount, remaining_amount, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.storage.pool.Exec(ctx, query, order.ID, order.Owner, order.Symbol, order.Side, order.Type,
		order.Amount.String(), order.Price.String(), nullDecimalArg(order.StopPrice), order.Status,
		order.FilledAmount.String(), order.RemainingAmount.String(), order.CreatedAt, order.UpdatedAt)
	return err
}

func (r *orderRepository) ListByOwner(ctx context.Context, owner string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE owner=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanOrder)
}

func (r *orderRepository) Get(ctx context.Context, owner, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1 AND owner=$2`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id, owner))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Cancel(ctx context.Context, owner, id string, at time.Time) (*model.Order, error) {
	query := `UPDATE orders SET status=$4, updated_at=$5
              WHERE id=$1 AND owner=$2 AND status=$3
              RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id, owner,
		model.OrderStatusOpen, model.OrderStatusCancelled, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotCancellable
		}
		return nil, err
	}
	return &order, nil
}
