package badgerstore

import (
	"context"
	"errors"
	"slices"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	domainErrors "github.com/polkiloo/ocexchange/internal/domain/errors"
	"github.com/polkiloo/ocexchange/internal/domain/model"
)

type orderRepository struct {
	storage *Storage
}

func (r *orderRepository) Create(ctx context.Context, order model.Order) error {
	return r.storage.update(ctx, func(txn *badger.Txn) error {
		return setJSON(txn, compositeKey(ordersPrefix, order.Owner, order.ID), order)
	})
}

func (r *orderRepository) ListByOwner(ctx context.Context, owner string) ([]model.Order, error) {
	var orders []model.Order
	err := r.storage.view(ctx, func(txn *badger.Txn) error {
		var err error
		orders, err = scanPrefix[model.Order](txn, ownerPrefix(ordersPrefix, owner))
		return err
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(orders, func(a, b model.Order) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return orders, nil
}

func (r *orderRepository) Get(ctx context.Context, owner, id string) (*model.Order, error) {
	var order model.Order
	err := r.storage.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, compositeKey(ordersPrefix, owner, id), &order)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Cancel(ctx context.Context, owner, id string, at time.Time) (*model.Order, error) {
	key := compositeKey(ordersPrefix, owner, id)

	var order model.Order
	err := r.storage.update(ctx, func(txn *badger.Txn) error {
		if err := getJSON(txn, key, &order); err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return domainErrors.ErrOrderNotCancellable
			}
			return err
		}
		if order.Status != model.OrderStatusOpen {
			return domainErrors.ErrOrderNotCancellable
		}
		order.Status = model.OrderStatusCancelled
		order.UpdatedAt = at
		return setJSON(txn, key, order)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
