package repository

import (
	"context"
	"time"

	"github.com/polkiloo/ocexchange/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order model.Order) error
	ListByOwner(ctx context.Context, owner string) ([]model.Order, error)
	// Get returns an order of owner or errors.ErrNotFound.
	Get(ctx context.Context, owner, id string) (*model.Order, error)
	// Cancel moves an open order of owner to cancelled and returns it.
	// Any other case yields errors.ErrOrderNotCancellable.
	Cancel(ctx context.Context, owner, id string, at time.Time) (*model.Order, error)
}
