package repository

import (
	"context"

	"github.com/polkiloo/ocexchange/internal/domain/model"
)

// BalanceMutation changes a balance in place. Returning an error aborts the surrounding transaction.
type BalanceMutation func(balance *model.Balance) error

// BalanceRepository persists wallet balances keyed by owner and asset.
type BalanceRepository interface {
	Get(ctx context.Context, owner, asset string) (*model.Balance, error)
	ListByOwner(ctx context.Context, owner string) ([]model.Balance, error)
	// Mutate runs fn against the current record of (owner, asset), or a zero record when absent,
	// inside a single transaction and persists the result only when fn succeeds.
	// Conflicting concurrent transactions surface as errors.ErrConflict.
	Mutate(ctx context.Context, owner, asset string, fn BalanceMutation) (*model.Balance, error)
}
