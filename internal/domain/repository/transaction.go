package repository

import (
	"context"

	"github.com/polkiloo/ocexchange/internal/domain/model"
)

// TransactionRepository describes persistence operations for wallet transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx model.Transaction) error
	ListByOwner(ctx context.Context, owner string, limit int) ([]model.Transaction, error)
}
