package badgerstore

import (
	"context"
	"slices"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/polkiloo/ocexchange/internal/domain/model"
)

type transactionRepository struct {
	storage *Storage
}

func (r *transactionRepository) Create(ctx context.Context, tx model.Transaction) error {
	return r.storage.update(ctx, func(txn *badger.Txn) error {
		return setJSON(txn, compositeKey(transactionsPrefix, tx.Owner, tx.ID), tx)
	})
}

func (r *transactionRepository) ListByOwner(ctx context.Context, owner string, limit int) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.storage.view(ctx, func(txn *badger.Txn) error {
		var err error
		txs, err = scanPrefix[model.Transaction](txn, ownerPrefix(transactionsPrefix, owner))
		return err
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(txs, func(a, b model.Transaction) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}
