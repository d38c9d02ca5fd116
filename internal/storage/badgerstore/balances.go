package badgerstore

import (
	"context"
	"errors"

	badger "github.com/dgraph-io/badger/v4"

	domainErrors "github.com/polkiloo/ocexchange/internal/domain/errors"
	"github.com/polkiloo/ocexchange/internal/domain/model"
	"github.com/polkiloo/ocexchange/internal/domain/repository"
)

type balanceRepository struct {
	storage *Storage
}

func (r *balanceRepository) Get(ctx context.Context, owner, asset string) (*model.Balance, error) {
	var balance model.Balance
	err := r.storage.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, compositeKey(balancesPrefix, owner, asset), &balance)
	})
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// ListByOwner returns balances ordered by asset, which is the key order within the owner prefix.
func (r *balanceRepository) ListByOwner(ctx context.Context, owner string) ([]model.Balance, error) {
	var balances []model.Balance
	err := r.storage.view(ctx, func(txn *badger.Txn) error {
		var err error
		balances, err = scanPrefix[model.Balance](txn, ownerPrefix(balancesPrefix, owner))
		return err
	})
	if err != nil {
		return nil, err
	}
	return balances, nil
}

// Mutate reads the key inside the write transaction, so a concurrent commit to the same
// key makes this commit fail with a conflict. Absent keys are tracked the same way.
// Writers of the same key in this process wait for each other instead of conflicting.
func (r *balanceRepository) Mutate(ctx context.Context, owner, asset string, fn repository.BalanceMutation) (*model.Balance, error) {
	key := compositeKey(balancesPrefix, owner, asset)
	unlock := r.storage.balances.lock(string(key))
	defer unlock()

	var result model.Balance
	err := r.storage.update(ctx, func(txn *badger.Txn) error {
		balance := *model.NewBalance(owner, asset)
		if err := getJSON(txn, key, &balance); err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
			return err
		}
		if err := fn(&balance); err != nil {
			return err
		}
		if err := setJSON(txn, key, balance); err != nil {
			return err
		}
		result = balance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
