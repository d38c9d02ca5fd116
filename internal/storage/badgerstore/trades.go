package badgerstore

import (
	"context"
	"slices"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/polkiloo/ocexchange/internal/domain/model"
)

type tradeRepository struct {
	storage *Storage
}

func (r *tradeRepository) ListByOwner(ctx context.Context, owner string) ([]model.Trade, error) {
	var trades []model.Trade
	err := r.storage.view(ctx, func(txn *badger.Txn) error {
		var err error
		trades, err = scanPrefix[model.Trade](txn, ownerPrefix(tradesPrefix, owner))
		return err
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(trades, func(a, b model.Trade) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return trades, nil
}

// SaveTrade stores a fill reported by the matching engine.
func (s *Storage) SaveTrade(ctx context.Context, trade model.Trade) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		return setJSON(txn, compositeKey(tradesPrefix, trade.Owner, trade.ID), trade)
	})
}
