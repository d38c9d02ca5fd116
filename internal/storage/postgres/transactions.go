package postgres

import (
	"context"

	"github.com/polkiloo/ocexchange/internal/domain/model"
)

type transactionRepository struct {
	storage *Storage
}

func scanTransaction(row scanner) (model.Transaction, error) {
	var (
		t      model.Transaction
		amount string
		fee    *string
	)
	err := row.Scan(&t.ID, &t.Owner, &t.Type, &t.Asset, &amount, &t.Status, &t.TxHash, &t.FromAddress, &t.ToAddress,
		&fee, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.Transaction{}, err
	}

	if t.Amount, err = parseDecimal("amount", amount); err != nil {
		return model.Transaction{}, err
	}
	if t.Fee, err = parseNullDecimal("fee", fee); err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

func (r *transactionRepository) Create(ctx context.Context, tx model.Transaction) error {
	const query = `INSERT INTO transactions (id, owner, type, asset, amount, status, tx_hash, from_address, to_address,
                       fee, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.storage.pool.Exec(ctx, query, tx.ID, tx.Owner, tx.Type, tx.Asset, tx.Amount.String(), tx.Status,
		tx.TxHash, tx.FromAddress, tx.ToAddress, nullDecimalArg(tx.Fee), tx.CreatedAt, tx.UpdatedAt)
	return err
}

func (r *transactionRepository) ListByOwner(ctx context.Context, owner string, limit int) ([]model.Transaction, error) {
	const query = `SELECT id, owner, type, asset, amount::text, status, tx_hash, from_address, to_address, fee::text,
                          created_at, updated_at
                   FROM transactions WHERE owner=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.storage.pool.Query(ctx, query, owner, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTransaction)
}
