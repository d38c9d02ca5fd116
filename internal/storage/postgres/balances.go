package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/ocexchange/internal/domain/errors"
	"github.com/polkiloo/ocexchange/internal/domain/model"
	"github.com/polkiloo/ocexchange/internal/domain/repository"
)

type balanceRepository struct {
	storage *Storage
}

const (
	selectBalance = `SELECT owner, asset, total::text, available::text, locked::text, updated_at
                     FROM wallet_balances WHERE owner=$1 AND asset=$2`
	selectBalanceForUpdate = selectBalance + ` FOR UPDATE`
	insertEmptyBalance     = `INSERT INTO wallet_balances (owner, asset) VALUES ($1, $2)
                              ON CONFLICT (owner, asset) DO NOTHING`
	upsertBalance = `INSERT INTO wallet_balances (owner, asset, total, available, locked, updated_at)
                     VALUES ($1, $2, $3, $4, $5, $6)
                     ON CONFLICT (owner, asset) DO UPDATE
                     SET total = EXCLUDED.total,
                         available = EXCLUDED.available,
                         locked = EXCLUDED.locked,
                         updated_at = EXCLUDED.updated_at
                     RETURNING owner, asset, total::text, available::text, locked::text, updated_at`
)

func scanBalance(row scanner) (model.Balance, error) {
	var (
		b                        model.Balance
		total, available, locked string
	)
	if err := row.Scan(&b.Owner, &b.Asset, &total, &available, &locked, &b.UpdatedAt); err != nil {
		return model.Balance{}, err
	}

	var err error
	if b.Total, err = parseDecimal("total", total); err != nil {
		return model.Balance{}, err
	}
	if b.Available, err = parseDecimal("available", available); err != nil {
		return model.Balance{}, err
	}
	if b.Locked, err = parseDecimal("locked", locked); err != nil {
		return model.Balance{}, err
	}
	return b, nil
}

func (r *balanceRepository) Get(ctx context.Context, owner, asset string) (*model.Balance, error) {
	b, err := scanBalance(r.storage.pool.QueryRow(ctx, selectBalance, owner, asset))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *balanceRepository) ListByOwner(ctx context.Context, owner string) ([]model.Balance, error) {
	const query = `SELECT owner, asset, total::text, available::text, locked::text, updated_at
                   FROM wallet_balances WHERE owner=$1 ORDER BY asset`
	rows, err := r.storage.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanBalance)
}

// Mutate locks the row of (owner, asset) for the duration of the transaction. An absent row is
// inserted empty first so that concurrent first mutations queue on the same lock; the insert is
// rolled back together with everything else when fn fails. The returned record is the row as
// stored, with timestamps at the microsecond precision of TIMESTAMPTZ.
func (r *balanceRepository) Mutate(ctx context.Context, owner, asset string, fn repository.BalanceMutation) (*model.Balance, error) {
	var result model.Balance
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		balance, err := lockBalance(ctx, tx, owner, asset)
		if err != nil {
			return err
		}
		if err := fn(&balance); err != nil {
			return err
		}
		stored, err := scanBalance(tx.QueryRow(ctx, upsertBalance, owner, asset,
			balance.Total.String(), balance.Available.String(), balance.Locked.String(),
			balance.UpdatedAt.Truncate(time.Microsecond)))
		if err != nil {
			return err
		}
		result = stored
		return nil
	})
	if err != nil {
		return nil, translateTxError(err)
	}
	return &result, nil
}

func lockBalance(ctx context.Context, tx pgx.Tx, owner, asset string) (model.Balance, error) {
	balance, err := scanBalance(tx.QueryRow(ctx, selectBalanceForUpdate, owner, asset))
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Balance{}, err
	}

	if _, err := tx.Exec(ctx, insertEmptyBalance, owner, asset); err != nil {
		return model.Balance{}, err
	}
	return scanBalance(tx.QueryRow(ctx, selectBalanceForUpdate, owner, asset))
}
