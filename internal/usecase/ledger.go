package usecase

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/ocexchange/internal/config"
	domainErrors "github.com/polkiloo/ocexchange/internal/domain/errors"
	"github.com/polkiloo/ocexchange/internal/domain/model"
	"github.com/polkiloo/ocexchange/internal/domain/repository"
)

// LedgerUseCase is the only writer of wallet balances.
type LedgerUseCase struct {
	balances   repository.BalanceRepository
	maxRetries int
	backoff    func(attempt int) time.Duration
	now        func() time.Time
}

// NewLedgerUseCase constructs LedgerUseCase.
func NewLedgerUseCase(balances repository.BalanceRepository, cfg *config.Config) *LedgerUseCase {
	return &LedgerUseCase{
		balances:   balances,
		maxRetries: cfg.LedgerMaxRetries,
		backoff:    conflictBackoff,
		now:        time.Now,
	}
}

const conflictBackoffBase = 5 * time.Millisecond

// conflictBackoff grows linearly with the attempt, jittered by up to one base step.
func conflictBackoff(attempt int) time.Duration {
	base := conflictBackoffBase * time.Duration(attempt+1)
	return base/2 + rand.N(base)
}

// Mutate applies op with amount to the balance of owner in asset and returns the persisted record.
// The record is created on the first successful mutation and left untouched on any failure.
func (u *LedgerUseCase) Mutate(ctx context.Context, owner, asset string, amount decimal.Decimal, op model.BalanceOperation) (*model.Balance, error) {
	if !validKeyPart(owner) || !validKeyPart(asset) {
		return nil, domainErrors.ErrInvalidBalanceKey
	}
	if !amount.IsPositive() || !model.WithinScale(amount) {
		return nil, domainErrors.ErrInvalidAmount
	}
	if !op.Valid() {
		return nil, domainErrors.ErrInvalidOperation
	}

	apply := func(balance *model.Balance) error {
		return balance.Apply(op, amount, u.now().UTC().Truncate(time.Microsecond))
	}

	for attempt := 0; ; attempt++ {
		balance, err := u.balances.Mutate(ctx, owner, asset, apply)
		if err == nil {
			return balance, nil
		}
		if isLedgerRejection(err) {
			return nil, err
		}
		if errors.Is(err, domainErrors.ErrConflict) && attempt < u.maxRetries {
			if waitErr := sleepContext(ctx, u.backoff(attempt)); waitErr != nil {
				return nil, &domainErrors.StorageError{Op: "mutate balance", Err: errors.Join(err, waitErr)}
			}
			continue
		}
		return nil, &domainErrors.StorageError{Op: "mutate balance", Err: err}
	}
}

// Balances returns every balance record of owner ordered by asset.
func (u *LedgerUseCase) Balances(ctx context.Context, owner string) ([]model.Balance, error) {
	if !validKeyPart(owner) {
		return nil, domainErrors.ErrInvalidBalanceKey
	}
	balances, err := u.balances.ListByOwner(ctx, owner)
	if err != nil {
		return nil, &domainErrors.StorageError{Op: "list balances", Err: err}
	}
	return balances, nil
}

// Balance returns a single balance record or ErrNotFound when the pair was never mutated.
func (u *LedgerUseCase) Balance(ctx context.Context, owner, asset string) (*model.Balance, error) {
	if !validKeyPart(owner) || !validKeyPart(asset) {
		return nil, domainErrors.ErrInvalidBalanceKey
	}
	balance, err := u.balances.Get(ctx, owner, asset)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, &domainErrors.StorageError{Op: "get balance", Err: err}
	}
	return balance, nil
}

// validKeyPart rejects blank parts and NUL bytes, which stores use as key separators.
func validKeyPart(s string) bool {
	return strings.TrimSpace(s) != "" && !strings.ContainsRune(s, 0)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isLedgerRejection(err error) bool {
	return errors.Is(err, domainErrors.ErrInsufficientAvailableBalance) ||
		errors.Is(err, domainErrors.ErrInsufficientLockedBalance) ||
		errors.Is(err, domainErrors.ErrInvalidAmount) ||
		errors.Is(err, domainErrors.ErrInvalidOperation) ||
		errors.Is(err, domainErrors.ErrBalanceInvariant)
}
