package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/ocexchange/internal/domain/errors"
	"github.com/polkiloo/ocexchange/internal/domain/model"
	"github.com/polkiloo/ocexchange/internal/domain/repository"
)

const transactionHistoryLimit = 100

// RecordTransactionCommand describes a wallet transaction reported by an operator.
type RecordTransactionCommand struct {
	Owner       string                `validate:"required"`
	Type        model.TransactionType `validate:"oneof=deposit withdrawal trade transfer"`
	Asset       string                `validate:"required"`
	Amount      decimal.Decimal
	Status      model.TransactionStatus `validate:"oneof=pending completed failed cancelled"`
	TxHash      string
	FromAddress string
	ToAddress   string
	Fee         decimal.NullDecimal
}

func (c RecordTransactionCommand) validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrInvalidTransaction, err)
	}
	if !c.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", domainErrors.ErrInvalidTransaction)
	}
	if c.Fee.Valid && c.Fee.Decimal.IsNegative() {
		return fmt.Errorf("%w: fee must not be negative", domainErrors.ErrInvalidTransaction)
	}
	if !model.WithinScale(c.Amount) || (c.Fee.Valid && !model.WithinScale(c.Fee.Decimal)) {
		return fmt.Errorf("%w: at most %d decimal places", domainErrors.ErrInvalidTransaction, model.AmountScale)
	}
	return nil
}

// TransactionUseCase records wallet transactions and applies their ledger effect.
type TransactionUseCase struct {
	transactions repository.TransactionRepository
	ledger       *LedgerUseCase
	now          func() time.Time
}

// NewTransactionUseCase constructs TransactionUseCase.
func NewTransactionUseCase(transactions repository.TransactionRepository, ledger *LedgerUseCase) *TransactionUseCase {
	return &TransactionUseCase{transactions: transactions, ledger: ledger, now: time.Now}
}

// Record stores a transaction. Completed deposits and withdrawals move the wallet balance first;
// nothing is recorded when the ledger rejects the movement.
func (u *TransactionUseCase) Record(ctx context.Context, cmd RecordTransactionCommand) (*model.Transaction, error) {
	cmd.Owner = strings.TrimSpace(cmd.Owner)
	cmd.Asset = strings.ToUpper(strings.TrimSpace(cmd.Asset))
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	now := u.now().UTC()
	tx := model.Transaction{
		ID:          uuid.NewString(),
		Owner:       cmd.Owner,
		Type:        cmd.Type,
		Asset:       cmd.Asset,
		Amount:      cmd.Amount,
		Status:      cmd.Status,
		TxHash:      strings.TrimSpace(cmd.TxHash),
		FromAddress: strings.TrimSpace(cmd.FromAddress),
		ToAddress:   strings.TrimSpace(cmd.ToAddress),
		Fee:         cmd.Fee,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	op, affectsLedger := tx.LedgerEffect()
	if affectsLedger {
		if _, err := u.ledger.Mutate(ctx, tx.Owner, tx.Asset, tx.Amount, op); err != nil {
			return nil, err
		}
	}

	if err := u.transactions.Create(ctx, tx); err != nil {
		if affectsLedger {
			if _, revertErr := u.ledger.Mutate(ctx, tx.Owner, tx.Asset, tx.Amount, op.Inverse()); revertErr != nil {
				err = errors.Join(err, fmt.Errorf("revert balance: %w", revertErr))
			}
		}
		return nil, &domainErrors.StorageError{Op: "create transaction", Err: err}
	}

	return &tx, nil
}

// List returns the latest transactions of owner, newest first.
func (u *TransactionUseCase) List(ctx context.Context, owner string) ([]model.Transaction, error) {
	return u.transactions.ListByOwner(ctx, owner, transactionHistoryLimit)
}
