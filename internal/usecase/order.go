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

// PlaceOrderCommand carries the user supplied part of a new order.
type PlaceOrderCommand struct {
	Symbol    string          `validate:"required"`
	Side      model.OrderSide `validate:"oneof=buy sell"`
	Type      model.OrderType `validate:"oneof=market limit stop-limit"`
	Amount    decimal.Decimal
	Price     decimal.Decimal
	StopPrice decimal.NullDecimal
}

func (c PlaceOrderCommand) validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrInvalidOrder, err)
	}
	if _, _, ok := model.SplitSymbol(c.Symbol); !ok {
		return fmt.Errorf("%w: unknown symbol %q", domainErrors.ErrInvalidOrder, c.Symbol)
	}
	if !c.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", domainErrors.ErrInvalidOrder)
	}
	if !c.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", domainErrors.ErrInvalidOrder)
	}
	if !model.WithinScale(c.Amount) || !model.WithinScale(c.Price) ||
		(c.StopPrice.Valid && !model.WithinScale(c.StopPrice.Decimal)) {
		return fmt.Errorf("%w: at most %d decimal places", domainErrors.ErrInvalidOrder, model.AmountScale)
	}
	if c.Type == model.OrderTypeStopLimit && !c.StopPrice.Valid {
		return fmt.Errorf("%w: stop price is required", domainErrors.ErrInvalidOrder)
	}
	if c.StopPrice.Valid && !c.StopPrice.Decimal.IsPositive() {
		return fmt.Errorf("%w: stop price must be positive", domainErrors.ErrInvalidOrder)
	}
	return nil
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders repository.OrderRepository
	ledger *LedgerUseCase
	now    func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, ledger *LedgerUseCase) *OrderUseCase {
	return &OrderUseCase{orders: orders, ledger: ledger, now: time.Now}
}

// Place reserves funds for the order and stores it as open.
func (u *OrderUseCase) Place(ctx context.Context, owner string, cmd PlaceOrderCommand) (*model.Order, error) {
	cmd.Symbol = strings.ToUpper(strings.TrimSpace(cmd.Symbol))
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	now := u.now().UTC()
	order := model.Order{
		ID:              uuid.NewString(),
		Owner:           owner,
		Symbol:          cmd.Symbol,
		Side:            cmd.Side,
		Type:            cmd.Type,
		Amount:          cmd.Amount,
		Price:           cmd.Price,
		StopPrice:       cmd.StopPrice,
		Status:          model.OrderStatusOpen,
		FilledAmount:    decimal.Zero,
		RemainingAmount: cmd.Amount,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	asset, amount, _ := order.Reservation()
	if _, err := u.ledger.Mutate(ctx, owner, asset, amount, model.BalanceLock); err != nil {
		return nil, err
	}

	if err := u.orders.Create(ctx, order); err != nil {
		if _, unlockErr := u.ledger.Mutate(ctx, owner, asset, amount, model.BalanceUnlock); unlockErr != nil {
			err = errors.Join(err, fmt.Errorf("release reservation: %w", unlockErr))
		}
		return nil, &domainErrors.StorageError{Op: "create order", Err: err}
	}

	return &order, nil
}

// List returns orders of owner, newest first.
func (u *OrderUseCase) List(ctx context.Context, owner string) ([]model.Order, error) {
	return u.orders.ListByOwner(ctx, owner)
}

// Cancel cancels an open order of owner and releases what it still reserves.
// The reservation is released first and taken back when the order cannot be cancelled,
// so a failure leaves both the order and the balance as they were.
func (u *OrderUseCase) Cancel(ctx context.Context, owner, id string) (*model.Order, error) {
	order, err := u.orders.Get(ctx, owner, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrOrderNotCancellable
		}
		return nil, &domainErrors.StorageError{Op: "get order", Err: err}
	}
	if order.Status != model.OrderStatusOpen {
		return nil, domainErrors.ErrOrderNotCancellable
	}

	asset, reserved, ok := order.Reservation()
	if !ok || !reserved.IsPositive() {
		reserved = decimal.Zero
	}
	if err := u.adjustReservation(ctx, owner, asset, reserved.Neg()); err != nil {
		return nil, fmt.Errorf("release reservation of order %s: %w", order.ID, err)
	}

	cancelled, err := u.orders.Cancel(ctx, owner, id, u.now().UTC())
	if err != nil {
		if relockErr := u.adjustReservation(ctx, owner, asset, reserved); relockErr != nil {
			err = errors.Join(err, fmt.Errorf("restore reservation of order %s: %w", order.ID, relockErr))
		}
		return nil, err
	}

	// a fill between the read and the cancel changes what is still reserved
	if _, remaining, ok := cancelled.Reservation(); ok && !remaining.Equal(reserved) {
		if err := u.adjustReservation(ctx, owner, asset, remaining.Sub(reserved).Neg()); err != nil {
			return nil, fmt.Errorf("settle reservation of order %s: %w", order.ID, err)
		}
	}
	return cancelled, nil
}

// adjustReservation locks delta when it is positive and unlocks its magnitude when negative.
func (u *OrderUseCase) adjustReservation(ctx context.Context, owner, asset string, delta decimal.Decimal) error {
	switch {
	case delta.IsPositive():
		_, err := u.ledger.Mutate(ctx, owner, asset, delta, model.BalanceLock)
		return err
	case delta.IsNegative():
		_, err := u.ledger.Mutate(ctx, owner, asset, delta.Neg(), model.BalanceUnlock)
		return err
	default:
		return nil
	}
}
