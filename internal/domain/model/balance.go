package model

import (
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/ocexchange/internal/domain/errors"
)

// AmountScale is the number of fractional digits a stored amount keeps.
const AmountScale int32 = 18

// WithinScale reports whether amount is stored without rounding.
func WithinScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(AmountScale))
}

// BalanceOperation names a ledger mutation.
type BalanceOperation string

const (
	BalanceAdd      BalanceOperation = "add"
	BalanceSubtract BalanceOperation = "subtract"
	BalanceLock     BalanceOperation = "lock"
	BalanceUnlock   BalanceOperation = "unlock"
)

// Valid reports whether op is one of the known ledger operations.
func (op BalanceOperation) Valid() bool {
	switch op {
	case BalanceAdd, BalanceSubtract, BalanceLock, BalanceUnlock:
		return true
	default:
		return false
	}
}

// Inverse returns the operation undoing op.
func (op BalanceOperation) Inverse() BalanceOperation {
	switch op {
	case BalanceAdd:
		return BalanceSubtract
	case BalanceSubtract:
		return BalanceAdd
	case BalanceLock:
		return BalanceUnlock
	case BalanceUnlock:
		return BalanceLock
	default:
		return op
	}
}

// Balance holds the wallet position of one owner in one asset.
// Total always equals Available plus Locked.
type Balance struct {
	Owner     string
	Asset     string
	Total     decimal.Decimal
	Available decimal.Decimal
	Locked    decimal.Decimal
	UpdatedAt time.Time
}

// NewBalance returns the zero record a pair starts from before its first mutation.
func NewBalance(owner, asset string) *Balance {
	return &Balance{Owner: owner, Asset: asset}
}

// Apply performs op on the balance. The receiver is left untouched when an error is returned.
func (b *Balance) Apply(op BalanceOperation, amount decimal.Decimal, at time.Time) error {
	if !amount.IsPositive() {
		return domainErrors.ErrInvalidAmount
	}

	next := *b
	switch op {
	case BalanceAdd:
		next.Total = next.Total.Add(amount)
		next.Available = next.Available.Add(amount)
	case BalanceSubtract:
		if next.Available.LessThan(amount) {
			return domainErrors.ErrInsufficientAvailableBalance
		}
		next.Total = next.Total.Sub(amount)
		next.Available = next.Available.Sub(amount)
	case BalanceLock:
		if next.Available.LessThan(amount) {
			return domainErrors.ErrInsufficientAvailableBalance
		}
		next.Available = next.Available.Sub(amount)
		next.Locked = next.Locked.Add(amount)
	case BalanceUnlock:
		if next.Locked.LessThan(amount) {
			return domainErrors.ErrInsufficientLockedBalance
		}
		next.Locked = next.Locked.Sub(amount)
		next.Available = next.Available.Add(amount)
	default:
		return domainErrors.ErrInvalidOperation
	}
	next.UpdatedAt = at

	if err := next.Validate(); err != nil {
		return err
	}
	*b = next
	return nil
}

// Validate checks that no amount is negative and that total equals available plus locked.
func (b Balance) Validate() error {
	if b.Total.IsNegative() || b.Available.IsNegative() || b.Locked.IsNegative() {
		return domainErrors.ErrBalanceInvariant
	}
	if !b.Total.Equal(b.Available.Add(b.Locked)) {
		return domainErrors.ErrBalanceInvariant
	}
	return nil
}
