package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidOperation    = errors.New("invalid balance operation")
	ErrInvalidBalanceKey   = errors.New("owner and asset must not be empty")
	ErrBalanceInvariant    = errors.New("balance invariant violated")
	ErrConflict            = errors.New("transaction conflict")
	ErrStorageFailure      = errors.New("storage failure")
	ErrInvalidOrder        = errors.New("invalid order")
	ErrOrderNotCancellable = errors.New("order not found or cannot be cancelled")
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrInvalidVerification = errors.New("invalid or expired verification code")
	ErrCoinNotFound        = errors.New("coin not found")

	ErrInsufficientAvailableBalance = errors.New("insufficient available balance")
	ErrInsufficientLockedBalance    = errors.New("insufficient locked balance")
)

// StorageError reports a store operation that could not be completed: the
// transaction aborted, the store is unreachable or conflicts exhausted the
// retry budget. It matches ErrStorageFailure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrStorageFailure, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageFailure
}
