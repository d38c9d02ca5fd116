package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/ocexchange/internal/domain/errors"
	"github.com/polkiloo/ocexchange/internal/domain/model"
	"github.com/polkiloo/ocexchange/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[string]*model.User
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[string]*model.User),
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user model.User) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[string]*model.User)
	}
	if _, exists := s.Users[user.Email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	stored := user
	s.Users[user.Email] = &stored
	s.ByID[user.ID] = &stored
	return &stored, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[email]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// SetVerificationCode stores the pending code hash on the user.
func (s *UserRepositoryStub) SetVerificationCode(ctx context.Context, id, codeHash string, expiresAt time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.VerificationCodeHash = codeHash
	user.VerificationExpiresAt = &expiresAt
	return nil
}

// MarkVerified sets the verification time and clears the pending code.
func (s *UserRepositoryStub) MarkVerified(ctx context.Context, id string, at time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.VerifiedAt = &at
	user.VerificationCodeHash = ""
	user.VerificationExpiresAt = nil
	return nil
}

type balanceKey struct {
	owner string
	asset string
}

// BalanceRepositoryStub keeps balances in memory and serializes mutations with a mutex.
// MutateErrs are returned, one per call, before any real mutation happens.
type BalanceRepositoryStub struct {
	MutateErrs []error
	ListErr    error
	GetErr     error

	mu          sync.Mutex
	items       map[balanceKey]model.Balance
	MutateCalls int
}

// NewBalanceRepositoryStub constructs an empty balance repository.
func NewBalanceRepositoryStub() *BalanceRepositoryStub {
	return &BalanceRepositoryStub{items: make(map[balanceKey]model.Balance)}
}

// Get returns the stored record or not found.
func (s *BalanceRepositoryStub) Get(ctx context.Context, owner, asset string) (*model.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	balance, ok := s.items[balanceKey{owner, asset}]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &balance, nil
}

// ListByOwner returns records of owner ordered by asset.
func (s *BalanceRepositoryStub) ListByOwner(ctx context.Context, owner string) ([]model.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	var result []model.Balance
	for key, balance := range s.items {
		if key.owner == owner {
			result = append(result, balance)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Asset < result[j].Asset })
	return result, nil
}

// Mutate applies fn to the current or zero record and stores it when fn succeeds.
func (s *BalanceRepositoryStub) Mutate(ctx context.Context, owner, asset string, fn repository.BalanceMutation) (*model.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MutateCalls++
	if len(s.MutateErrs) > 0 {
		err := s.MutateErrs[0]
		s.MutateErrs = s.MutateErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if s.items == nil {
		s.items = make(map[balanceKey]model.Balance)
	}
	key := balanceKey{owner, asset}
	balance, ok := s.items[key]
	if !ok {
		balance = *model.NewBalance(owner, asset)
	}
	if err := fn(&balance); err != nil {
		return nil, err
	}
	s.items[key] = balance
	return &balance, nil
}

// Exists reports whether a record for the pair was ever stored.
func (s *BalanceRepositoryStub) Exists(owner, asset string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[balanceKey{owner, asset}]
	return ok
}

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	CreateFn func(context.Context, model.Order) error
	ListFn   func(context.Context, string) ([]model.Order, error)
	GetFn    func(context.Context, string, string) (*model.Order, error)
	CancelFn func(context.Context, string, string, time.Time) (*model.Order, error)

	Created []model.Order
	Orders  []model.Order
}

// Create tracks invocations and returns configured responses.
func (s *OrderRepositoryStub) Create(ctx context.Context, order model.Order) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.Created = append(s.Created, order)
	return nil
}

// ListByOwner returns orders from configured slice.
func (s *OrderRepositoryStub) ListByOwner(ctx context.Context, owner string) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, owner)
	}
	return s.Orders, nil
}

// Get finds a created order of owner.
func (s *OrderRepositoryStub) Get(ctx context.Context, owner, id string) (*model.Order, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, owner, id)
	}
	for _, order := range s.Created {
		if order.ID == id && order.Owner == owner {
			found := order
			return &found, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// Cancel cancels a created open order of owner.
func (s *OrderRepositoryStub) Cancel(ctx context.Context, owner, id string, at time.Time) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, owner, id, at)
	}
	for i := range s.Created {
		order := &s.Created[i]
		if order.ID == id && order.Owner == owner && order.Status == model.OrderStatusOpen {
			order.Status = model.OrderStatusCancelled
			order.UpdatedAt = at
			cancelled := *order
			return &cancelled, nil
		}
	}
	return nil, domainErrors.ErrOrderNotCancellable
}

// TradeRepositoryStub returns configured trades.
type TradeRepositoryStub struct {
	Trades []model.Trade
	Err    error
}

// ListByOwner returns configured trades or error.
func (s *TradeRepositoryStub) ListByOwner(ctx context.Context, owner string) ([]model.Trade, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Trades, nil
}

// TransactionRepositoryStub records created transactions.
type TransactionRepositoryStub struct {
	CreateErr error
	ListFn    func(context.Context, string, int) ([]model.Transaction, error)

	Created []model.Transaction
}

// Create stores transaction unless CreateErr is configured.
func (s *TransactionRepositoryStub) Create(ctx context.Context, tx model.Transaction) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.Created = append(s.Created, tx)
	return nil
}

// ListByOwner delegates to override or returns created transactions.
func (s *TransactionRepositoryStub) ListByOwner(ctx context.Context, owner string, limit int) ([]model.Transaction, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, owner, limit)
	}
	return s.Created, nil
}

var (
	_ repository.UserRepository        = (*UserRepositoryStub)(nil)
	_ repository.BalanceRepository     = (*BalanceRepositoryStub)(nil)
	_ repository.OrderRepository       = (*OrderRepositoryStub)(nil)
	_ repository.TradeRepository       = (*TradeRepositoryStub)(nil)
	_ repository.TransactionRepository = (*TransactionRepositoryStub)(nil)
)
