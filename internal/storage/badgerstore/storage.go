package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	badger "github.com/dgraph-io/badger/v4"

	domainErrors "github.com/polkiloo/ocexchange/internal/domain/errors"
	"github.com/polkiloo/ocexchange/internal/domain/repository"
)

const (
	keySeparator = "\x00"

	usersPrefix        = "users/"
	userEmailsPrefix   = "user_emails/"
	balancesPrefix     = "balances/"
	ordersPrefix       = "orders/"
	tradesPrefix       = "trades/"
	transactionsPrefix = "transactions/"
)

// Storage is a repository facade backed by an embedded Badger database.
// Records are stored as JSON; every write runs in a Badger transaction, so concurrent
// writers of the same key fail with a conflict instead of overwriting each other.
// Balance mutations of one key are additionally queued in process.
type Storage struct {
	db       *badger.DB
	logger   *slog.Logger
	balances keyLocks
}

// Open opens the database at path. An empty path opens a purely in-memory database.
func Open(path string, logger *slog.Logger) (*Storage, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if strings.TrimSpace(path) == "" {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Storage{db: db, logger: logger}, nil
}

// Close releases database resources.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// HealthCheck reports whether the database is still open.
func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db == nil || s.db.IsClosed() {
		return errors.New("badger: database is closed")
	}
	return nil
}

func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Balances() repository.BalanceRepository {
	return &balanceRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Trades() repository.TradeRepository {
	return &tradeRepository{storage: s}
}

func (s *Storage) Transactions() repository.TransactionRepository {
	return &transactionRepository{storage: s}
}

func (s *Storage) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}

// update runs fn in a read-write transaction. A commit rejected because another transaction
// changed a key read by fn is reported as errors.ErrConflict.
func (s *Storage) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(fn)
	if errors.Is(err, badger.ErrConflict) {
		return fmt.Errorf("%w: %v", domainErrors.ErrConflict, err)
	}
	return err
}

// keyPartEscaper keeps the separator out of key parts while preserving their byte order,
// so an owner prefix never matches another owner's keys.
var keyPartEscaper = strings.NewReplacer("\x01", "\x01\x02", keySeparator, "\x01\x01")

func compositeKey(prefix string, parts ...string) []byte {
	escaped := make([]string, len(parts))
	for i, part := range parts {
		escaped[i] = keyPartEscaper.Replace(part)
	}
	return []byte(prefix + strings.Join(escaped, keySeparator))
}

func ownerPrefix(prefix, owner string) []byte {
	return []byte(prefix + keyPartEscaper.Replace(owner) + keySeparator)
}

func getJSON(txn *badger.Txn, key []byte, dst any) error {
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dst)
	})
}

func setJSON(txn *badger.Txn, key []byte, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return txn.Set(key, payload)
}

func scanPrefix[T any](txn *badger.Txn, prefix []byte) ([]T, error) {
	it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: true, PrefetchSize: 100, Prefix: prefix})
	defer it.Close()

	var result []T
	for it.Rewind(); it.Valid(); it.Next() {
		var item T
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &item)
		}); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}
