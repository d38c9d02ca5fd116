package storage

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ocexchange/internal/config"
	"github.com/polkiloo/ocexchange/internal/domain/repository"
	"github.com/polkiloo/ocexchange/internal/storage/badgerstore"
	"github.com/polkiloo/ocexchange/internal/storage/postgres"
)

// Backend is a storage engine able to serve every domain repository.
type Backend interface {
	repository.Factory
	HealthCheck(ctx context.Context) error
	Close() error
}

// Module wires the configured storage backend and repository adapters.
var Module = fx.Options(
	fx.Provide(newBackend),
	fx.Provide(
		func(b Backend) repository.Factory { return b },
		func(b Backend) repository.UserRepository { return b.Users() },
		func(b Backend) repository.BalanceRepository { return b.Balances() },
		func(b Backend) repository.OrderRepository { return b.Orders() },
		func(b Backend) repository.TradeRepository { return b.Trades() },
		func(b Backend) repository.TransactionRepository { return b.Transactions() },
	),
	fx.Invoke(registerLifecycle),
)

type backendParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newBackend(p backendParams) (Backend, error) {
	switch p.Config.StorageDriver {
	case config.StorageDriverPostgres:
		storage, err := postgres.New(p.Ctx, p.Config.DatabaseURI, p.Logger)
		if err != nil {
			return nil, err
		}
		return storage, nil
	case config.StorageDriverBadger:
		storage, err := badgerstore.Open(p.Config.BadgerPath, p.Logger)
		if err != nil {
			return nil, err
		}
		return storage, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", p.Config.StorageDriver)
	}
}

func registerLifecycle(lc fx.Lifecycle, backend Backend, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := backend.Close(); err != nil {
				logger.Error("failed to close storage", slog.Any("error", err))
				return err
			}
			return nil
		},
	})
}
