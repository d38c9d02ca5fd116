package logger

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/fx"

	"github.com/polkiloo/ocexchange/internal/config"
)

// Module wires slog logger for dependency injection.
var Module = fx.Provide(newLogger)

func newLogger(lc fx.Lifecycle, cfg *config.Config) *slog.Logger {
	logger, closer := New(cfg, os.Stdout)
	if closer != nil {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return closer.Close()
			},
		})
	}
	return logger
}
