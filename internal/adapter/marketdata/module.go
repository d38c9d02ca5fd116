package marketdata

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ocexchange/internal/config"
)

// Module exposes the market data client to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (*Client, error) {
	return NewClient(p.Config.MarketDataURL, p.Logger)
}
