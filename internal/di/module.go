package di

import (
	"github.com/polkiloo/ocexchange/internal/adapter/mailer"
	"github.com/polkiloo/ocexchange/internal/adapter/marketdata"
	"github.com/polkiloo/ocexchange/internal/app"
	"github.com/polkiloo/ocexchange/internal/config"
	"github.com/polkiloo/ocexchange/internal/logger"
	"github.com/polkiloo/ocexchange/internal/pkg/auth"
	"github.com/polkiloo/ocexchange/internal/server/http/handlers"
	"github.com/polkiloo/ocexchange/internal/server/http/router"
	"github.com/polkiloo/ocexchange/internal/storage"
	"github.com/polkiloo/ocexchange/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		storage.Module,
		mailer.Module,
		marketdata.Module,
		usecase.Module,
		fx.Provide(
			func(client *mailer.Client) usecase.VerificationMailer { return client },
			func(client *marketdata.Client) usecase.MarketDataProvider { return client },
			func(facade *app.ExchangeFacade) handlers.ExchangeFacade { return facade },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
