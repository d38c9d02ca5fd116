package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/ocexchange/internal/adapter/mailer"
	"github.com/polkiloo/ocexchange/internal/config"
	"github.com/polkiloo/ocexchange/internal/storage"
	"github.com/polkiloo/ocexchange/internal/usecase"
	"github.com/polkiloo/ocexchange/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewExchangeFacade,
		newHTTPServer,
		newMarketRefresher,
		newMailDispatcher,
		func(d *worker.MailDispatcher) MailQueue { return d },
		func(b storage.Backend) HealthChecker { return b },
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type refresherParams struct {
	fx.In

	Market *usecase.MarketUseCase
	Config *config.Config
	Logger *slog.Logger
}

func newMarketRefresher(p refresherParams) *worker.MarketRefresher {
	return worker.NewMarketRefresher(p.Market, p.Config.MarketRefreshInterval, p.Logger)
}

type dispatcherParams struct {
	fx.In

	Mailer *mailer.Client
	Config *config.Config
	Logger *slog.Logger
}

func newMailDispatcher(p dispatcherParams) *worker.MailDispatcher {
	return worker.NewMailDispatcher(p.Mailer, p.Config.MailWorkers, p.Config.MailQueueSize, p.Logger)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Refresher  *worker.MarketRefresher
	Dispatcher *worker.MailDispatcher
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting ocexchange", slog.String("addr", p.Server.Addr))
			runCtx := context.WithoutCancel(ctx)
			p.Dispatcher.Start(runCtx)
			p.Refresher.Start(runCtx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Refresher.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Dispatcher.Stop()
			p.Logger.Info("ocexchange stopped")
			return nil
		},
	})
}
