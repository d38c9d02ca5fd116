package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ocexchange/internal/config"
	"github.com/polkiloo/ocexchange/internal/server/http/handlers"
	"github.com/polkiloo/ocexchange/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
// Admin routes are mounted only when an admin token is configured.
func Setup(facade handlers.ExchangeFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest(middleware.DefaultMaxBodyBytes))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	balanceHandler := handlers.NewBalanceHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	historyHandler := handlers.NewHistoryHandler(facade)
	marketHandler := handlers.NewMarketHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)

	market := api.Group("/market")
	market.GET("", marketHandler.Markets)
	market.GET("/:coin/price", marketHandler.Price)
	market.GET("/:coin/history", marketHandler.History)

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	userAuth := user.Group("")
	userAuth.Use(middleware.AuthRequired(facade))
	userAuth.POST("/verification", authHandler.RequestVerification)
	userAuth.POST("/verification/confirm", authHandler.ConfirmVerification)
	userAuth.GET("/balances", balanceHandler.List)
	userAuth.GET("/balances/:asset", balanceHandler.Get)
	userAuth.POST("/orders", orderHandler.Place)
	userAuth.GET("/orders", orderHandler.List)
	userAuth.DELETE("/orders/:id", orderHandler.Cancel)
	userAuth.GET("/trades", historyHandler.Trades)
	userAuth.GET("/transactions", historyHandler.Transactions)

	if cfg.AdminToken != "" {
		adminHandler := handlers.NewAdminHandler(facade)
		admin := api.Group("/admin")
		admin.Use(middleware.AdminRequired(cfg.AdminToken))
		admin.POST("/balances", adminHandler.MutateBalance)
		admin.POST("/transactions", adminHandler.RecordTransaction)
	} else {
		logger.Info("admin routes disabled: no admin token configured")
	}

	return engine
}
