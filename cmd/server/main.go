package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	catalogapp "github.com/stockledger/backend/internal/application/catalog"
	inventoryapp "github.com/stockledger/backend/internal/application/inventory"
	purchaseapp "github.com/stockledger/backend/internal/application/purchase"
	reportapp "github.com/stockledger/backend/internal/application/report"
	"github.com/stockledger/backend/internal/infrastructure/config"
	"github.com/stockledger/backend/internal/infrastructure/logger"
	"github.com/stockledger/backend/internal/infrastructure/persistence"
	"github.com/stockledger/backend/internal/interfaces/http/handler"
	"github.com/stockledger/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting stockledger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	packagingCost, err := cfg.Report.PackagingCost()
	if err != nil {
		log.Fatal("invalid report configuration", zap.Error(err))
	}

	// Repositories outside transactions serve read paths; writes go
	// through the transaction scopes.
	productRepo := persistence.NewGormProductRepository(db.DB)
	lotRepo := persistence.NewGormLotRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	salesLineRepo := persistence.NewGormSalesLineRepository(db.DB)

	purchaseScope := persistence.NewGormPurchaseScope(db.DB)
	inventoryScope := persistence.NewGormInventoryScope(db.DB)

	productService := catalogapp.NewProductService(productRepo, log)
	purchaseService := purchaseapp.NewService(purchaseScope, log)
	consumptionService := inventoryapp.NewConsumptionService(inventoryScope, log)
	queryService := inventoryapp.NewQueryService(lotRepo, movementRepo)
	profitService := reportapp.NewProfitService(movementRepo, salesLineRepo, productRepo, packagingCost, log)

	routerCfg := router.DefaultConfig()
	routerCfg.MaxBodyBytes = cfg.HTTP.MaxBodySize
	r := router.New(log, routerCfg)
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := r.Engine().SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	r.Register(handler.NewSystemHandler(db, version)).
		Register(handler.NewProductHandler(productService)).
		Register(handler.NewPurchaseHandler(purchaseService)).
		Register(handler.NewInventoryHandler(consumptionService, queryService)).
		Register(handler.NewReportHandler(profitService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        r.Engine(),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
