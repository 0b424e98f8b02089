package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/varejo-erp/varejo/internal/app"
	"github.com/varejo-erp/varejo/internal/catalog/products"
	"github.com/varejo-erp/varejo/internal/catalog/suppliers"
	"github.com/varejo-erp/varejo/internal/platform/cache"
	"github.com/varejo-erp/varejo/internal/platform/db"
	"github.com/varejo-erp/varejo/internal/reports"
	"github.com/varejo-erp/varejo/internal/returns"
	"github.com/varejo-erp/varejo/internal/sales"
	"github.com/varejo-erp/varejo/internal/sales/customers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, dashboard cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	dashboardCache := reports.NewCache(redisClient, cfg.DashboardCacheTTL)
	if err := dashboardCache.ListenForInvalidation(ctx); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	productService := products.NewService(products.NewRepository(pool))
	productHandler := products.NewHandler(logger, productService, pool)

	supplierService := suppliers.NewService(suppliers.NewRepository(pool))
	supplierHandler := suppliers.NewHandler(logger, supplierService)

	customerService := customers.NewService(customers.NewRepository(pool))
	customerHandler := customers.NewHandler(logger, customerService)

	saleService := sales.NewService(sales.NewRepository(pool), dashboardCache)
	saleHandler := sales.NewHandler(logger, saleService)

	returnService := returns.NewService(returns.NewRepository(pool), dashboardCache)
	returnHandler := returns.NewHandler(logger, returnService)

	reportService := reports.NewService(reports.NewRepository(pool), dashboardCache)
	reportHandler := reports.NewHandler(logger, reportService)

	router := app.NewRouter(app.RouterConfig{
		Logger:    logger,
		Config:    cfg,
		Products:  productHandler,
		Suppliers: supplierHandler,
		Customers: customerHandler,
		Sales:     saleHandler,
		Returns:   returnHandler,
		Dashboard: reportHandler,
		Health: func(r *http.Request) error {
			return pool.Ping(r.Context())
		},
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server run", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
