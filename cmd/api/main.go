package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"shophub/internal/config"
	"shophub/internal/db"
	"shophub/internal/httpserver"
	"shophub/internal/payment"
	"shophub/internal/redisx"
	categoryrepo "shophub/internal/repository/category"
	orderrepo "shophub/internal/repository/order"
	productrepo "shophub/internal/repository/product"
	userrepo "shophub/internal/repository/user"
	"shophub/internal/seed"
	catalogsvc "shophub/internal/service/catalog"
	orderssvc "shophub/internal/service/orders"
	userssvc "shophub/internal/service/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	var (
		products   productrepo.Repository
		categories categoryrepo.Repository
		users      userrepo.Repository
		orders     orderrepo.Repository
		ready      func(ctx context.Context) error
	)

	if cfg.DBConnString != "" {
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer pool.Close()

		products = productrepo.NewPostgres(pool, logger)
		categories = categoryrepo.NewPostgres(pool)
		users = userrepo.NewPostgres(pool, logger)
		orders = orderrepo.NewPostgres(pool, logger)
		ready = httpserver.PoolReady(pool)
		logger.Printf("using postgres store")
	} else {
		products = productrepo.NewMemory()
		categories = categoryrepo.NewMemory()
		users = userrepo.NewMemory()
		orders = orderrepo.NewMemory()
		logger.Printf("using in-memory store")
	}

	tokenStore := userssvc.NewMemoryTokenStore()
	if cfg.RedisAddr != "" {
		client, err := redisx.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Fatalf("connect to redis: %v", err)
		}
		defer client.Close()
		tokenStore = userssvc.NewRedisTokenStore(client)
		logger.Printf("using redis session store")
	}

	if cfg.SeedOnStart && cfg.DBConnString == "" {
		if err := seed.Apply(ctx, logger, seed.Stores{Products: products, Categories: categories, Users: users}); err != nil {
			logger.Fatalf("seed demo data: %v", err)
		}
	}

	srv := httpserver.New(cfg.HTTPAddr, logger, ready, httpserver.Deps{
		Catalog:        catalogsvc.New(products, categories),
		Orders:         orderssvc.New(orders, logger),
		Users:          userssvc.New(users, tokenStore),
		Payments:       payment.NewLocalProvider(logger),
		PaymentTimeout: cfg.PaymentTimeout,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
