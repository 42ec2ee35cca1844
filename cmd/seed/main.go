package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"shophub/internal/config"
	"shophub/internal/db"
	categoryrepo "shophub/internal/repository/category"
	productrepo "shophub/internal/repository/product"
	userrepo "shophub/internal/repository/user"
	"shophub/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if cfg.DBConnString == "" {
		logger.Fatal("DB_DSN is required: the in-memory store is seeded by the api binary on start")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	stores := seed.Stores{
		Products:   productrepo.NewPostgres(pool, logger),
		Categories: categoryrepo.NewPostgres(pool),
		Users:      userrepo.NewPostgres(pool, logger),
	}
	if err := seed.Apply(ctx, logger, stores); err != nil {
		logger.Fatalf("apply seed: %v", err)
	}

	logger.Println("seed data applied")
}
