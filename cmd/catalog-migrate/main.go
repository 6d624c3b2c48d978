package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuanvumaihuynh/catalog-service/internal/config"
	"github.com/tuanvumaihuynh/catalog-service/internal/log"
	"github.com/tuanvumaihuynh/catalog-service/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running migrate application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Storage  config.Storage
		Postgres config.Postgres
		Mongo    config.Mongo
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	store, err := storage.Open(ctx, storage.Config{
		Storage:  cfg.Storage,
		Postgres: cfg.Postgres,
		Mongo:    cfg.Mongo,
	}, logger)
	if err != nil {
		return fmt.Errorf("error opening product store: %w", err)
	}
	defer func() {
		if err := store.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "error closing product store", slog.Any("error", err))
		}
	}()

	logger.InfoContext(ctx, "starting store migration", slog.String("driver", cfg.Storage.Driver.String()))

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("error migrating store: %w", err)
	}

	n, err := store.Products.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("error counting products: %w", err)
	}

	logger.InfoContext(ctx, "store migration completed successfully", slog.Int64("products", n))

	return nil
}
