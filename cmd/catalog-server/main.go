package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuanvumaihuynh/catalog-service/internal/attachment"
	"github.com/tuanvumaihuynh/catalog-service/internal/config"
	"github.com/tuanvumaihuynh/catalog-service/internal/http"
	"github.com/tuanvumaihuynh/catalog-service/internal/log"
	"github.com/tuanvumaihuynh/catalog-service/internal/service"
	"github.com/tuanvumaihuynh/catalog-service/internal/storage"
	"github.com/tuanvumaihuynh/catalog-service/internal/telemetry"
	"github.com/tuanvumaihuynh/catalog-service/pkg/cmdutil"
	"github.com/tuanvumaihuynh/catalog-service/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running catalog server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		HTTP     config.HTTP
		Upload   config.Upload
		Storage  config.Storage
		Postgres config.Postgres
		Mongo    config.Mongo
		Otel     config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

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

	// postgres schema is owned by catalog-migrate
	if cfg.Storage.Driver == config.StorageDriverMongo {
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("error preparing mongo collections: %w", err)
		}
	}

	attachments, err := attachment.NewOSStore(cfg.Upload.Dir, cfg.Upload.PublicPrefix, cfg.Upload.AllowedExtensions)
	if err != nil {
		return fmt.Errorf("error creating attachment store: %w", err)
	}

	v, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("error creating validator: %w", err)
	}

	productService := service.NewProductService(v, store.Products)

	svc := http.New(cfg.HTTP, cfg.Upload, logger, productService, attachments, store.Products)
	cleanup, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("error running http service: %w", err)
	}

	<-cmdutil.InterruptChan()

	logger.InfoContext(ctx, "http service is shutting down")
	if err := cleanup(ctx); err != nil {
		logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
	}

	logger.InfoContext(ctx, "http service is stopped")

	return nil
}
