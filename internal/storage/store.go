package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tuanvumaihuynh/catalog-service/internal/config"
	"github.com/tuanvumaihuynh/catalog-service/internal/repository"
	"github.com/tuanvumaihuynh/catalog-service/internal/storage/db"
	"github.com/tuanvumaihuynh/catalog-service/internal/storage/mongodb"
)

// Config groups the settings of every supported backend.
type Config struct {
	Storage  config.Storage
	Postgres config.Postgres
	Mongo    config.Mongo
}

// Store is an opened product store backend.
type Store struct {
	Driver   config.StorageDriver
	Products repository.ProductRepository

	pgxPool     *pgxpool.Pool
	mongoClient *mongo.Client
	mongoRepo   *repository.MongoProductRepository
}

// Open connects to the backend selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	s := &Store{Driver: cfg.Storage.Driver}

	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pool, err := db.NewPgxPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("create pgx pool: %w", err)
		}
		s.pgxPool = pool
		s.Products = repository.NewPostgresProductRepository(db.NewClient(pool))

	case config.StorageDriverMongo:
		client, err := mongodb.NewClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("create mongo client: %w", err)
		}
		s.mongoClient = client
		s.mongoRepo = repository.NewMongoProductRepository(client.Database(cfg.Mongo.Database))
		s.Products = s.mongoRepo

	case config.StorageDriverMemory:
		logger.WarnContext(ctx, "using in-memory product store, data is lost on restart")
		s.Products = repository.NewMemoryProductRepository()

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}

	logger.InfoContext(ctx, "product store opened", slog.String("driver", cfg.Storage.Driver.String()))

	return s, nil
}

// Migrate brings the backend schema up to date: goose migrations for
// Postgres, the id index and id counter for MongoDB.
func (s *Store) Migrate(ctx context.Context) error {
	switch {
	case s.pgxPool != nil:
		return db.Migrate(s.pgxPool)
	case s.mongoRepo != nil:
		return s.mongoRepo.EnsureSchema(ctx)
	default:
		return nil
	}
}

// Close releases the backend connections.
func (s *Store) Close(ctx context.Context) error {
	if s.pgxPool != nil {
		s.pgxPool.Close()
	}
	if s.mongoClient != nil {
		if err := s.mongoClient.Disconnect(ctx); err != nil {
			return fmt.Errorf("disconnect mongo: %w", err)
		}
	}
	return nil
}
