package storage_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-service/internal/config"
	"github.com/tuanvumaihuynh/catalog-service/internal/model"
	"github.com/tuanvumaihuynh/catalog-service/internal/storage"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Should open memory store", func(t *testing.T) {
		s, err := storage.Open(ctx, storage.Config{
			Storage: config.Storage{Driver: config.StorageDriverMemory},
		}, logger)
		require.NoError(t, err)
		t.Cleanup(func() { assert.NoError(t, s.Close(ctx)) })

		require.NoError(t, s.Migrate(ctx))

		_, err = s.Products.CreateProduct(ctx, model.Product{Name: "Banana", Price: 1})
		require.NoError(t, err)

		n, err := s.Products.CountProducts(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("Should reject unknown driver", func(t *testing.T) {
		_, err := storage.Open(ctx, storage.Config{
			Storage: config.Storage{Driver: config.StorageDriver(42)},
		}, logger)
		assert.Error(t, err)
	})
}
