package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-service/internal/model"
	"github.com/tuanvumaihuynh/catalog-service/internal/repository"
	"github.com/tuanvumaihuynh/catalog-service/pkg/ptr"
)

func TestMemoryProductRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Should round trip a created product", func(t *testing.T) {
		repo := repository.NewMemoryProductRepository()

		created, err := repo.CreateProduct(ctx, model.Product{
			Name:        "Banana",
			Price:       80,
			Description: ptr.New("ripe bananas"),
			Images:      []string{"uploads/a.jpg", "uploads/b.jpg"},
			Tags:        []string{"organic", "sweet"},
			Rating:      ptr.New(4.0),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)

		found, ok, err := repo.GetProductByID(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, created, found)
	})

	t.Run("Should reject product without name", func(t *testing.T) {
		repo := repository.NewMemoryProductRepository()

		_, err := repo.CreateProduct(ctx, model.Product{Price: 1})
		assert.ErrorIs(t, err, repository.ErrMissingRequiredField)
		assert.ErrorIs(t, err, repository.ErrConstraintViolation)

		count, err := repo.CountProducts(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("Should list in insertion order", func(t *testing.T) {
		repo := repository.NewMemoryProductRepository()
		for _, name := range []string{"apple", "orange", "banana"} {
			_, err := repo.CreateProduct(ctx, model.Product{Name: name, Price: 1})
			require.NoError(t, err)
		}

		products, err := repo.ListAllProducts(ctx)
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "apple", products[0].Name)
		assert.Equal(t, "orange", products[1].Name)
		assert.Equal(t, "banana", products[2].Name)
	})

	t.Run("Should report missing product without error", func(t *testing.T) {
		repo := repository.NewMemoryProductRepository()

		_, ok, err := repo.GetProductByID(ctx, 9999)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Should leave collection unchanged when deleting missing id", func(t *testing.T) {
		repo := repository.NewMemoryProductRepository()
		_, err := repo.CreateProduct(ctx, model.Product{Name: "apple", Price: 1})
		require.NoError(t, err)

		before, err := repo.ListAllProducts(ctx)
		require.NoError(t, err)

		_, ok, err := repo.DeleteProductByID(ctx, 42)
		require.NoError(t, err)
		assert.False(t, ok)

		after, err := repo.ListAllProducts(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("Should delete by id and be idempotent", func(t *testing.T) {
		repo := repository.NewMemoryProductRepository()
		first, err := repo.CreateProduct(ctx, model.Product{Name: "apple", Price: 1})
		require.NoError(t, err)
		second, err := repo.CreateProduct(ctx, model.Product{Name: "orange", Price: 2})
		require.NoError(t, err)

		removed, ok, err := repo.DeleteProductByID(ctx, first.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, first, removed)

		_, ok, err = repo.DeleteProductByID(ctx, first.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		found, ok, err := repo.GetProductByID(ctx, second.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, second, found)
	})

	t.Run("Should not reuse ids after deletion", func(t *testing.T) {
		repo := repository.NewMemoryProductRepository()
		first, err := repo.CreateProduct(ctx, model.Product{Name: "apple", Price: 1})
		require.NoError(t, err)
		second, err := repo.CreateProduct(ctx, model.Product{Name: "orange", Price: 1})
		require.NoError(t, err)

		_, _, err = repo.DeleteProductByID(ctx, first.ID)
		require.NoError(t, err)

		third, err := repo.CreateProduct(ctx, model.Product{Name: "banana", Price: 1})
		require.NoError(t, err)
		assert.Greater(t, third.ID, second.ID)
	})

	t.Run("Should delete all including on empty collection", func(t *testing.T) {
		repo := repository.NewMemoryProductRepository()

		n, err := repo.DeleteAllProducts(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)

		for range 3 {
			_, err := repo.CreateProduct(ctx, model.Product{Name: "apple", Price: 1})
			require.NoError(t, err)
		}

		n, err = repo.DeleteAllProducts(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		products, err := repo.ListAllProducts(ctx)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("Should not share slices with callers", func(t *testing.T) {
		repo := repository.NewMemoryProductRepository()
		tags := []string{"a", "b"}
		created, err := repo.CreateProduct(ctx, model.Product{Name: "apple", Price: 1, Tags: tags})
		require.NoError(t, err)

		tags[0] = "mutated"
		created.Tags[1] = "mutated"

		found, _, err := repo.GetProductByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, found.Tags)
	})

	t.Run("Should assign distinct ids to concurrent creates", func(t *testing.T) {
		repo := repository.NewMemoryProductRepository()
		const n = 200

		var (
			mu  sync.Mutex
			wg  sync.WaitGroup
			ids = make(map[int64]struct{}, n)
		)
		for range n {
			wg.Go(func() {
				p, err := repo.CreateProduct(ctx, model.Product{Name: "apple", Price: 1})
				assert.NoError(t, err)

				mu.Lock()
				ids[p.ID] = struct{}{}
				mu.Unlock()
			})
		}
		wg.Wait()

		assert.Len(t, ids, n)
		count, err := repo.CountProducts(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(n), count)
	})
}
