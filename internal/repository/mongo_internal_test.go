package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tuanvumaihuynh/catalog-service/pkg/ptr"
)

func TestProductDocument(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	doc := productDocument{
		ObjectID:  primitive.NewObjectID(),
		ID:        7,
		Name:      "Banana",
		Price:     80,
		Images:    []string{"uploads/banana.jpg"},
		Tags:      []string{"organic", "sweet"},
		Rating:    ptr.New(4.5),
		CreatedAt: now,
		UpdatedAt: now,
	}

	t.Run("Should encode with camel case field names and omit empty optionals", func(t *testing.T) {
		raw, err := bson.Marshal(doc)
		require.NoError(t, err)

		var m bson.M
		require.NoError(t, bson.Unmarshal(raw, &m))

		assert.Contains(t, m, "_id")
		assert.Contains(t, m, "createdAt")
		assert.Contains(t, m, "updatedAt")
		assert.EqualValues(t, 7, m["id"])
		assert.NotContains(t, m, "description")
		assert.NotContains(t, m, "sku")
		assert.NotContains(t, m, "image")
	})

	t.Run("Should convert to model without the internal key", func(t *testing.T) {
		p := productDocumentToModel(doc)

		assert.Equal(t, int64(7), p.ID)
		assert.Equal(t, "Banana", p.Name)
		assert.Equal(t, []string{"uploads/banana.jpg"}, p.Images)
		assert.Equal(t, []string{"organic", "sweet"}, p.Tags)
		assert.Equal(t, 4.5, *p.Rating)
		assert.Nil(t, p.Description)
	})

	t.Run("Should convert missing slices to empty slices", func(t *testing.T) {
		p := productDocumentToModel(productDocument{ID: 1, Name: "x"})

		assert.Equal(t, []string{}, p.Images)
		assert.Equal(t, []string{}, p.Tags)
	})
}

func TestProductDocument_LegacySingleImage(t *testing.T) {
	decode := func(t *testing.T, d bson.D) productDocument {
		t.Helper()

		raw, err := bson.Marshal(d)
		require.NoError(t, err)

		var doc productDocument
		require.NoError(t, bson.Unmarshal(raw, &doc))
		return doc
	}

	t.Run("Should read single image document as first image", func(t *testing.T) {
		doc := decode(t, bson.D{
			{Key: "id", Value: 3.0},
			{Key: "name", Value: "Banana"},
			{Key: "price", Value: int32(80)},
			{Key: "image", Value: "uploads/abc123"},
		})

		p := productDocumentToModel(doc)

		assert.Equal(t, int64(3), p.ID)
		assert.Equal(t, 80.0, p.Price)
		assert.Equal(t, []string{"uploads/abc123"}, p.Images)
		assert.Equal(t, []string{}, p.Tags)
		img, ok := p.PrimaryImage()
		require.True(t, ok)
		assert.Equal(t, "uploads/abc123", img)
	})

	t.Run("Should prefer images over the single image field", func(t *testing.T) {
		doc := decode(t, bson.D{
			{Key: "id", Value: int64(4)},
			{Key: "name", Value: "Kiwi"},
			{Key: "price", Value: 3.0},
			{Key: "image", Value: "uploads/old.png"},
			{Key: "images", Value: bson.A{"uploads/a.png", "uploads/b.png"}},
		})

		assert.Equal(t, []string{"uploads/a.png", "uploads/b.png"}, productDocumentToModel(doc).Images)
	})

	t.Run("Should ignore empty single image", func(t *testing.T) {
		doc := decode(t, bson.D{
			{Key: "id", Value: int64(5)},
			{Key: "name", Value: "Fig"},
			{Key: "price", Value: 1.0},
			{Key: "image", Value: ""},
		})

		assert.Equal(t, []string{}, productDocumentToModel(doc).Images)
	})
}

func TestEnsureSchemaHelpers(t *testing.T) {
	t.Run("Should treat an existing id index with other options as satisfied", func(t *testing.T) {
		conflict := mongo.CommandError{Code: indexOptionsConflictCode, Name: "IndexOptionsConflict"}

		assert.True(t, isIndexOptionsConflict(conflict))
		assert.True(t, isIndexOptionsConflict(fmt.Errorf("create index: %w", conflict)))
		assert.False(t, isIndexOptionsConflict(mongo.CommandError{Code: 11000}))
		assert.False(t, isIndexOptionsConflict(errors.New("boom")))
	})

	t.Run("Should raise the counter to the highest stored id only", func(t *testing.T) {
		assert.Equal(t, bson.M{"$max": bson.M{"seq": int64(12)}}, counterSeedUpdate(12))
	})
}
