package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tuanvumaihuynh/catalog-service/internal/model"
)

const (
	productsCollection = "products"
	countersCollection = "counters"

	// indexOptionsConflictCode is returned when an index on the same keys
	// already exists under different options.
	indexOptionsConflictCode = 85
)

var _ ProductRepository = (*MongoProductRepository)(nil)

// MongoProductRepository stores products in a MongoDB collection. Ids come
// from an atomically incremented counter document; a unique index on "id"
// backs the uniqueness guarantee.
type MongoProductRepository struct {
	db       *mongo.Database
	products *mongo.Collection
	counters *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		db:       db,
		products: db.Collection(productsCollection),
		counters: db.Collection(countersCollection),
	}
}

type productDocument struct {
	ObjectID    primitive.ObjectID `bson:"_id,omitempty"`
	ID          int64              `bson:"id"`
	Name        string             `bson:"name"`
	Price       float64            `bson:"price"`
	Description *string            `bson:"description,omitempty"`
	Images      []string           `bson:"images"`
	// LegacyImage is the single attachment of documents written before
	// products carried several images. It is read, never written.
	LegacyImage *string            `bson:"image,omitempty"`
	Size        *string            `bson:"size,omitempty"`
	Category    *string            `bson:"category,omitempty"`
	Tags        []string           `bson:"tags"`
	Sku         *string            `bson:"sku,omitempty"`
	Rating      *float64           `bson:"rating,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type counterDocument struct {
	Seq int64 `bson:"seq"`
}

// EnsureSchema prepares a collection for writes: it creates the unique
// index on the product id (default name "id_1", shared with collections
// created by earlier deployments) and moves the id counter past the
// highest stored id so new ids never collide with existing documents.
func (r *MongoProductRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil && !isIndexOptionsConflict(err) {
		return fmt.Errorf("create product id index: %w", err)
	}

	maxID, err := r.maxProductID(ctx)
	if err != nil {
		return err
	}

	_, err = r.counters.UpdateOne(ctx,
		bson.M{"_id": productsCollection},
		counterSeedUpdate(maxID),
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("seed product id counter: %w", err)
	}

	return nil
}

func (r *MongoProductRepository) maxProductID(ctx context.Context) (int64, error) {
	var doc struct {
		ID int64 `bson:"id"`
	}
	err := r.products.FindOne(ctx, bson.D{},
		options.FindOne().
			SetSort(bson.D{{Key: "id", Value: -1}}).
			SetProjection(bson.D{{Key: "id", Value: 1}}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find highest product id: %w", err)
	}

	return doc.ID, nil
}

// counterSeedUpdate raises the counter to at least maxID and leaves a
// higher counter untouched.
func counterSeedUpdate(maxID int64) bson.M {
	return bson.M{"$max": bson.M{"seq": maxID}}
}

func isIndexOptionsConflict(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == indexOptionsConflictCode
}

func (r *MongoProductRepository) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	if err := checkRequired(product); err != nil {
		return model.Product{}, err
	}

	id, err := r.nextID(ctx)
	if err != nil {
		return model.Product{}, fmt.Errorf("next product id: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := productDocument{
		ID:          id,
		Name:        product.Name,
		Price:       product.Price,
		Description: product.Description,
		Images:      nonNil(product.Images),
		Size:        product.Size,
		Category:    product.Category,
		Tags:        nonNil(product.Tags),
		Sku:         product.Sku,
		Rating:      product.Rating,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.products.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.Product{}, fmt.Errorf("insert product: %w", ErrDuplicateProductID)
		}
		return model.Product{}, fmt.Errorf("insert product: %w", err)
	}

	return productDocumentToModel(doc), nil
}

func (r *MongoProductRepository) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	cursor, err := r.products.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]model.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, productDocumentToModel(doc))
	}

	return products, nil
}

func (r *MongoProductRepository) GetProductByID(ctx context.Context, id int64) (model.Product, bool, error) {
	var doc productDocument
	err := r.products.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Product{}, false, nil
	}
	if err != nil {
		return model.Product{}, false, fmt.Errorf("find product by id: %w", err)
	}

	return productDocumentToModel(doc), true, nil
}

func (r *MongoProductRepository) DeleteProductByID(ctx context.Context, id int64) (model.Product, bool, error) {
	var doc productDocument
	err := r.products.FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Product{}, false, nil
	}
	if err != nil {
		return model.Product{}, false, fmt.Errorf("find and delete product: %w", err)
	}

	return productDocumentToModel(doc), true, nil
}

func (r *MongoProductRepository) DeleteAllProducts(ctx context.Context) (int64, error) {
	res, err := r.products.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("delete all products: %w", err)
	}

	return res.DeletedCount, nil
}

func (r *MongoProductRepository) CountProducts(ctx context.Context) (int64, error) {
	count, err := r.products.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}

	return count, nil
}

func (r *MongoProductRepository) IsHealthy(ctx context.Context) (bool, error) {
	if err := r.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return false, fmt.Errorf("ping mongo: %w", err)
	}
	return true, nil
}

func (r *MongoProductRepository) nextID(ctx context.Context) (int64, error) {
	var counter counterDocument
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": productsCollection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("increment counter: %w", err)
	}

	return counter.Seq, nil
}

func productDocumentToModel(doc productDocument) model.Product {
	images := nonNil(doc.Images)
	if len(images) == 0 && doc.LegacyImage != nil && *doc.LegacyImage != "" {
		images = []string{*doc.LegacyImage}
	}

	return model.Product{
		ID:          doc.ID,
		Name:        doc.Name,
		Price:       doc.Price,
		Description: doc.Description,
		Images:      images,
		Size:        doc.Size,
		Category:    doc.Category,
		Tags:        nonNil(doc.Tags),
		Sku:         doc.Sku,
		Rating:      doc.Rating,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}
