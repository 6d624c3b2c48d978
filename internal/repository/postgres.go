package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuanvumaihuynh/catalog-service/internal/model"
	"github.com/tuanvumaihuynh/catalog-service/internal/storage/db"
)

const productColumns = `id, name, price, description, images, size, category, tags, sku, rating, created_at, updated_at`

// PostgresDB is the subset of db.Client the product repository needs.
type PostgresDB interface {
	db.DB
	db.HealthChecker
}

var _ ProductRepository = (*postgresProductRepository)(nil)

type postgresProductRepository struct {
	db PostgresDB
}

func NewPostgresProductRepository(db PostgresDB) ProductRepository {
	return &postgresProductRepository{
		db: db,
	}
}

type productRow struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Price       pgtype.Numeric `db:"price"`
	Description *string        `db:"description"`
	Images      []string       `db:"images"`
	Size        *string        `db:"size"`
	Category    *string        `db:"category"`
	Tags        []string       `db:"tags"`
	Sku         *string        `db:"sku"`
	Rating      *float64       `db:"rating"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r postgresProductRepository) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	if err := checkRequired(product); err != nil {
		return model.Product{}, err
	}

	var price pgtype.Numeric
	if err := price.Scan(strconv.FormatFloat(product.Price, 'f', -1, 64)); err != nil {
		return model.Product{}, fmt.Errorf("scan price: %w", err)
	}

	now := time.Now()
	rows, err := r.db.Query(ctx, `
		INSERT INTO products (name, price, description, images, size, category, tags, sku, rating, created_at, updated_at)
		VALUES (@name, @price, @description, @images, @size, @category, @tags, @sku, @rating, @created_at, @updated_at)
		RETURNING `+productColumns,
		pgx.NamedArgs{
			"name":        product.Name,
			"price":       price,
			"description": product.Description,
			"images":      nonNil(product.Images),
			"size":        product.Size,
			"category":    product.Category,
			"tags":        nonNil(product.Tags),
			"sku":         product.Sku,
			"rating":      product.Rating,
			"created_at":  now,
			"updated_at":  now,
		})
	if err != nil {
		return model.Product{}, fmt.Errorf("insert product: %w", mapPgError(err))
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return model.Product{}, fmt.Errorf("insert product: %w", mapPgError(err))
	}

	return productRowToModel(row)
}

func (r postgresProductRepository) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}

	productRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return nil, fmt.Errorf("collect products: %w", err)
	}

	products := make([]model.Product, 0, len(productRows))
	for _, row := range productRows {
		product, err := productRowToModel(row)
		if err != nil {
			return nil, fmt.Errorf("convert product row: %w", err)
		}
		products = append(products, product)
	}

	return products, nil
}

func (r postgresProductRepository) GetProductByID(ctx context.Context, id int64) (model.Product, bool, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = @id`,
		pgx.NamedArgs{"id": id})
	if err != nil {
		return model.Product{}, false, fmt.Errorf("get product by id: %w", err)
	}

	return collectOptionalProduct(rows)
}

func (r postgresProductRepository) DeleteProductByID(ctx context.Context, id int64) (model.Product, bool, error) {
	rows, err := r.db.Query(ctx, `DELETE FROM products WHERE id = @id RETURNING `+productColumns,
		pgx.NamedArgs{"id": id})
	if err != nil {
		return model.Product{}, false, fmt.Errorf("delete product by id: %w", err)
	}

	return collectOptionalProduct(rows)
}

func (r postgresProductRepository) DeleteAllProducts(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM products`)
	if err != nil {
		return 0, fmt.Errorf("delete all products: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r postgresProductRepository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}

	return count, nil
}

func (r postgresProductRepository) IsHealthy(ctx context.Context) (bool, error) {
	return r.db.IsHealthy(ctx)
}

func collectOptionalProduct(rows pgx.Rows) (model.Product, bool, error) {
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, false, nil
	}
	if err != nil {
		return model.Product{}, false, fmt.Errorf("collect product: %w", err)
	}

	product, err := productRowToModel(row)
	if err != nil {
		return model.Product{}, false, err
	}

	return product, true, nil
}

func productRowToModel(row productRow) (model.Product, error) {
	price, err := row.Price.Float64Value()
	if err != nil {
		return model.Product{}, fmt.Errorf("convert price to float64: %w", err)
	}

	return model.Product{
		ID:          row.ID,
		Name:        row.Name,
		Price:       price.Float64,
		Description: row.Description,
		Images:      nonNil(row.Images),
		Size:        row.Size,
		Category:    row.Category,
		Tags:        nonNil(row.Tags),
		Sku:         row.Sku,
		Rating:      row.Rating,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

// mapPgError translates constraint violations into repository errors and
// returns any other error unchanged.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		return fmt.Errorf("%w: %s", ErrDuplicateProductID, pgErr.ConstraintName)
	case "23502": // not_null_violation
		return fmt.Errorf("%w: %s", ErrMissingRequiredField, pgErr.ColumnName)
	case "23514": // check_violation
		return fmt.Errorf("%w: %s", ErrConstraintViolation, pgErr.ConstraintName)
	default:
		return err
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
