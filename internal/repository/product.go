package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tuanvumaihuynh/catalog-service/internal/model"
)

var (
	// ErrConstraintViolation is the parent of every store-level constraint failure.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrDuplicateProductID is returned when an insert collides with an existing product id.
	ErrDuplicateProductID = fmt.Errorf("%w: duplicate product id", ErrConstraintViolation)

	// ErrMissingRequiredField is returned when an insert lacks a field the store requires.
	ErrMissingRequiredField = fmt.Errorf("%w: missing required field", ErrConstraintViolation)
)

// ProductRepository persists products. Product ids are assigned by the
// store on insert and are never reused.
//
// Lookups and deletes report absence through the boolean result, not
// through an error.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product model.Product) (model.Product, error)
	ListAllProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id int64) (model.Product, bool, error)
	DeleteProductByID(ctx context.Context, id int64) (model.Product, bool, error)
	DeleteAllProducts(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	IsHealthy(ctx context.Context) (bool, error)
}

func checkRequired(product model.Product) error {
	if product.Name == "" {
		return ErrMissingRequiredField
	}
	return nil
}
