package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tuanvumaihuynh/catalog-service/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-service/internal/model"
	"github.com/tuanvumaihuynh/catalog-service/internal/repository"
	"github.com/tuanvumaihuynh/catalog-service/pkg/validator"
)

// CreateProductParams is the raw create input. Tags is the comma-delimited
// form value; Images are attachment references already written to storage.
type CreateProductParams struct {
	Name        string   `form:"name" validate:"notblank"`
	Price       *float64 `form:"price" validate:"required,gte=0"`
	Description *string  `form:"description"`
	Size        *string  `form:"size"`
	Category    *string  `form:"category"`
	Tags        string   `form:"tags"`
	Sku         *string  `form:"sku"`
	Rating      *float64 `form:"rating" validate:"omitempty,gte=0,lte=5"`
	Images      []string `form:"images" validate:"dive,notblank"`
}

type ProductService interface {
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	ListAllProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	DeleteProduct(ctx context.Context, id int64) (model.Product, error)
	DeleteAllProducts(ctx context.Context) (int64, error)
}

type productService struct {
	validator   validator.Validator
	productRepo repository.ProductRepository
}

func NewProductService(
	validator validator.Validator,
	productRepo repository.ProductRepository,
) ProductService {
	return &productService{
		validator:   validator,
		productRepo: productRepo,
	}
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	params.Name = strings.TrimSpace(params.Name)
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, fmt.Errorf("validate create product params: %w", err)
	}

	candidate := model.Product{
		Name:        params.Name,
		Price:       *params.Price,
		Description: params.Description,
		Images:      append([]string{}, params.Images...),
		Size:        params.Size,
		Category:    params.Category,
		Tags:        SplitTags(params.Tags),
		Sku:         params.Sku,
		Rating:      params.Rating,
	}

	product, err := s.productRepo.CreateProduct(ctx, candidate)
	if errors.Is(err, repository.ErrConstraintViolation) {
		return model.Product{}, apperr.ProductConflictErr.WrapParent(err)
	}
	if err != nil {
		return model.Product{}, apperr.StoreErr.WrapParent(fmt.Errorf("product repository create product: %w", err))
	}

	return product, nil
}

func (s *productService) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListAllProducts(ctx)
	if err != nil {
		return nil, apperr.StoreErr.WrapParent(fmt.Errorf("product repository list all products: %w", err))
	}

	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	product, ok, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return model.Product{}, apperr.StoreErr.WrapParent(fmt.Errorf("product repository get product by id: %w", err))
	}
	if !ok {
		return model.Product{}, apperr.ProductNotFoundErr
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) (model.Product, error) {
	product, ok, err := s.productRepo.DeleteProductByID(ctx, id)
	if err != nil {
		return model.Product{}, apperr.StoreErr.WrapParent(fmt.Errorf("product repository delete product by id: %w", err))
	}
	if !ok {
		return model.Product{}, apperr.ProductNotFoundErr
	}

	return product, nil
}

func (s *productService) DeleteAllProducts(ctx context.Context) (int64, error) {
	n, err := s.productRepo.DeleteAllProducts(ctx)
	if err != nil {
		return 0, apperr.StoreErr.WrapParent(fmt.Errorf("product repository delete all products: %w", err))
	}

	return n, nil
}

// SplitTags splits a comma-delimited list into trimmed, non-empty labels.
// Order and duplicates are preserved.
func SplitTags(raw string) []string {
	tags := []string{}
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
