package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmcortes/shoplane-backend/pkg/db"
	"github.com/dmcortes/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/dmcortes/shoplane-backend/pkg/errors"
)

// Service exposes business rules for catalog management.
type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (ProductDTO, error)
	ListProducts(ctx context.Context, categoryID *uuid.UUID, cursor string, limit int) (ProductPageDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, req CreateCategoryRequest) (CategoryDTO, error)
	GetCategory(ctx context.Context, id uuid.UUID) (CategoryDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryRepository interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountProducts(ctx context.Context, id uuid.UUID) (int64, error)
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	ProductRepo  ProductRepository
	CategoryRepo categoryRepository
}

type service struct {
	products   ProductRepository
	categories categoryRepository
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.CategoryRepo == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	return &service{
		products:   params.ProductRepo,
		categories: params.CategoryRepo,
	}, nil
}

// CreateProduct validates the category and inserts the product.
func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (ProductDTO, error) {
	if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	product := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return ProductFromModel(created), nil
}

// GetProduct loads a single product.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (ProductDTO, error) {
	if id == uuid.Nil {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return ProductFromModel(product), nil
}

// ListProducts returns a cursor-paginated product page.
func (s *service) ListProducts(ctx context.Context, categoryID *uuid.UUID, cursor string, limit int) (ProductPageDTO, error) {
	products, nextCursor, err := s.products.List(ctx, categoryID, cursor, limit)
	if err != nil {
		return ProductPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, ProductFromModel(&products[i]))
	}
	return ProductPageDTO{Products: dtos, NextCursor: nextCursor}, nil
}

// UpdateProduct applies a partial update and returns the fresh row.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (ProductDTO, error) {
	if id == uuid.Nil {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.products.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.PriceCents != nil {
		if *req.PriceCents <= 0 {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		updates["price_cents"] = *req.PriceCents
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		updates["stock"] = *req.Stock
	}
	if req.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
			return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
		}
		updates["category_id"] = *req.CategoryID
	}

	if len(updates) == 0 {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.products.Update(ctx, id, updates); err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}

	fresh, err := s.products.FindByID(ctx, id)
	if err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload product")
	}
	return ProductFromModel(fresh), nil
}

// DeleteProduct removes a product.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.products.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

// CreateCategory inserts a new category enforcing name uniqueness.
func (s *service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (CategoryDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return CategoryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	created, err := s.categories.Create(ctx, &models.Category{Name: name})
	if err != nil {
		if db.IsUniqueViolation(err, "categories_name_key") {
			return CategoryDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return CategoryDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return CategoryFromModel(created), nil
}

// GetCategory loads a single category.
func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (CategoryDTO, error) {
	if id == uuid.Nil {
		return CategoryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CategoryDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return CategoryDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	return CategoryFromModel(category), nil
}

// ListCategories returns every category.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		dtos = append(dtos, CategoryFromModel(&categories[i]))
	}
	return dtos, nil
}

// DeleteCategory removes a category once no products reference it.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	count, err := s.categories.CountProducts(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has products")
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return nil
}
