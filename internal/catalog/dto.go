package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmcortes/shoplane-backend/pkg/db/models"
	"github.com/dmcortes/shoplane-backend/pkg/types"
)

// ProductDTO is the public projection of a catalog product.
type ProductDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	CategoryID  uuid.UUID `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductFromModel converts a persisted product into its DTO.
func ProductFromModel(p *models.Product) ProductDTO {
	if p == nil {
		return ProductDTO{}
	}
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Price:       types.FormatCents(p.PriceCents),
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// CategoryDTO is the public projection of a category.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryFromModel converts a persisted category into its DTO.
func CategoryFromModel(c *models.Category) CategoryDTO {
	if c == nil {
		return CategoryDTO{}
	}
	return CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}

// ProductPageDTO is a cursor-paginated slice of products.
type ProductPageDTO struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// CreateProductRequest carries a new product payload.
type CreateProductRequest struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description" validate:"required"`
	PriceCents  int64     `json:"price_cents" validate:"required,gt=0"`
	Stock       int       `json:"stock" validate:"gte=0"`
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
}

// UpdateProductRequest carries a partial product update. Nil fields are untouched.
type UpdateProductRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	PriceCents  *int64     `json:"price_cents,omitempty" validate:"omitempty,gt=0"`
	Stock       *int       `json:"stock,omitempty" validate:"omitempty,gte=0"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
}

// CreateCategoryRequest carries a new category payload.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}
