package cart

import (
	"time"

	"github.com/google/uuid"
)

// CartItemDTO is one line of the cart, joined with its product.
type CartItemDTO struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	TotalCents     int64     `json:"total_cents"`
}

// CartDTO is the full cart view returned to clients.
type CartDTO struct {
	ID         uuid.UUID     `json:"id"`
	UserID     uuid.UUID     `json:"user_id"`
	Items      []CartItemDTO `json:"items"`
	TotalItems int           `json:"total_items"`
	TotalCents int64         `json:"total_cents"`
	Total      string        `json:"total"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// AddItemRequest adds or increments a product line.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// UpdateItemRequest replaces the quantity of an existing line. Quantity zero
// removes the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// MergeRequest folds a client-side cart into the stored one, line by line.
type MergeRequest struct {
	Items []AddItemRequest `json:"items" validate:"required,dive"`
}
