package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmcortes/shoplane-backend/pkg/enums"
)

// Order is the immutable record of a completed checkout. Aggregates are
// computed from the cart's stored line totals at checkout time and never
// recomputed afterwards.
type Order struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	OrderDate      time.Time           `gorm:"column:order_date;not null"`
	TotalCents     int64               `gorm:"column:total_cents;not null"`
	TotalItems     int                 `gorm:"column:total_items;not null"`
	PaymentStatus  enums.PaymentStatus `gorm:"column:payment_status;not null"`
	AddressID      uuid.UUID           `gorm:"column:address_id;type:uuid;not null"`
	IdempotencyKey *string             `gorm:"column:idempotency_key;uniqueIndex:orders_idempotency_key_key"`
	Items          []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is a frozen copy of a cart line at the moment of purchase,
// decoupled from later product price or stock changes.
type OrderItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Quantity   int       `gorm:"column:quantity;not null"`
	TotalCents int64     `gorm:"column:total_cents;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
