package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmcortes/shoplane-backend/pkg/db/models"
	"github.com/dmcortes/shoplane-backend/pkg/enums"
	"github.com/dmcortes/shoplane-backend/pkg/types"
)

// OrderItemDTO is a frozen purchase line.
type OrderItemDTO struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	Quantity   int       `json:"quantity"`
	TotalCents int64     `json:"total_cents"`
	Total      string    `json:"total"`
}

// OrderDTO is the public projection of an order with its items.
type OrderDTO struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"user_id"`
	OrderDate     time.Time           `json:"order_date"`
	TotalCents    int64               `json:"total_cents"`
	Total         string              `json:"total"`
	TotalItems    int                 `json:"total_items"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	AddressID     uuid.UUID           `json:"address_id"`
	Items         []OrderItemDTO      `json:"items"`
}

// FromModel converts a persisted order into its DTO.
func FromModel(order *models.Order) OrderDTO {
	if order == nil {
		return OrderDTO{}
	}
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			TotalCents: item.TotalCents,
			Total:      types.FormatCents(item.TotalCents),
		})
	}
	return OrderDTO{
		ID:            order.ID,
		UserID:        order.UserID,
		OrderDate:     order.OrderDate,
		TotalCents:    order.TotalCents,
		Total:         types.FormatCents(order.TotalCents),
		TotalItems:    order.TotalItems,
		PaymentStatus: order.PaymentStatus,
		AddressID:     order.AddressID,
		Items:         items,
	}
}

// OrderPageDTO is a cursor-paginated slice of orders.
type OrderPageDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}
