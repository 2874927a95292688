package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmcortes/shoplane-backend/internal/cart"
	"github.com/dmcortes/shoplane-backend/internal/catalog"
	"github.com/dmcortes/shoplane-backend/internal/orders"
	"github.com/dmcortes/shoplane-backend/pkg/db"
	"github.com/dmcortes/shoplane-backend/pkg/db/models"
	"github.com/dmcortes/shoplane-backend/pkg/enums"
	pkgerrors "github.com/dmcortes/shoplane-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type addressLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
}

// PaymentAuthorizer charges the buyer before the order transaction commits.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, userID uuid.UUID, amountCents int64) (reference string, err error)
}

// CheckoutInput captures the request data driving a checkout.
type CheckoutInput struct {
	CartID         uuid.UUID
	AddressID      uuid.UUID
	IdempotencyKey string
}

// Service executes checkout orchestration.
type Service interface {
	Execute(ctx context.Context, userID uuid.UUID, input CheckoutInput) (orders.OrderDTO, error)
}

type service struct {
	tx          txRunner
	cartRepo    cart.CartRepository
	ordersRepo  orders.Repository
	productRepo catalog.ProductRepository
	addresses   addressLoader
	payments    PaymentAuthorizer
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	cartRepo cart.CartRepository,
	ordersRepo orders.Repository,
	productRepo catalog.ProductRepository,
	addresses addressLoader,
	payments PaymentAuthorizer,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address loader required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payment authorizer required")
	}
	return &service{
		tx:          tx,
		cartRepo:    cartRepo,
		ordersRepo:  ordersRepo,
		productRepo: productRepo,
		addresses:   addresses,
		payments:    payments,
	}, nil
}

// Execute turns the user's cart into an order. The payment is authorized
// first; every database write then happens in one transaction so a stock
// shortfall rolls the whole order back.
func (s *service) Execute(ctx context.Context, userID uuid.UUID, input CheckoutInput) (orders.OrderDTO, error) {
	if userID == uuid.Nil {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.CartID == uuid.Nil {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cart id required")
	}
	if input.AddressID == uuid.Nil {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "address id required")
	}

	idempotencyKey := strings.TrimSpace(input.IdempotencyKey)
	if idempotencyKey != "" {
		if existing, err := s.ordersRepo.FindByIdempotencyKey(ctx, idempotencyKey); err == nil {
			if existing.UserID != userID {
				return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key already used")
			}
			return orders.FromModel(existing), nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return orders.OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup idempotency key")
		}
	}

	addr, err := s.addresses.FindByID(ctx, input.AddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "address not found")
		}
		return orders.OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load address")
	}
	if addr.UserID != userID {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "address does not belong to user")
	}

	record, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return orders.OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	// A cart id that is not the caller's own cart is indistinguishable from a
	// missing one.
	if record.ID != input.CartID {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	if len(record.Items) == 0 {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}

	// Aggregates come from the stored line totals, not a recomputation
	// against current product prices.
	var totalCents int64
	totalItems := 0
	for _, item := range record.Items {
		totalCents += item.TotalCents
		totalItems += item.Quantity
	}

	if _, err := s.payments.Authorize(ctx, userID, totalCents); err != nil {
		return orders.OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodePaymentFailed, err, "authorize payment")
	}

	order := &models.Order{
		UserID:        userID,
		OrderDate:     time.Now().UTC(),
		TotalCents:    totalCents,
		TotalItems:    totalItems,
		PaymentStatus: enums.PaymentStatusPaid,
		AddressID:     input.AddressID,
	}
	if idempotencyKey != "" {
		order.IdempotencyKey = &idempotencyKey
	}

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		for _, item := range record.Items {
			ok, err := productRepo.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
			}
		}

		items := make([]models.OrderItem, 0, len(record.Items))
		for _, item := range record.Items {
			items = append(items, models.OrderItem{
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				TotalCents: item.TotalCents,
			})
		}
		order.Items = items

		if _, err := ordersRepo.Create(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "orders_idempotency_key_key") {
				return pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key already used")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		if err := cartRepo.DeleteItems(ctx, record.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}
		return nil
	})
	if txErr != nil {
		// Concurrent duplicate: a parallel request won the key. Replay its order.
		if typed := pkgerrors.As(txErr); typed != nil && typed.Code() == pkgerrors.CodeIdempotency && idempotencyKey != "" {
			if existing, err := s.ordersRepo.FindByIdempotencyKey(ctx, idempotencyKey); err == nil && existing.UserID == userID {
				return orders.FromModel(existing), nil
			}
		}
		return orders.OrderDTO{}, txErr
	}

	return orders.FromModel(order), nil
}
