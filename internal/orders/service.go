package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmcortes/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/dmcortes/shoplane-backend/pkg/errors"
)

// Service exposes read access to completed orders.
type Service interface {
	ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (OrderPageDTO, error)
	GetForUser(ctx context.Context, userID, orderID uuid.UUID, admin bool) (OrderDTO, error)
	Delete(ctx context.Context, orderID uuid.UUID) error
}

type orderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]models.Order, string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	orders orderRepository
}

// NewService builds an orders service with the required dependencies.
func NewService(repo orderRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	return &service{orders: repo}, nil
}

// ListByUser returns the user's order history, newest first.
func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (OrderPageDTO, error) {
	if userID == uuid.Nil {
		return OrderPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	orders, nextCursor, err := s.orders.ListByUser(ctx, userID, cursor, limit)
	if err != nil {
		return OrderPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	dtos := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, FromModel(&orders[i]))
	}
	return OrderPageDTO{Orders: dtos, NextCursor: nextCursor}, nil
}

// GetForUser loads an order, enforcing ownership unless the caller is an admin.
func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID, admin bool) (OrderDTO, error) {
	if orderID == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if !admin && order.UserID != userID {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}
	return FromModel(order), nil
}

// Delete removes an order outright. Route-level guards keep this admin-only.
func (s *service) Delete(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if err := s.orders.Delete(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order")
	}
	return nil
}
