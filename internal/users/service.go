package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmcortes/shoplane-backend/internal/address"
	"github.com/dmcortes/shoplane-backend/internal/orders"
	"github.com/dmcortes/shoplane-backend/pkg/config"
	"github.com/dmcortes/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/dmcortes/shoplane-backend/pkg/errors"
)

// ProfileDTO aggregates the account view: the user row plus their saved
// addresses and order history.
type ProfileDTO struct {
	User      UserDTO              `json:"user"`
	Addresses []address.AddressDTO `json:"addresses"`
	Orders    []orders.OrderDTO    `json:"orders"`
}

// Service exposes account reads and administration.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (ProfileDTO, error)
	ListUsers(ctx context.Context) ([]UserDTO, error)
	GetUser(ctx context.Context, id uuid.UUID) (UserDTO, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (UserDTO, error)
}

type userStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type addressLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]address.AddressDTO, error)
}

type orderLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (orders.OrderPageDTO, error)
}

type service struct {
	users       userStore
	addresses   addressLister
	orders      orderLister
	passwordCfg config.PasswordConfig
}

// NewService builds the account service from the user repo and the sibling
// address and orders services.
func NewService(users userStore, addresses addressLister, orders orderLister, passwordCfg config.PasswordConfig) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address service is required")
	}
	if orders == nil {
		return nil, fmt.Errorf("orders service is required")
	}
	return &service{users: users, addresses: addresses, orders: orders, passwordCfg: passwordCfg}, nil
}

// GetProfile loads the user with their addresses and most recent orders.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (ProfileDTO, error) {
	if userID == uuid.Nil {
		return ProfileDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	addresses, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return ProfileDTO{}, err
	}

	page, err := s.orders.ListByUser(ctx, userID, "", 0)
	if err != nil {
		return ProfileDTO{}, err
	}

	return ProfileDTO{
		User:      FromModel(user),
		Addresses: addresses,
		Orders:    page.Orders,
	}, nil
}
