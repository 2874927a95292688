package address

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmcortes/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/dmcortes/shoplane-backend/pkg/errors"
)

// Service exposes business rules for address management.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateAddressRequest) (AddressDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
	GetOwned(ctx context.Context, userID, addressID uuid.UUID) (AddressDTO, error)
}

type addressRepository interface {
	Create(ctx context.Context, addr *models.Address) (*models.Address, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
}

type service struct {
	repo addressRepository
}

// NewService builds an address service with the required dependencies.
func NewService(repo addressRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository is required")
	}
	return &service{repo: repo}, nil
}

// Create stores a new address for the user.
func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateAddressRequest) (AddressDTO, error) {
	if userID == uuid.Nil {
		return AddressDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	addr := &models.Address{
		UserID:     userID,
		Name:       strings.TrimSpace(req.Name),
		Street:     strings.TrimSpace(req.Street),
		City:       strings.TrimSpace(req.City),
		State:      strings.TrimSpace(req.State),
		Country:    strings.TrimSpace(req.Country),
		PostalCode: strings.TrimSpace(req.PostalCode),
	}

	created, err := s.repo.Create(ctx, addr)
	if err != nil {
		return AddressDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create address")
	}
	return FromModel(created), nil
}

// ListByUser returns the user's addresses.
func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	addrs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list addresses")
	}
	return FromModels(addrs), nil
}

// GetOwned loads an address and verifies it belongs to the user.
func (s *service) GetOwned(ctx context.Context, userID, addressID uuid.UUID) (AddressDTO, error) {
	if userID == uuid.Nil || addressID == uuid.Nil {
		return AddressDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id and address id are required")
	}
	addr, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AddressDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return AddressDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load address")
	}
	if addr.UserID != userID {
		return AddressDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "address does not belong to user")
	}
	return FromModel(addr), nil
}
