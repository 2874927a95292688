package address

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmcortes/shoplane-backend/pkg/db/models"
)

// AddressDTO is the public projection of a stored address.
type AddressDTO struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	Country    string    `json:"country"`
	PostalCode string    `json:"postal_code"`
	CreatedAt  time.Time `json:"created_at"`
}

// FromModel converts a persisted address into its DTO.
func FromModel(addr *models.Address) AddressDTO {
	if addr == nil {
		return AddressDTO{}
	}
	return AddressDTO{
		ID:         addr.ID,
		UserID:     addr.UserID,
		Name:       addr.Name,
		Street:     addr.Street,
		City:       addr.City,
		State:      addr.State,
		Country:    addr.Country,
		PostalCode: addr.PostalCode,
		CreatedAt:  addr.CreatedAt,
	}
}

// FromModels converts a slice of addresses.
func FromModels(addrs []models.Address) []AddressDTO {
	out := make([]AddressDTO, 0, len(addrs))
	for i := range addrs {
		out = append(out, FromModel(&addrs[i]))
	}
	return out
}

// CreateAddressRequest carries a new address payload.
type CreateAddressRequest struct {
	Name       string `json:"name" validate:"required"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	Country    string `json:"country" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
}
