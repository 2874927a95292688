package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmcortes/shoplane-backend/pkg/db/models"
	"github.com/dmcortes/shoplane-backend/pkg/enums"
)

// UserDTO is the public projection of a user. The password hash and reset
// token never leave the service layer.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Phone     *string        `json:"phone,omitempty"`
	Role      enums.UserRole `json:"role"`
	CreatedAt time.Time      `json:"created_at"`
}

// FromModel converts a persisted user into its public DTO.
func FromModel(user *models.User) UserDTO {
	if user == nil {
		return UserDTO{}
	}
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// CreateUserDTO carries the fields needed to insert a user row.
type CreateUserDTO struct {
	Email                 string
	PasswordHash          string
	FirstName             string
	LastName              string
	Phone                 *string
	Role                  enums.UserRole
	GoogleID              *string
	PasswordResetRequired bool
}

// ToModel materializes the DTO into a persistence model.
func (d CreateUserDTO) ToModel() *models.User {
	role := d.Role
	if !role.IsValid() {
		role = enums.UserRoleCustomer
	}
	return &models.User{
		Email:                 strings.ToLower(strings.TrimSpace(d.Email)),
		PasswordHash:          d.PasswordHash,
		FirstName:             strings.TrimSpace(d.FirstName),
		LastName:              strings.TrimSpace(d.LastName),
		Phone:                 d.Phone,
		Role:                  role,
		GoogleID:              d.GoogleID,
		PasswordResetRequired: d.PasswordResetRequired,
	}
}
