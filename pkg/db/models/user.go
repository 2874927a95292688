package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmcortes/shoplane-backend/pkg/enums"
)

// User represents the canonical identity entity. OAuth-only accounts carry a
// random unusable password hash plus PasswordResetRequired=true until the
// owner completes a reset.
type User struct {
	ID                    uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email                 string         `gorm:"column:email;type:text;not null;uniqueIndex:users_email_key"`
	PasswordHash          string         `gorm:"column:password_hash;not null"`
	FirstName             string         `gorm:"column:first_name;not null"`
	LastName              string         `gorm:"column:last_name;not null"`
	Phone                 *string        `gorm:"column:phone"`
	Role                  enums.UserRole `gorm:"column:role;not null;default:'customer'"`
	GoogleID              *string        `gorm:"column:google_id;uniqueIndex:users_google_id_key"`
	ResetPasswordToken    *string        `gorm:"column:reset_password_token"`
	ResetPasswordExpires  *time.Time     `gorm:"column:reset_password_expires"`
	PasswordResetRequired bool           `gorm:"column:password_reset_required;not null;default:false"`
	CreatedAt             time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
