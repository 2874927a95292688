package auth

import (
	"github.com/dmcortes/shoplane-backend/internal/users"
)

// RegisterRequest carries a new local-credentials signup.
type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Phone     *string `json:"phone,omitempty"`
}

// LoginRequest carries local login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest rotates a refresh token pair.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the password reset flow.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// GoogleCallbackRequest carries the authorization code returned by Google.
type GoogleCallbackRequest struct {
	Code string `json:"code" validate:"required"`
}

// AuthResponse is returned by every flow that establishes a session.
// RequiresPasswordReset is set for accounts that still carry a placeholder
// password, such as fresh Google sign-ins.
type AuthResponse struct {
	AccessToken           string        `json:"access_token"`
	RefreshToken          string        `json:"refresh_token"`
	User                  users.UserDTO `json:"user"`
	RequiresPasswordReset bool          `json:"requires_password_reset,omitempty"`
}
