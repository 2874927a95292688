package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/dmcortes/shoplane-backend/internal/users"
	"github.com/dmcortes/shoplane-backend/pkg/db"
	"github.com/dmcortes/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/dmcortes/shoplane-backend/pkg/errors"
	"github.com/dmcortes/shoplane-backend/pkg/security"
)

// GoogleAuthURL builds the consent-screen redirect for the given state.
func (s *service) GoogleAuthURL(state string) string {
	if s.google == nil {
		return ""
	}
	return s.google.AuthCodeURL(state)
}

// GoogleCallback exchanges the authorization code, then resolves the profile
// to a local account: by google id first, by email (linking) second, and a
// fresh account last. Fresh accounts get a throwaway password and must reset
// it before local login works.
func (s *service) GoogleCallback(ctx context.Context, code string) (*AuthResponse, error) {
	if s.google == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "google sign-in is not configured")
	}

	profile, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "exchange authorization code")
	}
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "google profile has no email")
	}

	user, err := s.users.FindByGoogleID(ctx, profile.ID)
	if err == nil {
		return s.establishSession(ctx, user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup google id")
	}

	user, err = s.users.FindByEmail(ctx, email)
	if err == nil {
		if err := s.users.LinkGoogleID(ctx, user.ID, profile.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "link google id")
		}
		user.GoogleID = &profile.ID
		return s.establishSession(ctx, user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup email")
	}

	user, err = s.createGoogleUser(ctx, profile.ID, email, profile.GivenName, profile.FamilyName)
	if err != nil {
		return nil, err
	}
	// The courtesy reset email must not block sign-in.
	if s.mailer != nil {
		_ = s.ForgotPassword(ctx, email)
	}
	return s.establishSession(ctx, user)
}

func (s *service) createGoogleUser(ctx context.Context, googleID, email, firstName, lastName string) (*models.User, error) {
	tempPassword, err := security.GenerateTempPassword(16)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate placeholder password")
	}
	hash, err := security.HashPassword(tempPassword, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash placeholder password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:                 email,
		PasswordHash:          hash,
		FirstName:             firstName,
		LastName:              lastName,
		GoogleID:              &googleID,
		PasswordResetRequired: true,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "users_email_key") || db.IsUniqueViolation(err, "users_google_id_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "account already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return user, nil
}
