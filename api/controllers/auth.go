package controllers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/dmcortes/shoplane-backend/api/middleware"
	"github.com/dmcortes/shoplane-backend/api/responses"
	"github.com/dmcortes/shoplane-backend/api/validators"
	"github.com/dmcortes/shoplane-backend/internal/auth"
	pkgerrors "github.com/dmcortes/shoplane-backend/pkg/errors"
	"github.com/dmcortes/shoplane-backend/pkg/logger"
)

// AuthRegister creates a local account and returns a session.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resp, err := svc.Register(ctx, req)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

// AuthLogin authenticates local credentials.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resp, err := svc.Login(ctx, req)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AuthLogout revokes the caller's refresh session.
func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := svc.Logout(ctx, middleware.AccessIDFromContext(ctx)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthRefresh rotates a token pair.
func AuthRefresh(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req auth.RefreshRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resp, err := svc.Refresh(ctx, req)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AuthGoogleRedirect sends the browser to Google's consent screen.
func AuthGoogleRedirect(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := strings.TrimSpace(r.URL.Query().Get("state"))
		if state == "" {
			state = uuid.NewString()
		}
		url := svc.GoogleAuthURL(state)
		if url == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "google sign-in is not configured"))
			return
		}
		http.Redirect(w, r, url, http.StatusTemporaryRedirect)
	}
}

// AuthGoogleCallback completes the OAuth code exchange and issues a session.
// Browser redirects from Google arrive as GET and are bounced to the frontend
// profile page; SPA clients POST the code and get the session as JSON.
func AuthGoogleCallback(svc auth.Service, frontendURL string, logg *logger.Logger) http.HandlerFunc {
	frontendURL = strings.TrimRight(frontendURL, "/")
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		code := strings.TrimSpace(r.URL.Query().Get("code"))
		if code == "" {
			var req auth.GoogleCallbackRequest
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			code = req.Code
		}

		resp, err := svc.GoogleCallback(ctx, code)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if r.Method == http.MethodGet {
			target := frontendURL + "/profile"
			params := url.Values{}
			params.Set("access_token", resp.AccessToken)
			params.Set("refresh_token", resp.RefreshToken)
			if resp.RequiresPasswordReset {
				params.Set("passwordReset", "true")
			}
			http.Redirect(w, r, target+"?"+params.Encode(), http.StatusFound)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AuthForgotPassword starts the reset flow. The response is identical whether
// or not the email exists.
func AuthForgotPassword(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req auth.ForgotPasswordRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.ForgotPassword(ctx, req.Email); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "email_sent"})
	}
}

// AuthResetPassword completes the reset flow with a mailed token.
func AuthResetPassword(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req auth.ResetPasswordRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.ResetPassword(ctx, req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "password_updated"})
	}
}
