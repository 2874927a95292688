package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	authsvc "github.com/dmcortes/shoplane-backend/internal/auth"
	"github.com/dmcortes/shoplane-backend/internal/users"
	pkgerrors "github.com/dmcortes/shoplane-backend/pkg/errors"
)

type stubAuthService struct {
	resp *authsvc.AuthResponse
	err  error
}

func (s *stubAuthService) Register(ctx context.Context, req authsvc.RegisterRequest) (*authsvc.AuthResponse, error) {
	return s.resp, s.err
}
func (s *stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.AuthResponse, error) {
	return s.resp, s.err
}
func (s *stubAuthService) Logout(ctx context.Context, accessID string) error { return s.err }
func (s *stubAuthService) Refresh(ctx context.Context, req authsvc.RefreshRequest) (*authsvc.AuthResponse, error) {
	return s.resp, s.err
}
func (s *stubAuthService) GoogleAuthURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}
func (s *stubAuthService) GoogleCallback(ctx context.Context, code string) (*authsvc.AuthResponse, error) {
	return s.resp, s.err
}
func (s *stubAuthService) ForgotPassword(ctx context.Context, email string) error { return s.err }
func (s *stubAuthService) ResetPassword(ctx context.Context, req authsvc.ResetPasswordRequest) error {
	return s.err
}

func TestAuthRegisterCreated(t *testing.T) {
	svc := &stubAuthService{resp: &authsvc.AuthResponse{
		AccessToken:  "token",
		RefreshToken: "refresh",
		User:         users.UserDTO{ID: uuid.New(), Email: "dana@example.com"},
	}}
	handler := AuthRegister(svc, nil)

	body := `{"email":"dana@example.com","password":"super-secret-1","first_name":"Dana","last_name":"Ruiz"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data authsvc.AuthResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "token" {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestAuthRegisterValidation(t *testing.T) {
	handler := AuthRegister(&stubAuthService{}, nil)

	body := `{"email":"not-an-email","password":"x","first_name":"","last_name":""}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLoginUnauthorized(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, nil)

	body := `{"email":"dana@example.com","password":"wrong-password"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthGoogleRedirect(t *testing.T) {
	handler := AuthGoogleRedirect(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google?state=abc", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307 got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); !strings.Contains(loc, "state=abc") {
		t.Fatalf("unexpected redirect target: %s", loc)
	}
}

func TestAuthGoogleCallbackRedirectsToProfile(t *testing.T) {
	svc := &stubAuthService{resp: &authsvc.AuthResponse{
		AccessToken:           "token",
		RefreshToken:          "refresh",
		RequiresPasswordReset: true,
	}}
	handler := AuthGoogleCallback(svc, "https://shop.example.com/", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?code=auth-code", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302 got %d", resp.Code)
	}
	loc := resp.Header().Get("Location")
	if !strings.HasPrefix(loc, "https://shop.example.com/profile?") {
		t.Fatalf("unexpected redirect target: %s", loc)
	}
	if !strings.Contains(loc, "passwordReset=true") || !strings.Contains(loc, "access_token=token") {
		t.Fatalf("redirect must carry the session: %s", loc)
	}
}

func TestAuthGoogleCallbackPostReturnsJSON(t *testing.T) {
	svc := &stubAuthService{resp: &authsvc.AuthResponse{AccessToken: "token", RefreshToken: "refresh"}}
	handler := AuthGoogleCallback(svc, "https://shop.example.com", nil)

	body := `{"code":"auth-code"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/google/callback", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data authsvc.AuthResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "token" {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestAuthForgotPasswordAlwaysOK(t *testing.T) {
	handler := AuthForgotPassword(&stubAuthService{}, nil)

	body := `{"email":"ghost@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/password-reset-request", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
