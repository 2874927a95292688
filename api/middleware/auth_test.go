package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgAuth "github.com/dmcortes/shoplane-backend/pkg/auth"
	"github.com/dmcortes/shoplane-backend/pkg/config"
	"github.com/dmcortes/shoplane-backend/pkg/enums"
)

var testJWT = config.JWTConfig{
	Secret:                 "middleware-test-secret",
	Issuer:                 "shoplane-test",
	ExpirationMinutes:      15,
	RefreshTokenTTLMinutes: 60,
}

type stubSessionChecker struct {
	ok  bool
	err error
}

func (s stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.ok, s.err
}

func mintTestToken(t *testing.T, userID uuid.UUID, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testJWT, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthSeedsContext(t *testing.T) {
	userID := uuid.New()
	var gotUserID uuid.UUID
	var gotRole enums.UserRole

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
	})
	handler := Auth(testJWT, stubSessionChecker{ok: true}, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, userID, enums.UserRoleAdmin))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotUserID != userID || gotRole != enums.UserRoleAdmin {
		t.Fatalf("context not seeded: %s %s", gotUserID, gotRole)
	}
}

func TestAuthMissingHeader(t *testing.T) {
	handler := Auth(testJWT, stubSessionChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRevokedSession(t *testing.T) {
	handler := Auth(testJWT, stubSessionChecker{ok: false}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, uuid.New(), enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRequireAdminBlocksCustomers(t *testing.T) {
	handler := RequireAdmin(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", nil)
	req = req.WithContext(WithUser(req.Context(), uuid.New(), enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func selfOrAdminRequest(userID uuid.UUID, role enums.UserRole, pathUserID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+pathUserID, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userId", pathUserID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(WithUser(ctx, userID, role))
}

func TestRequireSelfOrAdmin(t *testing.T) {
	userID := uuid.New()

	cases := []struct {
		name string
		role enums.UserRole
		path string
		want int
	}{
		{"self passes", enums.UserRoleCustomer, userID.String(), http.StatusOK},
		{"admin passes for anyone", enums.UserRoleAdmin, uuid.NewString(), http.StatusOK},
		{"other customer blocked", enums.UserRoleCustomer, uuid.NewString(), http.StatusForbidden},
		{"bad id rejected", enums.UserRoleCustomer, "not-a-uuid", http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := RequireSelfOrAdmin("userId", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, selfOrAdminRequest(userID, tc.role, tc.path))

			if resp.Code != tc.want {
				t.Fatalf("expected %d got %d", tc.want, resp.Code)
			}
		})
	}
}
