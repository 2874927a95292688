package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmcortes/shoplane-backend/api/middleware"
	checkoutsvc "github.com/dmcortes/shoplane-backend/internal/checkout"
	"github.com/dmcortes/shoplane-backend/internal/orders"
	"github.com/dmcortes/shoplane-backend/pkg/enums"
	pkgerrors "github.com/dmcortes/shoplane-backend/pkg/errors"
)

type stubCheckoutService struct {
	order orders.OrderDTO
	err   error

	gotUserID uuid.UUID
	gotInput  checkoutsvc.CheckoutInput
}

func (s *stubCheckoutService) Execute(ctx context.Context, userID uuid.UUID, input checkoutsvc.CheckoutInput) (orders.OrderDTO, error) {
	s.gotUserID = userID
	s.gotInput = input
	if s.err != nil {
		return orders.OrderDTO{}, s.err
	}
	return s.order, nil
}

func checkoutRequest(userID, cartID uuid.UUID, body, idempotencyKey string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/"+cartID.String()+"/checkout", strings.NewReader(body))
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("cartId", cartID.String())
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(middleware.WithUser(ctx, userID, enums.UserRoleCustomer))
}

func TestCheckoutSuccess(t *testing.T) {
	userID := uuid.New()
	cartID := uuid.New()
	addressID := uuid.New()
	svc := &stubCheckoutService{order: orders.OrderDTO{
		ID:            uuid.New(),
		UserID:        userID,
		PaymentStatus: enums.PaymentStatusPaid,
	}}
	handler := Checkout(svc, nil)

	body := `{"address_id":"` + addressID.String() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, checkoutRequest(userID, cartID, body, "key-123"))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.gotUserID != userID {
		t.Fatal("user id not taken from the request context")
	}
	if svc.gotInput.CartID != cartID || svc.gotInput.AddressID != addressID || svc.gotInput.IdempotencyKey != "key-123" {
		t.Fatalf("unexpected input: %+v", svc.gotInput)
	}

	var envelope struct {
		Data orders.OrderDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != svc.order.ID {
		t.Fatalf("unexpected order id: %s", envelope.Data.ID)
	}
}

func TestCheckoutIdempotencyConflict(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key already used")}
	handler := Checkout(svc, nil)

	body := `{"address_id":"` + uuid.NewString() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, checkoutRequest(uuid.New(), uuid.New(), body, "key-123"))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestCheckoutPaymentFailure(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodePaymentFailed, "card declined")}
	handler := Checkout(svc, nil)

	body := `{"address_id":"` + uuid.NewString() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, checkoutRequest(uuid.New(), uuid.New(), body, ""))

	if resp.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402 got %d", resp.Code)
	}
}

func TestCheckoutRejectsUnknownFields(t *testing.T) {
	svc := &stubCheckoutService{}
	handler := Checkout(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, checkoutRequest(uuid.New(), uuid.New(), `{"address_id":"`+uuid.NewString()+`","extra":1}`, ""))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
