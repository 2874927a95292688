package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmcortes/shoplane-backend/api/middleware"
	"github.com/dmcortes/shoplane-backend/api/responses"
	"github.com/dmcortes/shoplane-backend/api/validators"
	"github.com/dmcortes/shoplane-backend/internal/checkout"
	"github.com/dmcortes/shoplane-backend/pkg/logger"
)

type checkoutPayload struct {
	AddressID uuid.UUID `json:"address_id" validate:"required"`
}

// Checkout converts the caller's cart into a paid order. The Idempotency-Key
// header makes retries safe.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cartID, err := validators.ParsePathUUID(chi.URLParam(r, "cartId"), "cart_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload checkoutPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.Execute(ctx, middleware.UserIDFromContext(ctx), checkout.CheckoutInput{
			CartID:         cartID,
			AddressID:      payload.AddressID,
			IdempotencyKey: strings.TrimSpace(r.Header.Get("Idempotency-Key")),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
