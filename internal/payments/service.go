package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/dmcortes/shoplane-backend/pkg/errors"
	"github.com/dmcortes/shoplane-backend/pkg/stripe"
)

// IntentDTO is the client-facing projection of a payment intent.
type IntentDTO struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// CreateIntentRequest carries the amount to charge.
type CreateIntentRequest struct {
	AmountCents int64 `json:"amount_cents" validate:"required,gt=0"`
}

type intentCreator interface {
	CreatePaymentIntent(ctx context.Context, amountCents int64, currency string) (*stripe.PaymentIntent, error)
}

// Service exposes card payment operations.
type Service interface {
	CreateIntent(ctx context.Context, userID uuid.UUID, amountCents int64) (IntentDTO, error)
	Authorize(ctx context.Context, userID uuid.UUID, amountCents int64) (string, error)
}

type service struct {
	stripe intentCreator
}

// NewService builds a payments service backed by Stripe.
func NewService(client intentCreator) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("stripe client is required")
	}
	return &service{stripe: client}, nil
}

// CreateIntent registers a payment intent and returns its client secret for
// browser-side confirmation.
func (s *service) CreateIntent(ctx context.Context, userID uuid.UUID, amountCents int64) (IntentDTO, error) {
	if userID == uuid.Nil {
		return IntentDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if amountCents <= 0 {
		return IntentDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	intent, err := s.stripe.CreatePaymentIntent(ctx, amountCents, stripe.DefaultCurrency)
	if err != nil {
		return IntentDTO{}, pkgerrors.Wrap(pkgerrors.CodePaymentFailed, err, "create payment intent")
	}

	return IntentDTO{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		AmountCents:  intent.AmountCents,
		Currency:     intent.Currency,
		Status:       intent.Status,
	}, nil
}

// Authorize charges the checkout total and returns the processor reference.
func (s *service) Authorize(ctx context.Context, userID uuid.UUID, amountCents int64) (string, error) {
	intent, err := s.CreateIntent(ctx, userID, amountCents)
	if err != nil {
		return "", err
	}
	return intent.ID, nil
}
