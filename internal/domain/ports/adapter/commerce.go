package adapter

import (
	"context"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/model"
)

// CommerceBackend is the hex port for the trusted /api/v1 backend. The
// backend is the only party holding provider server-side secrets, so all
// verification goes through it, and it is required by contract to make
// CreateOrder/CreatePlan idempotent on the verified transaction id.
type CommerceBackend interface {
	// InitiatePayment asks the backend to open a payment with a
	// token-initiate provider. Amount is in the provider's minor unit.
	// Returns the opaque payment URL and the provider correlation token.
	InitiatePayment(ctx context.Context, provider model.Provider, amountMinor int64, productID, redirectLink string) (paymentURL, correlationID string, err error)

	// VerifyPayment asks the backend whether the payment behind the
	// correlation token actually happened. Transport errors, malformed
	// bodies and success=false are all equally "not paid".
	VerifyPayment(ctx context.Context, provider model.Provider, correlationID string) (*model.VerificationResult, error)

	// CreateOrder materializes a verified cart payment as an order.
	CreateOrder(ctx context.Context, verification *model.VerificationResult, items []model.CartLineItem) (orderID string, err error)

	// CreatePlan materializes a verified plan payment as an active plan.
	CreatePlan(ctx context.Context, verification *model.VerificationResult, plan *model.PlanItem) (planID string, err error)

	// Cart collaborator endpoints.
	FetchCart(ctx context.Context) ([]model.CartLineItem, error)
	UpdateCartItem(ctx context.Context, productID string, quantity int) error
	RemoveCartItem(ctx context.Context, productID string) error
}
