// File: internal/usecase/checkout_uc.go
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/model"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/ports/adapter"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/ports/repository"
	"github.com/manojneupaneweb/GoGain-sub000/internal/infra/metrics"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

type CheckoutUseCase interface {
	// BeginCartCheckout initiates a payment for the given cart snapshot and
	// returns the redirect that hands the user to the gateway. The staged
	// intent is written before the redirect is returned.
	BeginCartCheckout(ctx context.Context, sessionID string, provider model.Provider, items []model.CartLineItem, returnURL string) (*adapter.Redirect, error)
	// BeginPlanPurchase does the same for a membership plan.
	BeginPlanPurchase(ctx context.Context, sessionID string, provider model.Provider, plan *model.PlanItem, returnURL string) (*adapter.Redirect, error)
}

type checkoutUC struct {
	gateways map[model.Provider]adapter.PaymentGateway
	intents  repository.PendingIntentStore
	ledger   repository.PaymentLedger
	shipping model.ShippingPolicy
	log      *zerolog.Logger
}

func NewCheckoutUseCase(
	gateways map[model.Provider]adapter.PaymentGateway,
	intents repository.PendingIntentStore,
	ledger repository.PaymentLedger,
	shipping model.ShippingPolicy,
	logger *zerolog.Logger,
) *checkoutUC {
	if shipping == (model.ShippingPolicy{}) {
		shipping = model.DefaultShippingPolicy
	}
	return &checkoutUC{gateways: gateways, intents: intents, ledger: ledger, shipping: shipping, log: logger}
}

func (u *checkoutUC) BeginCartCheckout(ctx context.Context, sessionID string, provider model.Provider, items []model.CartLineItem, returnURL string) (*adapter.Redirect, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	for _, li := range items {
		if err := li.Validate(); err != nil {
			return nil, err
		}
	}
	totals := u.shipping.Totals(items)
	if totals.Total <= 0 {
		return nil, domain.ErrMissingAmount
	}

	intent := &model.PaymentIntent{
		ID:        ulid.Make().String(),
		Kind:      model.IntentCartCheckout,
		Provider:  provider,
		Amount:    totals.Total,
		Items:     items,
		CreatedAt: time.Now(),
	}
	return u.begin(ctx, sessionID, intent, returnURL)
}

func (u *checkoutUC) BeginPlanPurchase(ctx context.Context, sessionID string, provider model.Provider, plan *model.PlanItem, returnURL string) (*adapter.Redirect, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	intent := &model.PaymentIntent{
		ID:        ulid.Make().String(),
		Kind:      model.IntentPlanPurchase,
		Provider:  provider,
		Amount:    plan.Price,
		Plan:      plan,
		CreatedAt: time.Now(),
	}
	return u.begin(ctx, sessionID, intent, returnURL)
}

// begin runs the shared initiation sequence: ask the gateway for a
// redirect, then stage the intent durably so it survives the gateway round
// trip. A gateway rejection means no intent is staged and no redirect is
// returned, so re-clicking pay is always safe.
func (u *checkoutUC) begin(ctx context.Context, sessionID string, intent *model.PaymentIntent, returnURL string) (*adapter.Redirect, error) {
	gw, ok := u.gateways[intent.Provider]
	if !ok {
		return nil, domain.ErrUnknownProvider
	}

	redirect, err := gw.Initiate(ctx, intent, returnURL)
	if err != nil {
		metrics.IncPaymentInitiated(string(intent.Provider), "rejected")
		return nil, fmt.Errorf("%w: %v", domain.ErrInitiationFailed, err)
	}
	intent.TransactionUUID = redirect.TransactionUUID

	now := time.Now()
	intentJSON, err := json.Marshal(intent)
	if err != nil {
		return nil, err
	}
	rec := &model.PaymentRecord{
		ID:              intent.ID,
		Kind:            intent.Kind,
		Provider:        intent.Provider,
		TransactionUUID: redirect.TransactionUUID,
		CorrelationID:   redirect.CorrelationID,
		Amount:          intent.Amount,
		Status:          model.PaymentStatusPending,
		IntentJSON:      intentJSON,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := u.ledger.Save(ctx, nil, rec); err != nil {
		return nil, err
	}
	if err := u.intents.Stage(ctx, sessionID, intent); err != nil {
		return nil, err
	}

	metrics.IncPaymentInitiated(string(intent.Provider), "ok")
	u.log.Info().
		Str("intent_id", intent.ID).
		Str("provider", string(intent.Provider)).
		Str("kind", string(intent.Kind)).
		Int64("amount", intent.Amount).
		Msg("payment initiated")
	return redirect, nil
}
