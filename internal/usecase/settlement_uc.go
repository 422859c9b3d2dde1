// File: internal/usecase/settlement_uc.go
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/model"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/ports/adapter"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/ports/repository"
	"github.com/manojneupaneweb/GoGain-sub000/internal/infra/logging"
	"github.com/manojneupaneweb/GoGain-sub000/internal/infra/metrics"
	"github.com/manojneupaneweb/GoGain-sub000/internal/infra/redis"
)

// Compile-time check
var _ SettlementUseCase = (*settlementUC)(nil)

type SettlementUseCase interface {
	// Settle verifies the payment behind the correlation token with the
	// trusted backend and, exactly once, materializes the staged intent as
	// an order or plan. Duplicate calls for the same token either lose the
	// per-token lock (ErrSettlementInFlight) or observe the already
	// settled record and return it without a second create call.
	Settle(ctx context.Context, sessionID string, provider model.Provider, correlationID string) (*model.Settlement, error)
}

// cartClearer is the slice of the cart store settlement needs: clearing
// the session's settled line items locally once an order exists.
type cartClearer interface {
	ClearLocal(sessionID string)
}

type settlementUC struct {
	backend adapter.CommerceBackend
	intents repository.PendingIntentStore
	ledger  repository.PaymentLedger
	locker  redis.Locker
	cart    cartClearer
	lockTTL time.Duration
	log     *zerolog.Logger
}

func NewSettlementUseCase(
	backend adapter.CommerceBackend,
	intents repository.PendingIntentStore,
	ledger repository.PaymentLedger,
	locker redis.Locker,
	cart cartClearer,
	logger *zerolog.Logger,
) *settlementUC {
	return &settlementUC{
		backend: backend,
		intents: intents,
		ledger:  ledger,
		locker:  locker,
		cart:    cart,
		lockTTL: 2 * time.Minute,
		log:     logger,
	}
}

// notYetSuccessful lists provider statuses that must not settle even when
// the backend's success flag is set, but that may still become paid on a
// later verification. Pending is not paid, yet it is not final either.
func notYetSuccessful(status string) bool {
	switch strings.ToLower(status) {
	case "pending", "initiated":
		return true
	}
	return false
}

// terminallyUnpaid lists provider statuses from which a payment can never
// reach paid. Only these justify flipping the ledger row to failed.
func terminallyUnpaid(status string) bool {
	switch strings.ToLower(status) {
	case "refunded", "expired", "user canceled", "canceled":
		return true
	}
	return false
}

func (u *settlementUC) Settle(ctx context.Context, sessionID string, provider model.Provider, correlationID string) (*model.Settlement, error) {
	defer logging.TraceDuration(u.log, "SettlementUC.Settle")()
	if correlationID == "" {
		return nil, domain.ErrNoPaymentReference
	}

	// One settlement attempt per token. A second concurrent caller means a
	// duplicate callback; it is turned away, not queued.
	lockKey := "settle_lock:" + correlationID
	lockToken, err := u.locker.TryLock(ctx, lockKey, u.lockTTL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = u.locker.Unlock(context.WithoutCancel(ctx), lockKey, lockToken) }()

	// A transport or backend error says nothing about the payment, so the
	// ledger row stays pending and the caller may simply retry. Only a
	// definitive answer from the provider is allowed to fail the row.
	verification, err := u.backend.VerifyPayment(ctx, provider, correlationID)
	if err != nil {
		metrics.IncVerification(string(provider), "error")
		return nil, fmt.Errorf("%w: %v", domain.ErrVerificationFailed, err)
	}
	if !verification.Success || terminallyUnpaid(verification.ProviderStatus) {
		metrics.IncVerification(string(provider), "not_paid")
		u.failPending(ctx, correlationID)
		return nil, fmt.Errorf("%w: provider status %q", domain.ErrVerificationFailed, verification.ProviderStatus)
	}
	if notYetSuccessful(verification.ProviderStatus) {
		metrics.IncVerification(string(provider), "not_paid")
		return nil, fmt.Errorf("%w: provider status %q", domain.ErrVerificationFailed, verification.ProviderStatus)
	}
	metrics.IncVerification(string(provider), "ok")

	intent, err := u.takeIntent(ctx, sessionID, correlationID)
	if err != nil {
		return nil, err
	}

	// Win the pending->succeeded transition before dispatching. A loser
	// here means another attempt already consumed this payment; hand back
	// its result instead of creating a second order.
	now := time.Now()
	refID := verification.TransactionID
	won, err := u.ledger.UpdateStatusIfPending(ctx, nil, intent.ID, model.PaymentStatusSucceeded, &refID, &now)
	if err != nil {
		return nil, fmt.Errorf("%w: ledger transition: %v", domain.ErrSupportRequired, err)
	}
	if !won {
		return u.settledResult(ctx, intent.ID)
	}

	settlement, err := u.dispatch(ctx, intent, verification)
	if err != nil {
		metrics.IncSettlement(string(intent.Kind), "support_required")
		u.log.Error().Err(err).
			Str("intent_id", intent.ID).
			Str("correlation_id", correlationID).
			Msg("settlement failed after captured payment")
		// Money has moved; retrying here risks a duplicate order. The
		// dedicated error kind keeps this from being shown as retryable.
		return nil, fmt.Errorf("%w: %v", domain.ErrSupportRequired, err)
	}

	if err := u.ledger.MarkSettled(ctx, nil, intent.ID, settlement.OrderID, time.Now()); err != nil {
		u.log.Error().Err(err).Str("intent_id", intent.ID).Msg("settled but ledger update failed")
	}
	if intent.Kind == model.IntentCartCheckout && u.cart != nil {
		u.cart.ClearLocal(sessionID)
	}

	metrics.IncSettlement(string(intent.Kind), "ok")
	metrics.AddRevenue(string(intent.Provider), intent.Amount)
	u.log.Info().
		Str("intent_id", intent.ID).
		Str("order_id", settlement.OrderID).
		Str("kind", string(intent.Kind)).
		Msg("payment settled")
	return settlement, nil
}

// takeIntent consumes the staged intent. When the staging entry is gone
// (expired, or the user is revisiting the return URL from history on a new
// session) the ledger row keyed by the correlation token is the fallback,
// so a genuinely captured payment can still settle.
func (u *settlementUC) takeIntent(ctx context.Context, sessionID, correlationID string) (*model.PaymentIntent, error) {
	intent, err := u.intents.Take(ctx, sessionID)
	if err == nil {
		return intent, nil
	}
	if !errors.Is(err, domain.ErrNoStagedIntent) {
		return nil, err
	}

	rec, ferr := u.ledger.FindByCorrelationID(ctx, nil, correlationID)
	if ferr != nil || len(rec.IntentJSON) == 0 {
		return nil, domain.ErrNoStagedIntent
	}
	if rec.Status == model.PaymentStatusExpired {
		return nil, domain.ErrIntentExpired
	}
	var recovered model.PaymentIntent
	if uerr := json.Unmarshal(rec.IntentJSON, &recovered); uerr != nil {
		return nil, domain.ErrNoStagedIntent
	}
	u.log.Warn().
		Str("intent_id", recovered.ID).
		Str("correlation_id", correlationID).
		Msg("staged intent missing; recovered from ledger")
	return &recovered, nil
}

// settledResult reports the outcome of a settlement this caller lost to.
// A failed row is not a settled one: verification now says paid but the
// ledger recorded a definitive rejection earlier, and that mismatch needs
// a human, not an "already settled" answer with no order behind it.
func (u *settlementUC) settledResult(ctx context.Context, intentID string) (*model.Settlement, error) {
	rec, err := u.ledger.FindByID(ctx, nil, intentID)
	if err != nil {
		return nil, domain.ErrAlreadySettled
	}
	switch {
	case rec.Status == model.PaymentStatusSettled && rec.OrderID != "":
		return &model.Settlement{Kind: rec.Kind, OrderID: rec.OrderID, RefID: rec.RefID}, nil
	case rec.Status == model.PaymentStatusFailed:
		return nil, fmt.Errorf("%w: payment verified but ledger recorded an earlier rejection", domain.ErrSupportRequired)
	}
	return nil, domain.ErrAlreadySettled
}

func (u *settlementUC) dispatch(ctx context.Context, intent *model.PaymentIntent, verification *model.VerificationResult) (*model.Settlement, error) {
	switch intent.Kind {
	case model.IntentCartCheckout:
		orderID, err := u.backend.CreateOrder(ctx, verification, intent.Items)
		if err != nil {
			return nil, err
		}
		return &model.Settlement{Kind: intent.Kind, OrderID: orderID, RefID: verification.TransactionID}, nil
	case model.IntentPlanPurchase:
		planID, err := u.backend.CreatePlan(ctx, verification, intent.Plan)
		if err != nil {
			return nil, err
		}
		return &model.Settlement{Kind: intent.Kind, OrderID: planID, RefID: verification.TransactionID}, nil
	default:
		return nil, domain.ErrInvalidArgument
	}
}

// failPending marks the ledger row failed once the provider has given a
// definitive not-paid answer. Best effort: a missing row just means
// initiation happened elsewhere.
func (u *settlementUC) failPending(ctx context.Context, correlationID string) {
	rec, err := u.ledger.FindByCorrelationID(ctx, nil, correlationID)
	if err != nil {
		return
	}
	if _, err := u.ledger.UpdateStatusIfPending(ctx, nil, rec.ID, model.PaymentStatusFailed, nil, nil); err != nil {
		u.log.Warn().Err(err).Str("correlation_id", correlationID).Msg("mark failed payment")
	}
}
