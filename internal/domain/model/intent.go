package model

import (
	"time"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain"
)

type IntentKind string

const (
	IntentCartCheckout IntentKind = "cart_checkout"
	IntentPlanPurchase IntentKind = "plan_purchase"
)

type Provider string

const (
	ProviderEsewa  Provider = "esewa"
	ProviderKhalti Provider = "khalti"
)

func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderEsewa, ProviderKhalti:
		return Provider(s), nil
	default:
		return "", domain.ErrUnknownProvider
	}
}

// PaymentIntent is the staged record of what a user is about to purchase.
// It is written before control is handed to the gateway and consumed exactly
// once during settlement. Amount is in whole rupees; providers that bill in
// paisa convert at their own boundary.
type PaymentIntent struct {
	ID              string         `json:"id"` // ULID
	Kind            IntentKind     `json:"kind"`
	Provider        Provider       `json:"provider"`
	Amount          int64          `json:"amount"`
	TransactionUUID string         `json:"transaction_uuid,omitempty"` // set by the redirect-form provider
	Items           []CartLineItem `json:"items,omitempty"`
	Plan            *PlanItem      `json:"plan,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// Validate checks the invariants every staged intent must satisfy.
func (i *PaymentIntent) Validate() error {
	if i == nil || i.ID == "" {
		return domain.ErrInvalidArgument
	}
	if i.Amount <= 0 {
		return domain.ErrMissingAmount
	}
	switch i.Kind {
	case IntentCartCheckout:
		if len(i.Items) == 0 {
			return domain.ErrEmptyCart
		}
	case IntentPlanPurchase:
		if i.Plan == nil || i.Plan.ID == "" {
			return domain.ErrInvalidArgument
		}
	default:
		return domain.ErrInvalidArgument
	}
	if i.Provider == "" {
		return domain.ErrUnknownProvider
	}
	return nil
}
