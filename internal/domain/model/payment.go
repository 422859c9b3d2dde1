package model

import "time"

type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "initiated" // payment request created with the provider
	PaymentStatusPending   PaymentStatus = "pending"   // user handed to the gateway; awaiting verification
	PaymentStatusSucceeded PaymentStatus = "succeeded" // verified captured at the provider
	PaymentStatusSettled   PaymentStatus = "settled"   // order/plan materialized from the payment
	PaymentStatusFailed    PaymentStatus = "failed"    // verification failed or provider reported failure
	PaymentStatusExpired   PaymentStatus = "expired"   // staged intent abandoned and reaped
)

// PaymentRecord is the durable ledger row mirroring a payment intent through
// its lifecycle. It is the audit trail and the fallback lookup when the
// staged intent is gone but the provider's correlation token is still valid.
type PaymentRecord struct {
	ID              string        // ULID, same as the intent ID
	Kind            IntentKind
	Provider        Provider
	TransactionUUID string // redirect-form provider transaction id
	CorrelationID   string // provider return token (pidx or transaction uuid)
	Amount          int64  // whole rupees
	Status          PaymentStatus
	RefID           string // provider reference id after verification
	OrderID         string // backend order/plan id after settlement
	IntentJSON      []byte // staged intent snapshot for token-only recovery
	CreatedAt       time.Time
	UpdatedAt       time.Time
	PaidAt          *time.Time
	SettledAt       *time.Time
}
