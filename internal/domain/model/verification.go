package model

import "encoding/json"

// VerificationResult is what the trusted backend reports about a payment.
// Success is the only field the pipeline may trust; a pending or unknown
// provider status is not success.
type VerificationResult struct {
	Success        bool            `json:"success"`
	ProviderStatus string          `json:"status"`
	CorrelationID  string          `json:"correlation_id"`
	TransactionID  string          `json:"transaction_id"`
	Amount         int64           `json:"amount"` // provider minor units as reported
	Raw            json.RawMessage `json:"-"`
}

// Settlement is the durable outcome of a verified payment: exactly one
// order or plan id, plus the provider reference.
type Settlement struct {
	Kind    IntentKind `json:"kind"`
	OrderID string     `json:"order_id"`
	RefID   string     `json:"ref_id,omitempty"`
}
