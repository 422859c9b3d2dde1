package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")

	// Checkout pipeline errors, one sentinel per error kind so callers can
	// classify failures without string matching.
	ErrMissingAmount      = errors.New("payment amount is missing or not a positive number")
	ErrEmptyCart          = errors.New("cart has no line items")
	ErrInitiationFailed   = errors.New("payment initiation was rejected")
	ErrNoPaymentReference = errors.New("no payment reference in return request")
	ErrNoStagedIntent     = errors.New("no staged payment intent")
	ErrVerificationFailed = errors.New("payment could not be verified")
	ErrSettlementInFlight = errors.New("settlement already in progress for this payment")
	ErrAlreadySettled     = errors.New("payment has already been settled")
	ErrSupportRequired    = errors.New("payment captured but settlement failed; contact support")
	ErrCartRejected       = errors.New("cart mutation rejected by backend")
	ErrUnknownProvider    = errors.New("unknown payment provider")
	ErrMissingSignedField = errors.New("required signed field is missing")
	ErrMalformedResponse  = errors.New("malformed collaborator response")
	ErrUnauthorized       = errors.New("missing or invalid session credential")
	ErrIntentExpired      = errors.New("staged payment intent has expired")

	// Persistence errors
	ErrInvalidExecContext = errors.New("invalid SQL execution context")
	ErrOperationFailed    = errors.New("database operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
