package repository

import (
	"context"
	"time"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/model"
)

// PaymentLedger persists the lifecycle of every payment the pipeline
// initiates. It is the durable mirror of the staged intent and the source
// for reconciling payments whose return trip never completed.
type PaymentLedger interface {
	Save(ctx context.Context, qx Tx, rec *model.PaymentRecord) error
	FindByID(ctx context.Context, qx Tx, id string) (*model.PaymentRecord, error)
	FindByCorrelationID(ctx context.Context, qx Tx, correlationID string) (*model.PaymentRecord, error)

	// UpdateStatusIfPending transitions a row out of initiated/pending and
	// reports whether this call won the transition. Exactly one caller per
	// payment observes true; that caller owns settlement.
	UpdateStatusIfPending(ctx context.Context, qx Tx, id string, status model.PaymentStatus, refID *string, paidAt *time.Time) (bool, error)

	// MarkSettled records the backend order/plan id created for a payment.
	MarkSettled(ctx context.Context, qx Tx, id string, orderID string, settledAt time.Time) error

	// ListPendingOlderThan returns stale initiated/pending rows for the reaper.
	ListPendingOlderThan(ctx context.Context, qx Tx, cutoff time.Time, limit int) ([]*model.PaymentRecord, error)

	// MarkExpired closes out an abandoned payment row.
	MarkExpired(ctx context.Context, qx Tx, id string) error
}
