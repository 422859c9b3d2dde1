package repository

import (
	"context"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/model"
)

// PendingIntentStore stages the single payment intent that must survive the
// round trip through an external gateway. Only one intent may be staged per
// session at a time.
//
// Take is destructive: the read removes the value, so two concurrent
// settlement attempts can never both observe the same intent. Absence is a
// normal outcome (abandoned gateway visit, bookmarked return URL) and is
// reported as domain.ErrNoStagedIntent, never invented.
type PendingIntentStore interface {
	Stage(ctx context.Context, sessionID string, intent *model.PaymentIntent) error
	Take(ctx context.Context, sessionID string) (*model.PaymentIntent, error)
}
