package sched

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/model"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/ports/repository"
	"github.com/manojneupaneweb/GoGain-sub000/internal/infra/metrics"
)

// IntentReaper periodically closes out payment ledger rows whose user
// never came back from the gateway. The staged redis entry expires on its
// own TTL; this keeps the durable ledger from accumulating open rows.
// Reaped rows are marked expired, never deleted: a late verification can
// still be audited against them.
type IntentReaper struct {
	ledger     repository.PaymentLedger
	tm         repository.TransactionManager
	interval   time.Duration
	staleAfter time.Duration
	log        *zerolog.Logger
}

func NewIntentReaper(ledger repository.PaymentLedger, tm repository.TransactionManager, interval, staleAfter time.Duration, logger *zerolog.Logger) *IntentReaper {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = time.Hour
	}
	return &IntentReaper{ledger: ledger, tm: tm, interval: interval, staleAfter: staleAfter, log: logger}
}

func (w *IntentReaper) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

// tick reaps one batch inside a single transaction so a concurrent
// settlement cannot race the list/mark pair.
func (w *IntentReaper) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	var reaped []*model.PaymentRecord

	err := w.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		stale, err := w.ledger.ListPendingOlderThan(ctx, tx, cutoff, 200)
		if err != nil {
			return err
		}
		for _, rec := range stale {
			if err := w.ledger.MarkExpired(ctx, tx, rec.ID); err != nil {
				return err
			}
		}
		reaped = stale
		return nil
	})
	if err != nil {
		w.log.Error().Err(err).Msg("intent-reaper: reap stale pending")
		return
	}

	for _, rec := range reaped {
		metrics.IncIntentExpired()
		w.log.Info().
			Str("payment_id", rec.ID).
			Str("provider", string(rec.Provider)).
			Time("created_at", rec.CreatedAt).
			Msg("intent-reaper: expired abandoned payment")
	}
}
