package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/model"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/ports/repository"
)

var _ repository.PaymentLedger = (*paymentLedgerRepo)(nil)

type paymentLedgerRepo struct{ pool *pgxpool.Pool }

func NewPaymentLedgerRepo(pool *pgxpool.Pool) *paymentLedgerRepo {
	return &paymentLedgerRepo{pool: pool}
}

const ledgerColumns = `id, kind, provider, transaction_uuid, correlation_id, amount, status, ref_id, order_id, intent_json, created_at, updated_at, paid_at, settled_at`

func (r *paymentLedgerRepo) Save(ctx context.Context, qx repository.Tx, rec *model.PaymentRecord) error {
	const q = `
INSERT INTO payment_ledger (
  id, kind, provider, transaction_uuid, correlation_id, amount, status, ref_id, order_id, intent_json, created_at, updated_at, paid_at, settled_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
) ON CONFLICT (id) DO UPDATE SET
  transaction_uuid=$4, correlation_id=$5, amount=$6, status=$7, ref_id=$8, order_id=$9, intent_json=$10, updated_at=$12, paid_at=$13, settled_at=$14;`

	_, err := execSQL(ctx, r.pool, qx, q,
		rec.ID, rec.Kind, rec.Provider, rec.TransactionUUID, rec.CorrelationID, rec.Amount,
		rec.Status, rec.RefID, rec.OrderID, rec.IntentJSON, rec.CreatedAt, rec.UpdatedAt, rec.PaidAt, rec.SettledAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentLedgerRepo) scanOne(row pgx.Row) (*model.PaymentRecord, error) {
	rec := &model.PaymentRecord{}
	err := row.Scan(&rec.ID, &rec.Kind, &rec.Provider, &rec.TransactionUUID, &rec.CorrelationID,
		&rec.Amount, &rec.Status, &rec.RefID, &rec.OrderID, &rec.IntentJSON,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.PaidAt, &rec.SettledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return rec, nil
}

func (r *paymentLedgerRepo) FindByID(ctx context.Context, qx repository.Tx, id string) (*model.PaymentRecord, error) {
	q := `SELECT ` + ledgerColumns + ` FROM payment_ledger WHERE id=$1`
	if _, ok := qx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	row, err := pickRow(ctx, r.pool, qx, q+";", id)
	if err != nil {
		return nil, err
	}
	return r.scanOne(row)
}

func (r *paymentLedgerRepo) FindByCorrelationID(ctx context.Context, qx repository.Tx, correlationID string) (*model.PaymentRecord, error) {
	q := `SELECT ` + ledgerColumns + ` FROM payment_ledger WHERE correlation_id=$1 LIMIT 1`
	if _, ok := qx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	row, err := pickRow(ctx, r.pool, qx, q+";", correlationID)
	if err != nil {
		return nil, err
	}
	return r.scanOne(row)
}

// UpdateStatusIfPending is the settlement gate: the WHERE clause only
// matches rows still in initiated/pending, so the row count tells the
// caller whether it won the transition.
func (r *paymentLedgerRepo) UpdateStatusIfPending(ctx context.Context, qx repository.Tx, id string, status model.PaymentStatus, refID *string, paidAt *time.Time) (bool, error) {
	const q = `
UPDATE payment_ledger
SET status=$2, ref_id=COALESCE($3, ref_id), paid_at=COALESCE($4, paid_at), updated_at=NOW()
WHERE id=$1 AND status IN ('initiated','pending');`

	tag, err := execSQL(ctx, r.pool, qx, q, id, status, refID, paidAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return tag.RowsAffected() == 1, nil
}

func (r *paymentLedgerRepo) MarkSettled(ctx context.Context, qx repository.Tx, id string, orderID string, settledAt time.Time) error {
	const q = `UPDATE payment_ledger SET status='settled', order_id=$2, settled_at=$3, updated_at=NOW() WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, qx, q, id, orderID, settledAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentLedgerRepo) ListPendingOlderThan(ctx context.Context, qx repository.Tx, cutoff time.Time, limit int) ([]*model.PaymentRecord, error) {
	const q = `SELECT ` + ledgerColumns + ` FROM payment_ledger
WHERE status IN ('initiated','pending') AND created_at < $1
ORDER BY created_at ASC LIMIT $2;`

	rows, err := pickRows(ctx, r.pool, qx, q, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.PaymentRecord
	for rows.Next() {
		rec := &model.PaymentRecord{}
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Provider, &rec.TransactionUUID, &rec.CorrelationID,
			&rec.Amount, &rec.Status, &rec.RefID, &rec.OrderID, &rec.IntentJSON,
			&rec.CreatedAt, &rec.UpdatedAt, &rec.PaidAt, &rec.SettledAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *paymentLedgerRepo) MarkExpired(ctx context.Context, qx repository.Tx, id string) error {
	const q = `UPDATE payment_ledger SET status='expired', updated_at=NOW() WHERE id=$1 AND status IN ('initiated','pending');`
	_, err := execSQL(ctx, r.pool, qx, q, id)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}
