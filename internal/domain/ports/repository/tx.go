package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle. The concrete type is infra-defined
// (pgx.Tx for Postgres); repositories accept nil for the non-transactional
// path.
type Tx interface{}

// TransactionManager runs fn inside a database transaction, handing the
// tx handle through so repository calls inside fn share it. Keeping the
// handle opaque keeps use-case signatures free of storage types.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
