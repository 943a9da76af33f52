package pgutils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrNoTx = errors.New("no transaction in context")

type txKey struct{}

// Queryer is what repositories run statements against: the ambient
// transaction when there is one, the pool otherwise.
type Queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// TxManager runs units of work against a pool.
type TxManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

// Do runs fn inside a read-committed transaction carried by the context
// passed to fn. It commits if fn returns nil, otherwise it rolls back.
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTx(ctx, m.db, fn)
}

// WithTx runs fn inside a transaction.
// It commits if fn returns nil, otherwise it rolls back.
// Nested calls join the outer transaction.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(ctx context.Context) error) error {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	err = fn(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		rbErr := tx.Rollback()
		if rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback after fn error: %v (fn err: %w)", rbErr, err)
		}

		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func TxFromContext(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx, ok && tx != nil
}

// Conn returns the ambient transaction, or db when ctx carries none.
func Conn(ctx context.Context, db *sqlx.DB) Queryer {
	tx, ok := TxFromContext(ctx)
	if ok {
		return tx
	}

	return db
}

// MustTx returns the ambient transaction or ErrNoTx. Row locks are only
// meaningful inside one.
func MustTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, ok := TxFromContext(ctx)
	if !ok {
		return nil, ErrNoTx
	}

	return tx, nil
}
