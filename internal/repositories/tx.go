package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

// contextKey is an unexported type for keys in context
type contextKey struct{}

var txKey = contextKey{}

type txState struct {
	tx    *sqlx.Tx
	mu    sync.Mutex
	hooks []func()
}

// WithTx stores a transaction in the context
func WithTx(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey, &txState{tx: tx})
}

// TxFromContext retrieves the transaction from the context. Returns nil if not present.
func TxFromContext(ctx context.Context) *sqlx.Tx {
	if st, ok := ctx.Value(txKey).(*txState); ok {
		return st.tx
	}
	return nil
}

// AfterCommit runs fn once the transaction carried by ctx commits. Without a
// transaction fn runs immediately. Hooks of a rolled back transaction are dropped.
func AfterCommit(ctx context.Context, fn func()) {
	st, ok := ctx.Value(txKey).(*txState)
	if !ok {
		fn()
		return
	}
	st.mu.Lock()
	st.hooks = append(st.hooks, fn)
	st.mu.Unlock()
}

// RunCommitHooks runs the hooks registered with AfterCommit. The owner of the
// transaction calls it after a successful commit.
func RunCommitHooks(ctx context.Context) {
	st, ok := ctx.Value(txKey).(*txState)
	if !ok {
		return
	}
	st.mu.Lock()
	hooks := st.hooks
	st.hooks = nil
	st.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// Transactor runs functions inside a database transaction.
type Transactor struct {
	db *sqlx.DB
}

// NewTransactor creates a new Transactor.
func NewTransactor(db *sqlx.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx runs fn inside a transaction carried by the context passed to fn.
// When ctx already carries a transaction fn joins it and the outer owner
// decides on commit or rollback.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if TxFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if rec := recover(); rec != nil {
			_ = tx.Rollback()
			panic(rec)
		}
	}()

	txCtx := WithTx(ctx, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	RunCommitHooks(txCtx)
	return nil
}

// executor returns the transaction found by txGetter (TxFromContext when nil),
// otherwise db.
func executor(ctx context.Context, db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) sqlx.ExtContext {
	if txGetter == nil {
		txGetter = TxFromContext
	}
	if tx := txGetter(ctx); tx != nil {
		return tx
	}
	return db
}
