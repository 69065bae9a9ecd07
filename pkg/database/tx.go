package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/warungos/datastore/pkg/metrics"
)

type txContextKey struct{}

// TxFrom returns the transaction handle carried by ctx, or nil when the
// context is not inside a grouped transaction. Repositories call this so any
// operation issued inside Transaction joins the enclosing transaction.
func TxFrom(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txContextKey{}).(*gorm.DB)
	return tx
}

func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxManager is the grouped-operation primitive consumed by business
// commands. Client implements it; tests substitute a pass-through fake.
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error, opts ...TxOption) error
}

type txOptions struct {
	isolation sql.IsolationLevel
	maxWait   time.Duration
	timeout   time.Duration
}

// TxOption overrides transaction settings for a single grouped operation.
type TxOption func(*txOptions)

// WithIsolation overrides the configured isolation level.
func WithIsolation(level sql.IsolationLevel) TxOption {
	return func(o *txOptions) { o.isolation = level }
}

// WithMaxWait bounds how long the call may wait for a transaction slot.
func WithMaxWait(d time.Duration) TxOption {
	return func(o *txOptions) { o.maxWait = d }
}

// WithTimeout bounds the execution of the transaction body.
func WithTimeout(d time.Duration) TxOption {
	return func(o *txOptions) { o.timeout = d }
}

// Transaction runs fn inside a single database transaction. The transaction
// handle travels in the context, so repository calls made through ctx join
// it. Exceeding the slot-wait or execution budget fails the whole group with
// ErrTxTimeout and nothing is committed.
func (c *Client) Transaction(ctx context.Context, fn func(ctx context.Context) error, opts ...TxOption) (err error) {
	o := txOptions{
		isolation: c.cfg.Isolation,
		maxWait:   c.cfg.TxMaxWait,
		timeout:   c.cfg.TxTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	defer func() { metrics.ObserveTransaction(err) }()

	waitTimer := time.NewTimer(o.maxWait)
	defer waitTimer.Stop()
	select {
	case c.txSlots <- struct{}{}:
		defer func() { <-c.txSlots }()
	case <-waitTimer.C:
		return fmt.Errorf("%w: no transaction slot within %s", ErrTxTimeout, o.maxWait)
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrTxTimeout, ctx.Err())
	}

	txCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	err = c.db.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(txCtx, tx))
	}, &sql.TxOptions{Isolation: o.isolation})

	if err != nil {
		if errors.Is(txCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrTxTimeout, err)
		}
		if hasKind(err) || IsStorage(err) {
			return Classify(err)
		}
		// business errors from fn pass through unclassified
		return err
	}
	return nil
}

// Op is a single step of a batch transaction.
type Op func(ctx context.Context) error

// Batch runs the operations in order inside one transaction; a failure at
// any step rolls back all prior writes.
func (c *Client) Batch(ctx context.Context, ops []Op, opts ...TxOption) error {
	if len(ops) == 0 {
		return nil
	}
	return c.Transaction(ctx, func(ctx context.Context) error {
		for i, op := range ops {
			if err := op(ctx); err != nil {
				return fmt.Errorf("batch operation %d: %w", i, err)
			}
		}
		return nil
	}, opts...)
}
