package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Session is the query surface handed to a unit of work. It is only valid
// inside the callback it was passed to.
type Session interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// UnitOfWork scopes one transaction per call. Staged writes are committed
// together when the callback returns nil and discarded otherwise.
type UnitOfWork interface {
	// Do runs fn in a read-write transaction
	Do(ctx context.Context, fn func(Session) error) error
	// Read runs fn in a read-only repeatable-read transaction, so every
	// statement sees the same snapshot
	Read(ctx context.Context, fn func(Session) error) error
}

type txUnitOfWork struct {
	db *sqlx.DB
}

// NewUnitOfWork creates a UnitOfWork over the pool
func NewUnitOfWork(db *sqlx.DB) UnitOfWork {
	return &txUnitOfWork{db: db}
}

func (u *txUnitOfWork) Do(ctx context.Context, fn func(Session) error) error {
	return u.run(ctx, nil, fn)
}

func (u *txUnitOfWork) Read(ctx context.Context, fn func(Session) error) error {
	return u.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (u *txUnitOfWork) run(ctx context.Context, opts *sql.TxOptions, fn func(Session) error) (err error) {
	tx, err := u.db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rbErr))
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	return nil
}
