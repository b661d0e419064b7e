package persistence

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/quickmate/backend/internal/application/adapter"
)

type txKey struct{}

type transactor struct {
	db *gorm.DB
}

// NewTransactor creates a transactor running functions inside a gorm transaction.
// Nested calls join the outer transaction.
func NewTransactor(db *gorm.DB) adapter.Transactor {
	return &transactor{db: db}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction bound to ctx, or db when there is none.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// translateError maps unique constraint violations to adapter.ErrDuplicateKey.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return adapter.ErrDuplicateKey
	}
	// Dialects without error translation still report the constraint in the message.
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value") {
		return adapter.ErrDuplicateKey
	}
	return err
}
