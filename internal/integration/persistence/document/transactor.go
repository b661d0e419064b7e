package document

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/quickmate/backend/internal/application/adapter"
)

type transactor struct {
	client  *mongo.Client
	enabled bool
}

// NewTransactor creates a transactor backed by MongoDB session transactions.
// Transactions need a replica set; with enabled false fn runs without one.
func NewTransactor(client *mongo.Client, enabled bool) adapter.Transactor {
	return &transactor{client: client, enabled: enabled}
}

// WithinTransaction runs fn in a session transaction. Operations using the context
// handed to fn join it; nested calls reuse the outer session.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled || mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
