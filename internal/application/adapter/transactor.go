package adapter

import "context"

// Transactor runs a function inside a storage transaction. Repositories called with
// the context handed to fn take part in that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
