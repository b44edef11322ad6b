package transaction

import "context"

// RepositoryContract define transaction lookup responsibility.
type RepositoryContract interface {
	Find(ctx context.Context, txnID string) (*Transaction, error)
	FindByOrder(ctx context.Context, orderID int64) (*Transaction, error)
}
