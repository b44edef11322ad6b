package order

import "context"

// RepositoryContract define order load/persist responsibility.
type RepositoryContract interface {
	Get(ctx context.Context, orderID int64) (*Order, error)
	Save(ctx context.Context, o *Order) error
}

// CandidateSourceContract lists eligible orders paid with a given method.
type CandidateSourceContract interface {
	ListPendingIDs(ctx context.Context, method string, limit int) ([]int64, error)
}

// PaymentUpdaterContract pulls the authoritative payment status and applies it to the order.
type PaymentUpdaterContract interface {
	UpdatePaymentStatus(ctx context.Context, o *Order, pagbankOrderID string) error
}
