package db

import "context"

type Row interface {
	Scan(dest ...any) error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Client is the statement surface repositories depend on. Exec reports the
// number of affected rows so callers can detect lost optimistic updates.
type Client interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	QueryRow(ctx context.Context, query string, args ...any) (Row, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// TxClient runs fn inside a single transaction. The transaction commits when
// fn returns nil and rolls back otherwise.
type TxClient interface {
	Client
	InTx(ctx context.Context, fn func(tx Client) error) error
}
