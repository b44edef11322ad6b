package db

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PgxClient adapts a pgx pool (or an open pgx transaction) to Client.
type PgxClient struct {
	pool *pgxpool.Pool
	q    querier
}

func NewPgxClient(ctx context.Context, dsn string) (*PgxClient, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Printf("layer=client component=db method=NewPgxClient err=%v", err)
		return nil, errors.Join(ErrInternal, err)
	}
	return &PgxClient{pool: pool, q: pool}, nil
}

func (c *PgxClient) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

func (c *PgxClient) Ping(ctx context.Context) error {
	if c.pool == nil {
		return nil
	}
	return c.pool.Ping(ctx)
}

func (c *PgxClient) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := c.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, errors.Join(ErrInternal, err)
	}
	return tag.RowsAffected(), nil
}

func (c *PgxClient) QueryRow(ctx context.Context, query string, args ...any) (Row, error) {
	return pgxRow{row: c.q.QueryRow(ctx, query, args...)}, nil
}

func (c *PgxClient) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := c.q.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return rows, nil
}

func (c *PgxClient) InTx(ctx context.Context, fn func(tx Client) error) error {
	if c.pool == nil {
		// already inside a transaction
		return fn(c)
	}
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		log.Printf("layer=client component=db method=InTx err=%v", err)
		return errors.Join(ErrInternal, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&PgxClient{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		log.Printf("layer=client component=db method=InTx err=%v", err)
		return errors.Join(ErrInternal, err)
	}
	return nil
}

type pgxRow struct {
	row pgx.Row
}

func (r pgxRow) Scan(dest ...any) error {
	if err := r.row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return errors.Join(ErrInternal, err)
	}
	return nil
}
