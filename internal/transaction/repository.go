package transaction

import (
	"context"
	"log"
	"sort"
	"sync"

	"pagsync/kit/db"
)

type SQLRepository struct {
	db db.Client
}

func NewSQLRepository(dbClient db.Client) *SQLRepository {
	return &SQLRepository{db: dbClient}
}

const (
	qTransactionFind        = "SELECT transaction_id, txn_id, txn_type, order_id, payment_id, created_at FROM sales_payment_transaction WHERE txn_id = $1 AND txn_type = $2 ORDER BY created_at DESC, transaction_id DESC LIMIT 1"
	qTransactionFindByOrder = "SELECT transaction_id, txn_id, txn_type, order_id, payment_id, created_at FROM sales_payment_transaction WHERE order_id = $1 AND txn_type = $2 ORDER BY created_at DESC, transaction_id DESC LIMIT 1"
)

// Find returns the most recent order-type transaction recorded for txnID.
func (r *SQLRepository) Find(ctx context.Context, txnID string) (*Transaction, error) {
	return r.one(ctx, "Find", qTransactionFind, txnID, TypeOrder)
}

func (r *SQLRepository) FindByOrder(ctx context.Context, orderID int64) (*Transaction, error) {
	return r.one(ctx, "FindByOrder", qTransactionFindByOrder, orderID, TypeOrder)
}

func (r *SQLRepository) one(ctx context.Context, method, query string, args ...any) (*Transaction, error) {
	row, err := r.db.QueryRow(ctx, query, args...)
	if err != nil {
		log.Printf("layer=repo component=transaction repo=SQLRepository method=%s args=%v err=%v", method, args, err)
		return nil, err
	}
	var t Transaction
	if err := row.Scan(&t.ID, &t.TxnID, &t.Type, &t.OrderID, &t.PaymentID, &t.CreatedAt); err != nil {
		if !db.IsNotFound(err) {
			log.Printf("layer=repo component=transaction repo=SQLRepository method=%s args=%v err=%v", method, args, err)
		}
		return nil, err
	}
	return &t, nil
}

type InMemoryRepository struct {
	mu   sync.Mutex
	data []Transaction
	next int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Add(t Transaction) *Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	if t.ID == 0 {
		t.ID = r.next
	}
	r.data = append(r.data, t)
	cpy := t
	return &cpy
}

func (r *InMemoryRepository) Find(ctx context.Context, txnID string) (*Transaction, error) {
	return r.latest(func(t Transaction) bool { return t.TxnID == txnID })
}

func (r *InMemoryRepository) FindByOrder(ctx context.Context, orderID int64) (*Transaction, error) {
	return r.latest(func(t Transaction) bool { return t.OrderID == orderID })
}

func (r *InMemoryRepository) latest(match func(Transaction) bool) (*Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var found []Transaction
	for _, t := range r.data {
		if t.Type == TypeOrder && match(t) {
			found = append(found, t)
		}
	}
	if len(found) == 0 {
		return nil, db.ErrNotFound
	}
	sort.Slice(found, func(i, j int) bool {
		if !found[i].CreatedAt.Equal(found[j].CreatedAt) {
			return found[i].CreatedAt.After(found[j].CreatedAt)
		}
		return found[i].ID > found[j].ID
	})
	cpy := found[0]
	return &cpy, nil
}
