package order

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"

	"pagsync/kit/db"
)

type SQLRepository struct {
	db db.TxClient
}

func NewSQLRepository(dbClient db.TxClient) *SQLRepository {
	return &SQLRepository{db: dbClient}
}

const (
	qOrderGet = "SELECT o.entity_id, o.increment_id, o.state, o.status, o.payment_review, o.version, " +
		"p.entity_id, p.method, p.status, p.last_trans_id, p.expiration_date, p.denied, p.notify_customer, p.void_registered " +
		"FROM sales_order o JOIN sales_order_payment p ON p.parent_id = o.entity_id WHERE o.entity_id = $1"
	qOrderUpdate   = "UPDATE sales_order SET state = $1, status = $2, payment_review = $3, version = version + 1, updated_at = now() WHERE entity_id = $4 AND version = $5"
	qPaymentUpdate = "UPDATE sales_order_payment SET status = $1, denied = $2, notify_customer = $3, void_registered = $4 WHERE entity_id = $5"
	qHistoryInsert = "INSERT INTO sales_order_status_history (parent_id, status, comment, is_customer_notified, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING entity_id"
	qOrderPending  = "SELECT o.entity_id FROM sales_order o JOIN sales_order_payment p ON p.parent_id = o.entity_id " +
		"WHERE p.method = $1 AND o.state IN ($2, $3) ORDER BY o.entity_id LIMIT $4"
)

func (r *SQLRepository) Get(ctx context.Context, orderID int64) (*Order, error) {
	row, err := r.db.QueryRow(ctx, qOrderGet, orderID)
	if err != nil {
		log.Printf("layer=repo component=order repo=SQLRepository method=Get order_id=%d err=%v", orderID, err)
		return nil, err
	}
	var o Order
	p := &o.Payment
	if err := row.Scan(
		&o.ID, &o.IncrementID, &o.State, &o.Status, &o.PaymentReview, &o.Version,
		&p.ID, &p.Method, &p.Status, &p.LastTransID, &p.ExpirationDate, &p.Denied, &p.NotifyCustomer, &p.VoidRegistered,
	); err != nil {
		log.Printf("layer=repo component=order repo=SQLRepository method=Get order_id=%d err=%v", orderID, err)
		return nil, err
	}
	return &o, nil
}

// Save writes the order row, its payment row and every pending history entry
// in one transaction. The order row is guarded by its version, so a
// concurrent writer turns this save into db.ErrConflict and nothing is written.
func (r *SQLRepository) Save(ctx context.Context, o *Order) error {
	pending := o.pendingHistory()
	ids := make([]int64, len(pending))

	err := r.db.InTx(ctx, func(tx db.Client) error {
		n, err := tx.Exec(ctx, qOrderUpdate, o.State, o.Status, o.PaymentReview, o.ID, o.Version)
		if err != nil {
			return err
		}
		if n == 0 {
			return db.ErrConflict
		}
		p := o.Payment
		if _, err := tx.Exec(ctx, qPaymentUpdate, p.Status, p.Denied, p.NotifyCustomer, p.VoidRegistered, p.ID); err != nil {
			return err
		}
		for i, idx := range pending {
			h := o.History[idx]
			row, err := tx.QueryRow(ctx, qHistoryInsert, o.ID, h.Status, h.Comment, h.CustomerNotified, h.CreatedAt)
			if err != nil {
				return err
			}
			if err := row.Scan(&ids[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("layer=repo component=order repo=SQLRepository method=Save order_id=%d version=%d err=%v", o.ID, o.Version, err)
		return err
	}

	o.Version++
	for i, idx := range pending {
		o.History[idx].ID = ids[i]
	}
	return nil
}

func (r *SQLRepository) ListPendingIDs(ctx context.Context, method string, limit int) ([]int64, error) {
	rows, err := r.db.Query(ctx, qOrderPending, method, StateNew, StatePaymentReview, limit)
	if err != nil {
		log.Printf("layer=repo component=order repo=SQLRepository method=ListPendingIDs payment_method=%s err=%v", method, err)
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Printf("layer=repo component=order repo=SQLRepository method=ListPendingIDs payment_method=%s err=%v", method, err)
			return nil, errors.Join(db.ErrInternal, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		log.Printf("layer=repo component=order repo=SQLRepository method=ListPendingIDs payment_method=%s err=%v", method, err)
		return nil, errors.Join(db.ErrInternal, err)
	}
	return ids, nil
}

type InMemoryRepository struct {
	mu      sync.Mutex
	data    map[int64]*Order
	history map[int64][]HistoryEntry
	nextID  int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{data: make(map[int64]*Order), history: make(map[int64][]HistoryEntry)}
}

// Add seeds an order as if the checkout flow had created it.
func (r *InMemoryRepository) Add(o *Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[o.ID] = o.Clone()
}

func (r *InMemoryRepository) Get(ctx context.Context, orderID int64) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.data[orderID]
	if !ok {
		log.Printf("layer=repo component=order repo=InMemoryRepository method=Get order_id=%d err=%v", orderID, db.ErrNotFound)
		return nil, db.ErrNotFound
	}
	cpy := o.Clone()
	cpy.History = nil
	return cpy, nil
}

func (r *InMemoryRepository) Save(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.data[o.ID]
	if !ok {
		return db.ErrNotFound
	}
	if cur.Version != o.Version {
		log.Printf("layer=repo component=order repo=InMemoryRepository method=Save order_id=%d version=%d err=%v", o.ID, o.Version, db.ErrConflict)
		return db.ErrConflict
	}

	for _, idx := range o.pendingHistory() {
		r.nextID++
		o.History[idx].ID = r.nextID
		r.history[o.ID] = append(r.history[o.ID], o.History[idx])
	}
	o.Version++
	stored := o.Clone()
	stored.History = nil
	r.data[o.ID] = stored
	return nil
}

// HistoryOf returns every persisted history entry of the order.
func (r *InMemoryRepository) HistoryOf(orderID int64) []HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]HistoryEntry(nil), r.history[orderID]...)
}

func (r *InMemoryRepository) ListPendingIDs(ctx context.Context, method string, limit int) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int64
	for id, o := range r.data {
		if o.Payment.Method == method && o.IsEligible() {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}
