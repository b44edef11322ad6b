package transaction

import "time"

// TypeOrder marks the transaction PagBank records when an order is created
// on its side. Only this type links a payment id back to a local order.
const TypeOrder = "order"

type Transaction struct {
	ID        int64
	TxnID     string
	Type      string
	OrderID   int64
	PaymentID int64
	CreatedAt time.Time
}
