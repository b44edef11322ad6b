package order

import (
	"errors"
	"time"
)

var ErrNotCancelable = errors.New("order cannot be cancelled")

type State string

const (
	StateNew           State = "new"
	StatePaymentReview State = "payment_review"
	StateProcessing    State = "processing"
	StateComplete      State = "complete"
	StateClosed        State = "closed"
	StateCanceled      State = "canceled"
	StateHolded        State = "holded"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusDenied  = "denied"
	PaymentStatusVoided  = "voided"
)

type Payment struct {
	ID             int64
	Method         string
	Status         string
	LastTransID    string
	ExpirationDate *time.Time
	Denied         bool
	NotifyCustomer bool
	VoidRegistered bool
}

// Deny marks the payment as refused. notify controls whether the customer is
// told about the denial.
func (p *Payment) Deny(notify bool) {
	p.Denied = true
	p.NotifyCustomer = notify
	p.Status = PaymentStatusDenied
}

func (p *Payment) RegisterVoid() {
	p.VoidRegistered = true
	p.Status = PaymentStatusVoided
}

type HistoryEntry struct {
	ID               int64
	Status           string
	Comment          string
	CustomerNotified bool
	CreatedAt        time.Time
}

// Order is the slice of the sales order this service reads and writes.
// History only holds entries appended since the order was loaded; entries
// with a zero ID have not been persisted yet.
type Order struct {
	ID            int64
	IncrementID   string
	State         State
	Status        string
	PaymentReview bool
	Payment       Payment
	History       []HistoryEntry
	Version       int64
}

// IsEligible reports whether the order may still be mutated by payment
// notifications: only new orders and orders under payment review are.
func (o *Order) IsEligible() bool {
	return o.State == StateNew || o.State == StatePaymentReview
}

func (o *Order) Cancel() error {
	switch o.State {
	case StateCanceled, StateComplete, StateClosed:
		return ErrNotCancelable
	}
	o.State = StateCanceled
	o.Status = string(StateCanceled)
	return nil
}

func (o *Order) AddStatusHistory(status, comment string, notify bool) {
	o.History = append(o.History, HistoryEntry{
		Status:           status,
		Comment:          comment,
		CustomerNotified: notify,
		CreatedAt:        time.Now().UTC(),
	})
}

func (o *Order) pendingHistory() []int {
	var idx []int
	for i := range o.History {
		if o.History[i].ID == 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

func (o *Order) Clone() *Order {
	cpy := *o
	if o.Payment.ExpirationDate != nil {
		d := *o.Payment.ExpirationDate
		cpy.Payment.ExpirationDate = &d
	}
	cpy.History = append([]HistoryEntry(nil), o.History...)
	return &cpy
}
