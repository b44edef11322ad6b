package expiry

import (
	"context"
	"time"

	"pagsync/internal/order"
	"pagsync/kit/observability"
)

const DeadlineComment = "Order cancelled, payment deadline has expired."

type OrderSaver interface {
	Save(ctx context.Context, o *order.Order) error
}

type Metrics interface {
	OrdersExpiredAdd(n int64)
}

type Sweeper struct {
	orders  OrderSaver
	policy  Policy
	logger  *observability.Logger
	metrics Metrics
	now     func() time.Time
}

func NewSweeper(orders OrderSaver, policy Policy, logger *observability.Logger, metrics Metrics) *Sweeper {
	return &Sweeper{orders: orders, policy: policy, logger: logger, metrics: metrics, now: time.Now}
}

// WithClock replaces the time source; tests pin it to the expiry boundary.
func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
	s.now = now
	return s
}

// MaybeExpire cancels an eligible order whose payment window has lapsed and
// persists every change in a single Save. It reports whether the order was
// expired.
func (s *Sweeper) MaybeExpire(ctx context.Context, o *order.Order) (bool, error) {
	if !o.IsEligible() {
		return false, nil
	}
	if !s.policy.Expired(o.Payment.Method, o.Payment.ExpirationDate, s.now()) {
		return false, nil
	}

	o.PaymentReview = false
	o.Payment.Deny(false)
	o.Payment.RegisterVoid()
	if err := o.Cancel(); err != nil {
		return false, err
	}
	o.AddStatusHistory(o.Status, DeadlineComment, true)

	if err := s.orders.Save(ctx, o); err != nil {
		s.logger.Error("order expiry save failed", "order_id", o.ID, "method", o.Payment.Method, "err", err)
		return false, err
	}
	if s.metrics != nil {
		s.metrics.OrdersExpiredAdd(1)
	}
	s.logger.Info("order expired", "order_id", o.ID, "increment_id", o.IncrementID, "method", o.Payment.Method)
	return true, nil
}
