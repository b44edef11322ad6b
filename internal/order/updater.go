package order

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pagsync/kit/pagbank"
)

var ErrUnknownChargeStatus = errors.New("unknown charge status")

// PaymentUpdater asks PagBank for the current charge status and folds it into
// the order.
type PaymentUpdater struct {
	gateway pagbank.Gateway
}

func NewPaymentUpdater(gateway pagbank.Gateway) *PaymentUpdater {
	return &PaymentUpdater{gateway: gateway}
}

func (u *PaymentUpdater) UpdatePaymentStatus(ctx context.Context, o *Order, pagbankOrderID string) error {
	status, err := u.gateway.OrderStatus(ctx, pagbankOrderID)
	if err != nil {
		log.Printf("layer=service component=order method=UpdatePaymentStatus order_id=%d pagbank_order_id=%s err=%v", o.ID, pagbankOrderID, err)
		return err
	}
	o.Payment.LastTransID = pagbankOrderID
	return ApplyChargeStatus(o, status)
}

// ApplyChargeStatus maps a PagBank charge status onto the order. Waiting
// charges leave the order untouched.
func ApplyChargeStatus(o *Order, status pagbank.ChargeStatus) error {
	switch status {
	case pagbank.StatusWaiting:
		return nil
	case pagbank.StatusPaid:
		o.PaymentReview = false
		o.Payment.Status = PaymentStatusPaid
		o.State = StateProcessing
		o.Status = string(StateProcessing)
		o.AddStatusHistory(o.Status, "Payment approved by PagBank.", false)
		return nil
	case pagbank.StatusInAnalysis, pagbank.StatusAuthorized:
		if o.State == StatePaymentReview {
			return nil
		}
		o.PaymentReview = true
		o.Payment.Status = PaymentStatusPending
		o.State = StatePaymentReview
		o.Status = string(StatePaymentReview)
		o.AddStatusHistory(o.Status, "Payment under review by PagBank.", false)
		return nil
	case pagbank.StatusDeclined, pagbank.StatusCanceled:
		o.PaymentReview = false
		o.Payment.Deny(false)
		o.Payment.RegisterVoid()
		if err := o.Cancel(); err != nil {
			return err
		}
		o.AddStatusHistory(o.Status, "Order cancelled, payment denied by PagBank.", true)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownChargeStatus, status)
	}
}
