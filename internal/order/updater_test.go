package order

import (
	"context"
	"testing"

	"pagsync/kit/pagbank"

	"github.com/stretchr/testify/require"
)

func TestApplyChargeStatus(t *testing.T) {
	var tests = []struct {
		name          string
		state         State
		status        pagbank.ChargeStatus
		expectedState State
		expectedPay   string
		review        bool
		comment       string
		notify        bool
		expectedErr   error
	}{
		{name: "waiting", state: StateNew, status: pagbank.StatusWaiting, expectedState: StateNew, expectedPay: PaymentStatusPending},
		{name: "paid", state: StateNew, status: pagbank.StatusPaid, expectedState: StateProcessing, expectedPay: PaymentStatusPaid, comment: "Payment approved by PagBank."},
		{name: "paid after review", state: StatePaymentReview, status: pagbank.StatusPaid, expectedState: StateProcessing, expectedPay: PaymentStatusPaid, comment: "Payment approved by PagBank."},
		{name: "in analysis", state: StateNew, status: pagbank.StatusInAnalysis, expectedState: StatePaymentReview, expectedPay: PaymentStatusPending, review: true, comment: "Payment under review by PagBank."},
		{name: "authorized already in review", state: StatePaymentReview, status: pagbank.StatusAuthorized, expectedState: StatePaymentReview, expectedPay: PaymentStatusPending},
		{name: "declined", state: StateNew, status: pagbank.StatusDeclined, expectedState: StateCanceled, expectedPay: PaymentStatusVoided, comment: "Order cancelled, payment denied by PagBank.", notify: true},
		{name: "canceled", state: StatePaymentReview, status: pagbank.StatusCanceled, expectedState: StateCanceled, expectedPay: PaymentStatusVoided, comment: "Order cancelled, payment denied by PagBank.", notify: true},
		{name: "unknown", state: StateNew, status: "REFUNDED", expectedState: StateNew, expectedPay: PaymentStatusPending, expectedErr: ErrUnknownChargeStatus},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o := &Order{ID: 1, State: tt.state, PaymentReview: tt.state == StatePaymentReview, Payment: Payment{Status: PaymentStatusPending}}
			if tt.state == StatePaymentReview {
				tt.review = tt.review || tt.expectedState == StatePaymentReview
			}

			err := ApplyChargeStatus(o, tt.status)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expectedState, o.State)
			require.Equal(t, tt.expectedPay, o.Payment.Status)
			require.Equal(t, tt.review, o.PaymentReview)
			if tt.comment == "" {
				require.Empty(t, o.History)
				return
			}
			require.Len(t, o.History, 1)
			require.Equal(t, tt.comment, o.History[0].Comment)
			require.Equal(t, tt.notify, o.History[0].CustomerNotified)
		})
	}
}

func TestPaymentUpdater_UpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("applies gateway status", func(t *testing.T) {
		t.Parallel()
		gw := pagbank.NewFakeGateway()
		gw.Set("ORDE_1", pagbank.StatusPaid)
		o := &Order{ID: 1, State: StateNew}

		require.NoError(t, NewPaymentUpdater(gw).UpdatePaymentStatus(ctx, o, "ORDE_1"))
		require.Equal(t, StateProcessing, o.State)
		require.Equal(t, "ORDE_1", o.Payment.LastTransID)
	})

	t.Run("gateway error leaves order untouched", func(t *testing.T) {
		t.Parallel()
		gw := new(pagbank.GatewayMock)
		gw.On("OrderStatus", ctx, "ORDE_2").Return(pagbank.ChargeStatus(""), pagbank.ErrTimeout)
		o := &Order{ID: 2, State: StateNew}

		require.ErrorIs(t, NewPaymentUpdater(gw).UpdatePaymentStatus(ctx, o, "ORDE_2"), pagbank.ErrTimeout)
		require.Equal(t, StateNew, o.State)
		require.Empty(t, o.Payment.LastTransID)
	})
}
