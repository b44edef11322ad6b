package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOrder_IsEligible(t *testing.T) {
	var tests = []struct {
		state    State
		expected bool
	}{
		{StateNew, true},
		{StatePaymentReview, true},
		{StateProcessing, false},
		{StateComplete, false},
		{StateClosed, false},
		{StateCanceled, false},
		{StateHolded, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.state), func(t *testing.T) {
			t.Parallel()
			o := &Order{State: tt.state}
			require.Equal(t, tt.expected, o.IsEligible())
		})
	}
}

func TestOrder_Cancel(t *testing.T) {
	o := &Order{State: StateNew, Status: "pending"}
	require.NoError(t, o.Cancel())
	require.Equal(t, StateCanceled, o.State)
	require.Equal(t, "canceled", o.Status)

	require.ErrorIs(t, o.Cancel(), ErrNotCancelable)
	require.ErrorIs(t, (&Order{State: StateComplete}).Cancel(), ErrNotCancelable)
}

func TestPayment_DenyAndVoid(t *testing.T) {
	p := &Payment{Status: PaymentStatusPending}
	p.Deny(false)
	require.True(t, p.Denied)
	require.False(t, p.NotifyCustomer)
	require.Equal(t, PaymentStatusDenied, p.Status)

	p.RegisterVoid()
	require.True(t, p.VoidRegistered)
	require.Equal(t, PaymentStatusVoided, p.Status)
}

func TestOrder_CloneIsDeep(t *testing.T) {
	exp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	o := &Order{ID: 1, Payment: Payment{ExpirationDate: &exp}}
	o.AddStatusHistory("new", "created", false)

	cpy := o.Clone()
	*cpy.Payment.ExpirationDate = exp.Add(time.Hour)
	cpy.History[0].Comment = "changed"

	require.Equal(t, exp, *o.Payment.ExpirationDate)
	require.Equal(t, "created", o.History[0].Comment)
}

func TestOrder_PendingHistory(t *testing.T) {
	o := &Order{History: []HistoryEntry{{ID: 3}, {}, {ID: 9}, {}}}
	require.Equal(t, []int{1, 3}, o.pendingHistory())
}
