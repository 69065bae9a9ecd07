package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaymentStatusTransitions(t *testing.T) {
	require.True(t, PaymentPending.CanTransition(PaymentPaid))
	require.True(t, PaymentPending.CanTransition(PaymentExpired))
	require.True(t, PaymentPending.CanTransition(PaymentFailed))

	require.False(t, PaymentPaid.CanTransition(PaymentPending))
	require.False(t, PaymentPaid.CanTransition(PaymentFailed))
	require.False(t, PaymentExpired.CanTransition(PaymentPaid))
	require.False(t, PaymentFailed.CanTransition(PaymentPaid))
}

func TestValidNotification(t *testing.T) {
	require.True(t, Payment{}.ValidNotification(), "absent notification is fine")

	good := `{"transaction_status":"settlement","order_id":"WRG-001"}`
	require.True(t, Payment{RawNotification: &good}.ValidNotification())

	bad := `{"transaction_status":`
	require.False(t, Payment{RawNotification: &bad}.ValidNotification())

	empty := ""
	require.False(t, Payment{RawNotification: &empty}.ValidNotification())
}
