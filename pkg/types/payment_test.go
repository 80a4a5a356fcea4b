package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaymentStatus_Terminal(t *testing.T) {
	require.False(t, PaymentStatusPending.Terminal())
	for _, s := range []PaymentStatus{PaymentStatusPaid, PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusExpired} {
		require.True(t, s.Terminal(), s)
	}
	require.False(t, PaymentStatus("PROCESSING").Terminal())
}
