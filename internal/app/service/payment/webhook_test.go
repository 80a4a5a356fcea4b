package payment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	notificationlog "github.com/fatflowers/checkout/internal/app/service/notification_log"
	"github.com/fatflowers/checkout/internal/models"
	"github.com/fatflowers/checkout/internal/platform/payos"
	"github.com/fatflowers/checkout/pkg/types"
)

func TestHandleWebhook_Success(t *testing.T) {
	f := newFixture(t)
	p := f.pendingPayment(t, "cus-1")
	body := webhookBody(t, checksumKey, true, "success", webhookData(p.OrderCode, 100000, "2025-03-01 17:05:00", "DH paid"))

	st, err := f.engine.HandleWebhook(t.Context(), body)
	require.NoError(t, err)
	require.True(t, st.Changed)
	require.Equal(t, types.PaymentStatusPaid, st.PaymentStatus)
	require.Equal(t, types.PaymentStatusPaid, st.TransactionStatus)

	o := f.order(t, p.OrderID)
	require.Equal(t, types.PaymentStatusPaid, o.PaymentStatus)
	require.Equal(t, types.OrderStatusPending, o.OrderStatus)
	require.Equal(t, "DH paid", o.Note)
	require.NotNil(t, o.PaymentTime)
	require.True(t, o.PaymentTime.Equal(time.Date(2025, 3, 1, 10, 5, 0, 0, time.UTC)), "got %v", o.PaymentTime)
	require.Equal(t, types.PaymentStatusPaid, f.txnByCode(t, p.OrderCode).Status)

	// Redelivery is acknowledged without touching anything.
	for range 2 {
		again, err := f.engine.HandleWebhook(t.Context(), body)
		require.NoError(t, err)
		require.False(t, again.Changed)
		require.Equal(t, MessageAlreadyPaid, again.Message)
		require.Equal(t, types.PaymentStatusPaid, again.PaymentStatus)
	}
	after := f.order(t, p.OrderID)
	require.Equal(t, o.UpdatedAt, after.UpdatedAt)
}

func TestHandleWebhook_Failure(t *testing.T) {
	f := newFixture(t)
	p := f.pendingPayment(t, "cus-1")
	body := webhookBody(t, checksumKey, false, "insufficient funds", webhookData(p.OrderCode, 100000, "2025-03-01 17:05:00", "DH failed"))

	st, err := f.engine.HandleWebhook(t.Context(), body)
	require.NoError(t, err)
	require.True(t, st.Changed)

	o := f.order(t, p.OrderID)
	require.Equal(t, types.PaymentStatusFailed, o.PaymentStatus)
	require.Equal(t, types.OrderStatusCancelled, o.OrderStatus)
	require.Equal(t, "insufficient funds", o.Note)
	require.Nil(t, o.PaymentTime)
	require.Equal(t, types.PaymentStatusFailed, f.txnByCode(t, p.OrderCode).Status)

	// A late success for a failed payment does not resurrect it.
	late := webhookBody(t, checksumKey, true, "success", webhookData(p.OrderCode, 100000, "2025-03-01 17:06:00", "DH paid"))
	st, err = f.engine.HandleWebhook(t.Context(), late)
	require.NoError(t, err)
	require.False(t, st.Changed)
	require.Equal(t, types.PaymentStatusFailed, st.PaymentStatus)
}

func TestHandleWebhook_FailureWithoutTimestamp(t *testing.T) {
	f := newFixture(t)
	p := f.pendingPayment(t, "cus-1")
	data := webhookData(p.OrderCode, 100000, "", "DH failed")
	body := webhookBody(t, checksumKey, false, "bank rejected", data)

	st, err := f.engine.HandleWebhook(t.Context(), body)
	require.NoError(t, err)
	require.True(t, st.Changed)
	require.Equal(t, types.PaymentStatusFailed, st.TransactionStatus)

	o := f.order(t, p.OrderID)
	require.Equal(t, types.PaymentStatusFailed, o.PaymentStatus)
	require.Equal(t, types.OrderStatusCancelled, o.OrderStatus)
	require.Equal(t, "bank rejected", o.Note)
	require.Nil(t, o.PaymentTime)

	// The field may also be absent altogether.
	p2 := f.pendingPayment(t, "cus-1")
	data = webhookData(p2.OrderCode, 100000, "", "DH failed")
	delete(data, "transactionDateTime")
	st, err = f.engine.HandleWebhook(t.Context(), webhookBody(t, checksumKey, false, "expired card", data))
	require.NoError(t, err)
	require.Equal(t, types.PaymentStatusFailed, st.TransactionStatus)
}

func TestHandleWebhook_Rejections(t *testing.T) {
	f := newFixture(t)
	p := f.pendingPayment(t, "cus-1")

	tests := []struct {
		name    string
		body    []byte
		wantErr error
	}{
		{name: "empty", body: nil, wantErr: types.ErrMalformedWebhook},
		{name: "not json", body: []byte("code=00"), wantErr: types.ErrMalformedWebhook},
		{name: "no data", body: []byte(`{"code":"00","desc":"success","success":true,"signature":"ab"}`), wantErr: types.ErrMalformedWebhook},
		{
			name:    "wrong key",
			body:    webhookBody(t, "other-key", true, "success", webhookData(p.OrderCode, 100000, "2025-03-01 17:05:00", "x")),
			wantErr: types.ErrInvalidSignature,
		},
		{
			name:    "unknown order code",
			body:    webhookBody(t, checksumKey, true, "success", webhookData(123, 100000, "2025-03-01 17:05:00", "x")),
			wantErr: types.ErrTransactionNotFound,
		},
		{
			name:    "bad timestamp",
			body:    webhookBody(t, checksumKey, true, "success", webhookData(p.OrderCode, 100000, "yesterday", "x")),
			wantErr: types.ErrInvalidTimestamp,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.HandleWebhook(t.Context(), tt.body)
			require.ErrorIs(t, err, tt.wantErr)
			require.False(t, Retryable(err))
		})
	}

	o := f.order(t, p.OrderID)
	require.Equal(t, types.PaymentStatusPending, o.PaymentStatus)
	require.Equal(t, types.PaymentStatusPending, f.txnByCode(t, p.OrderCode).Status)
}

func TestHandleWebhook_WritesAuditLog(t *testing.T) {
	f := newFixture(t)
	f.engine.notifSvc = notificationlog.New(f.db, zap.NewNop().Sugar())
	p := f.pendingPayment(t, "cus-1")
	body := webhookBody(t, checksumKey, true, "success", webhookData(p.OrderCode, 100000, "2025-03-01 17:05:00", "DH paid"))

	_, err := f.engine.HandleWebhook(t.Context(), body)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		var logs []*models.PaymentNotificationLog
		if err := f.db.Where("payment_order_id = ?", p.OrderCode).Find(&logs).Error; err != nil {
			return false
		}
		seen := map[models.PaymentNotificationLogStatus]bool{}
		for _, l := range logs {
			seen[l.Status] = true
		}
		return seen[models.PaymentNotificationLogStatusReceived] && seen[models.PaymentNotificationLogStatusHandled]
	}, 2*time.Second, 20*time.Millisecond)

	var entry models.PaymentNotificationLog
	require.NoError(t, f.db.Where("payment_order_id = ?", p.OrderCode).First(&entry).Error)
	require.NotNil(t, entry.PaymentLinkID)
	require.Equal(t, fmt.Sprintf("plink-%d", p.OrderCode), *entry.PaymentLinkID)
	require.Equal(t, payos.CodeSuccess, entry.GatewayCode)
}

func TestHandleWebhook_AuditsUnparsableBody(t *testing.T) {
	f := newFixture(t)
	f.engine.notifSvc = notificationlog.New(f.db, zap.NewNop().Sugar())

	_, err := f.engine.HandleWebhook(t.Context(), []byte("code=00&signature=x"))
	require.ErrorIs(t, err, types.ErrMalformedWebhook)

	var entry models.PaymentNotificationLog
	require.Eventually(t, func() bool {
		return f.db.Where("status = ? AND payment_order_id IS NULL", models.PaymentNotificationLogStatusHandleFailed).
			First(&entry).Error == nil
	}, 2*time.Second, 20*time.Millisecond)
	require.JSONEq(t, `{"raw":"code=00&signature=x"}`, string(entry.Data))
	require.NotNil(t, entry.Result)
	require.Contains(t, string(*entry.Result), `"retryable":false`)
	require.Empty(t, entry.GatewayCode)
}
