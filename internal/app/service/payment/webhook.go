package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/datatypes"

	"github.com/fatflowers/checkout/internal/models"
	"github.com/fatflowers/checkout/internal/platform/payos"
	"github.com/fatflowers/checkout/pkg/logctx"
	"github.com/fatflowers/checkout/pkg/types"
)

const MessageAlreadyPaid = "already paid"

// HandleWebhook applies a PayOS payment notification. Deliveries for payments
// that are already settled are acknowledged without any change.
func (e *Engine) HandleWebhook(ctx context.Context, raw []byte) (state *PaymentState, resErr error) {
	log := logctx.FromCtx(ctx, e.log)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty body", types.ErrMalformedWebhook)
	}

	hook, err := e.gateway.VerifyWebhook(raw)
	if err != nil {
		hook = nil
	}
	e.saveNotification(ctx, raw, hook, models.PaymentNotificationLogStatusReceived, nil)
	defer func() {
		status := models.PaymentNotificationLogStatusHandled
		res := map[string]any{"state": state}
		if resErr != nil {
			status = models.PaymentNotificationLogStatusHandleFailed
			res["error"] = resErr.Error()
			res["retryable"] = Retryable(resErr)
		}
		e.saveNotification(ctx, raw, hook, status, res)
	}()

	if err != nil {
		log.Warnw("rejected payos webhook", "err", err)
		if errors.Is(err, payos.ErrInvalidSignature) {
			return nil, types.ErrInvalidSignature
		}
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedWebhook, err)
	}

	data := hook.Data
	txn, err := findByOrderCode(e.db.WithContext(ctx), data.OrderCode)
	if err != nil {
		return nil, err
	}
	if txn.Status == types.PaymentStatusPaid {
		st := newPaymentState(txn, false)
		st.Message = MessageAlreadyPaid
		return st, nil
	}
	if txn.Status.Terminal() {
		st := newPaymentState(txn, false)
		st.Message = "payment already " + string(txn.Status)
		return st, nil
	}

	var c change
	if hook.Succeeded() {
		paidAt, err := payos.ParseTransactionTime(data.TransactionDateTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrInvalidTimestamp, err)
		}
		if data.Amount < txn.Amount {
			log.Warnw("webhook amount below payment amount", "order_code", data.OrderCode, "paid", data.Amount, "expected", txn.Amount)
		}
		c = changeFor(types.TransitionSourceWebhook, types.PaymentStatusPaid)
		c.paymentTime = &paidAt
		c.note = lo.ToPtr(data.Description)
	} else {
		c = changeFor(types.TransitionSourceWebhook, types.PaymentStatusFailed)
		c.note = lo.ToPtr(lo.CoalesceOrEmpty(hook.Desc, data.Desc, data.Description))
	}
	c.snapshot = datatypes.JSON(hook.Raw)

	changed, err := e.apply(ctx, txn, c)
	if err != nil {
		return nil, err
	}
	st, err := e.loadState(ctx, txn.ID, changed)
	if err != nil {
		return nil, err
	}
	if !changed && st.TransactionStatus == types.PaymentStatusPaid {
		st.Message = MessageAlreadyPaid
	}
	return st, nil
}

// saveNotification records a delivery; hook is nil when verification failed.
func (e *Engine) saveNotification(ctx context.Context, raw []byte, hook *payos.Webhook, status models.PaymentNotificationLogStatus, result map[string]any) {
	if e.notifSvc == nil {
		return
	}
	log := logctx.FromCtx(ctx, e.log)
	data := raw
	if !json.Valid(raw) {
		wrapped, err := json.Marshal(map[string]string{"raw": string(raw)})
		if err != nil {
			log.Warnw("failed to encode webhook body for audit log", "status", status, "err", err)
			return
		}
		data = wrapped
	}
	entry := &models.PaymentNotificationLog{
		ProviderID:       string(types.PaymentProviderPayOS),
		TraceID:          logctx.TraceID(ctx),
		NotificationTime: e.now(),
		Data:             datatypes.JSON(data),
		Status:           status,
	}
	if hook != nil && hook.Data != nil {
		entry.PaymentOrderID = lo.ToPtr(hook.Data.OrderCode)
		entry.PaymentLinkID = lo.EmptyableToPtr(hook.Data.PaymentLinkID)
		entry.GatewayCode = hook.Code
	}
	if result != nil {
		b, err := json.Marshal(result)
		if err != nil {
			log.Warnw("failed to encode webhook result for audit log", "status", status, "err", err)
		} else {
			entry.Result = lo.ToPtr(datatypes.JSON(b))
		}
	}
	e.notifSvc.Save(ctx, entry)
}
