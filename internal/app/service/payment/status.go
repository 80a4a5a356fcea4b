package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fatflowers/checkout/internal/platform/payos"
	"github.com/fatflowers/checkout/pkg/logctx"
	"github.com/fatflowers/checkout/pkg/types"
)

// MapGatewayStatus folds a PayOS link status onto the local payment status.
func MapGatewayStatus(s string) (types.PaymentStatus, error) {
	switch s {
	case payos.StatusPending, payos.StatusProcessing, payos.StatusUnderpaid:
		return types.PaymentStatusPending, nil
	case payos.StatusPaid:
		return types.PaymentStatusPaid, nil
	case payos.StatusCancelled:
		return types.PaymentStatusCancelled, nil
	case payos.StatusExpired:
		return types.PaymentStatusExpired, nil
	case payos.StatusFailed:
		return types.PaymentStatusFailed, nil
	}
	return "", fmt.Errorf("%w: unknown payment status %q", types.ErrGateway, s)
}

// CheckAndReconcileStatus pulls the live status of orderCode from PayOS and
// applies it locally when it settles the payment. Settled payments are
// answered from the database.
func (e *Engine) CheckAndReconcileStatus(ctx context.Context, customerID string, orderCode int64) (*PaymentState, error) {
	txn, err := findByOrderCode(e.db.WithContext(ctx), orderCode)
	if err != nil {
		return nil, err
	}
	if txn.Order == nil || txn.Order.CustomerID != customerID {
		return nil, fmt.Errorf("%w: order code %d", types.ErrTransactionNotFound, orderCode)
	}
	if txn.Status.Terminal() || txn.Order.PaymentStatus.Terminal() {
		return newPaymentState(txn, false), nil
	}

	info, err := e.gateway.GetPaymentLinkInformation(ctx, strconv.FormatInt(orderCode, 10))
	if err != nil {
		return nil, fmt.Errorf("%w: get payment link: %w", types.ErrGateway, err)
	}
	status, err := MapGatewayStatus(info.Status)
	if err != nil {
		return nil, err
	}
	if status == txn.Status {
		return newPaymentState(txn, false), nil
	}

	c := changeFor(types.TransitionSourcePoll, status)
	switch status {
	case types.PaymentStatusPaid:
		paidAt := e.now()
		if len(info.Transactions) > 0 {
			if t, err := payos.ParseTransactionTime(info.Transactions[0].TransactionDateTime); err == nil {
				paidAt = t
			} else {
				logctx.FromCtx(ctx, e.log).Warnw("unparsable gateway transaction time, using now", "order_code", orderCode, "err", err)
			}
		}
		c.paymentTime = &paidAt
	case types.PaymentStatusCancelled:
		if info.CancellationReason != nil && *info.CancellationReason != "" {
			c.note = info.CancellationReason
		}
	}
	snapshot, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment link snapshot: %w", err)
	}
	c.snapshot = snapshot

	changed, err := e.apply(ctx, txn, c)
	if err != nil {
		return nil, err
	}
	return e.loadState(ctx, txn.ID, changed)
}
