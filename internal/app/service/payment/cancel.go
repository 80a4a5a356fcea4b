package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fatflowers/checkout/pkg/logctx"
	"github.com/fatflowers/checkout/pkg/types"
)

const DefaultCancelReason = "Customer cancelled"

// CancelPaymentIntent cancels the payment link identified by externalID (link
// id or order code) and settles the local payment as CANCELLED.
func (e *Engine) CancelPaymentIntent(ctx context.Context, customerID, externalID, reason string) (*PaymentState, error) {
	if externalID == "" {
		return nil, fmt.Errorf("%w: payment id is required", types.ErrValidation)
	}
	if reason == "" {
		reason = DefaultCancelReason
	}
	log := logctx.FromCtx(ctx, e.log)

	// Every link this service opens is recorded locally, so an id without a
	// row is never forwarded to the gateway.
	txn, err := findByExternalID(e.db.WithContext(ctx), externalID)
	if err != nil {
		return nil, err
	}
	if txn.Order == nil || txn.Order.CustomerID != customerID {
		return nil, fmt.Errorf("%w: %s", types.ErrTransactionNotFound, externalID)
	}
	if txn.Status.Terminal() {
		st := newPaymentState(txn, false)
		st.Message = "payment already " + string(txn.Status)
		return st, nil
	}

	info, err := e.gateway.CancelPaymentLink(ctx, externalID, reason)
	if err != nil {
		return nil, fmt.Errorf("%w: cancel payment link: %w", types.ErrGateway, err)
	}
	if info.OrderCode != txn.PaymentOrderID {
		log.Errorw("gateway cancelled a different order code", "external_id", externalID, "order_code", txn.PaymentOrderID, "gateway_order_code", info.OrderCode)
		return nil, fmt.Errorf("%w: cancel answered for order code %d, expected %d", types.ErrGateway, info.OrderCode, txn.PaymentOrderID)
	}

	c := changeFor(types.TransitionSourceCancel, types.PaymentStatusCancelled)
	c.note = &reason
	if c.snapshot, err = json.Marshal(info); err != nil {
		return nil, fmt.Errorf("failed to encode cancel snapshot: %w", err)
	}
	changed, err := e.apply(ctx, txn, c)
	if err != nil {
		return nil, err
	}
	return e.loadState(ctx, txn.ID, changed)
}
