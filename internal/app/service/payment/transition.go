package payment

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fatflowers/checkout/internal/models"
	"github.com/fatflowers/checkout/pkg/logctx"
	"github.com/fatflowers/checkout/pkg/metrics"
	"github.com/fatflowers/checkout/pkg/types"
)

// change describes one move out of PENDING.
type change struct {
	source      types.TransitionSource
	to          types.PaymentStatus
	orderStatus types.OrderStatus
	note        *string
	paymentTime *time.Time
	snapshot    datatypes.JSON
}

// changeFor fills in the order side of a transition to status.
// Every outcome except PAID cancels the order.
func changeFor(source types.TransitionSource, status types.PaymentStatus) change {
	c := change{source: source, to: status}
	if status != types.PaymentStatusPaid {
		c.orderStatus = types.OrderStatusCancelled
	}
	return c
}

// apply moves txn out of PENDING with a conditional update and mirrors the
// result onto its order in the same transaction. It returns false without
// touching the order when another event already settled the payment.
func (e *Engine) apply(ctx context.Context, txn *models.PaymentTransaction, c change) (bool, error) {
	applied := false
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"status": c.to}
		if len(c.snapshot) > 0 {
			updates["payment_data"] = c.snapshot
		}
		res := tx.Model(&models.PaymentTransaction{}).
			Where("id = ? AND status = ?", txn.ID, types.PaymentStatusPending).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update payment transaction: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		orderUpdates := map[string]any{"payment_status": c.to}
		if c.orderStatus != "" {
			orderUpdates["order_status"] = c.orderStatus
		}
		if c.note != nil {
			orderUpdates["note"] = *c.note
		}
		if c.paymentTime != nil {
			orderUpdates["payment_time"] = *c.paymentTime
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", txn.OrderID).Updates(orderUpdates).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}

	log := logctx.FromCtx(ctx, e.log)
	if !applied {
		log.Infow("payment already settled, transition skipped", "order_code", txn.PaymentOrderID, "source", c.source, "to", c.to)
		return false, nil
	}
	metrics.ObservePaymentTransition(string(c.source), string(c.to))
	log.Infow("payment transitioned", "order_code", txn.PaymentOrderID, "order_id", txn.OrderID, "source", c.source, "to", c.to)
	return true, nil
}
