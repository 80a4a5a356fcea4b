package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/checkout/internal/models"
	"github.com/fatflowers/checkout/internal/platform/db"
	"github.com/fatflowers/checkout/pkg/logctx"
	"github.com/fatflowers/checkout/pkg/types"
)

// MaxOrderCodeAttempts bounds how many random codes are tried before giving up.
const MaxOrderCodeAttempts = 10

// lockOrder loads the order row FOR UPDATE; it is only meaningful inside a transaction.
func lockOrder(tx *gorm.DB, orderID string) (*models.Order, error) {
	var order models.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

func findByOrderCode(tx *gorm.DB, code int64) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := tx.Preload("Order").First(&txn, "payment_order_id = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order code %d", types.ErrTransactionNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment transaction: %w", err)
	}
	return &txn, nil
}

// findByExternalID resolves the id a client holds: the gateway payment link id,
// or the numeric order code.
func findByExternalID(tx *gorm.DB, id string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	q := tx.Preload("Order")
	if code, err := strconv.ParseInt(id, 10, 64); err == nil {
		q = q.Where("transaction_id = ? OR payment_order_id = ?", id, code)
	} else {
		q = q.Where("transaction_id = ?", id)
	}
	err := q.First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", types.ErrTransactionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment transaction: %w", err)
	}
	return &txn, nil
}

// reserveOrderCode inserts txn under a fresh random order code. Each attempt
// runs in a savepoint so a unique violation does not abort the caller's
// transaction.
func (e *Engine) reserveOrderCode(ctx context.Context, tx *gorm.DB, txn *models.PaymentTransaction) error {
	for attempt := 1; attempt <= MaxOrderCodeAttempts; attempt++ {
		txn.PaymentOrderID = e.newOrderCode()
		err := tx.Transaction(func(sp *gorm.DB) error {
			return sp.Create(txn).Error
		})
		if err == nil {
			return nil
		}
		if !db.IsDuplicateKey(err) {
			return fmt.Errorf("failed to reserve order code: %w", err)
		}
		logctx.FromCtx(ctx, e.log).Infow("order code collision, retrying", "order_code", txn.PaymentOrderID, "attempt", attempt)
	}
	return fmt.Errorf("%w: no free order code after %d attempts", types.ErrConflict, MaxOrderCodeAttempts)
}

func (e *Engine) loadState(ctx context.Context, txnID string, changed bool) (*PaymentState, error) {
	var txn models.PaymentTransaction
	if err := e.db.WithContext(ctx).Preload("Order").First(&txn, "id = ?", txnID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload payment transaction: %w", err)
	}
	return newPaymentState(&txn, changed), nil
}
