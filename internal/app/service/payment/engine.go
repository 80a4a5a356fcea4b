package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	notificationlog "github.com/fatflowers/checkout/internal/app/service/notification_log"
	"github.com/fatflowers/checkout/internal/app/service/voucher"
	"github.com/fatflowers/checkout/internal/models"
	"github.com/fatflowers/checkout/internal/platform/payos"
	"github.com/fatflowers/checkout/pkg/config"
	"github.com/fatflowers/checkout/pkg/logctx"
	"github.com/fatflowers/checkout/pkg/tool"
	"github.com/fatflowers/checkout/pkg/types"
)

const defaultLinkTTL = 30 * time.Minute

// Engine reconciles local orders with PayOS payment links.
type Engine struct {
	cfg      *config.Config
	log      *zap.SugaredLogger
	db       *gorm.DB
	gateway  Gateway
	vouchers *voucher.Ledger
	notifSvc *notificationlog.Service

	now          func() time.Time
	newOrderCode func() int64
}

func NewEngine(cfg *config.Config, log *zap.SugaredLogger, db *gorm.DB, gateway Gateway, vouchers *voucher.Ledger, notif *notificationlog.Service) *Engine {
	return &Engine{
		cfg:          cfg,
		log:          log,
		db:           db,
		gateway:      gateway,
		vouchers:     vouchers,
		notifSvc:     notif,
		now:          time.Now,
		newOrderCode: tool.RandomOrderCode,
	}
}

// CreatePaymentIntent opens a PayOS payment link for a pending order and
// redeems the given vouchers. Everything commits together or not at all.
func (e *Engine) CreatePaymentIntent(ctx context.Context, customerID string, req *CreatePaymentIntentRequest) (*CreatePaymentIntentResult, error) {
	if req == nil || req.OrderID == "" {
		return nil, fmt.Errorf("%w: order_id is required", types.ErrValidation)
	}
	log := logctx.FromCtx(ctx, e.log)
	now := e.now()

	var (
		result *CreatePaymentIntentResult
		// openCode is the order code of a link PayOS may hold open.
		openCode int64
	)
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, req.OrderID)
		if err != nil {
			return err
		}
		if order.CustomerID != customerID {
			return types.ErrOrderNotFound
		}

		var existing int64
		if err := tx.Unscoped().Model(&models.PaymentTransaction{}).Where("order_id = ?", order.ID).Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to count payment transactions: %w", err)
		}
		if existing > 0 {
			return types.ErrPaymentExists
		}

		var method models.PaymentMethod
		if err := tx.First(&method, "id = ?", order.PaymentMethodID).Error; err != nil || method.Code != e.cfg.PayOS.MethodCode {
			return types.ErrPaymentMethodMismatch
		}
		if order.OrderStatus != types.OrderStatusPending {
			return types.ErrOrderNotPending
		}

		amount := order.TotalPrice.IntPart()
		if amount <= 0 {
			return fmt.Errorf("%w: order total must be positive", types.ErrValidation)
		}

		var details []*models.OrderDetail
		if err := tx.Where("order_id = ?", order.ID).Order("created_at").Find(&details).Error; err != nil {
			return fmt.Errorf("failed to load order details: %w", err)
		}

		// Voucher checks run before the gateway call so a rejected voucher
		// never leaves an open payment link behind.
		redemption, err := e.vouchers.Reserve(ctx, tx, customerID, req.VoucherIDs, now)
		if err != nil {
			return err
		}

		txn := &models.PaymentTransaction{
			ID:              tool.GenerateUUIDV7(),
			OrderID:         order.ID,
			PaymentMethodID: method.ID,
			Amount:          amount,
			Status:          types.PaymentStatusPending,
		}
		if err := e.reserveOrderCode(ctx, tx, txn); err != nil {
			return err
		}

		description := paymentDescription(req.Description, txn.PaymentOrderID)
		expiredAt := now.Add(e.linkTTL())
		openCode = txn.PaymentOrderID
		link, err := e.gateway.CreatePaymentLink(ctx, &payos.CreatePaymentLinkRequest{
			OrderCode:   txn.PaymentOrderID,
			Amount:      amount,
			Description: description,
			Items: lo.Map(details, func(d *models.OrderDetail, _ int) payos.Item {
				return payos.Item{Name: d.ProductName, Quantity: d.Quantity, Price: d.Price.IntPart()}
			}),
			CancelURL: e.cfg.PayOS.CancelURL,
			ReturnURL: e.cfg.PayOS.ReturnURL,
			ExpiredAt: expiredAt.Unix(),
		})
		if err != nil {
			// A refusal from PayOS means no link exists; a transport error may
			// still have opened one.
			var apiErr *payos.APIError
			if errors.As(err, &apiErr) {
				openCode = 0
			}
			return fmt.Errorf("%w: create payment link: %w", types.ErrGateway, err)
		}
		if link.CheckoutURL == "" {
			return fmt.Errorf("%w: payment link has no checkout url", types.ErrGateway)
		}
		if link.ExpiredAt != nil && *link.ExpiredAt > 0 {
			expiredAt = time.Unix(*link.ExpiredAt, 0)
		}

		snapshot, err := json.Marshal(link)
		if err != nil {
			return fmt.Errorf("failed to encode payment link snapshot: %w", err)
		}
		if err := tx.Model(&models.PaymentTransaction{}).Where("id = ?", txn.ID).Updates(map[string]any{
			"transaction_id": link.PaymentLinkID,
			"payment_data":   datatypes.JSON(snapshot),
		}).Error; err != nil {
			return fmt.Errorf("failed to save payment link: %w", err)
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]any{
			"payment_url":         link.CheckoutURL,
			"payment_url_expired": expiredAt,
			"note":                description,
			"order_status":        types.OrderStatusPending,
			"payment_status":      types.PaymentStatusPending,
		}).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		if err := e.vouchers.Commit(ctx, tx, redemption, now); err != nil {
			return err
		}

		result = &CreatePaymentIntentResult{
			OrderID:       order.ID,
			OrderCode:     txn.PaymentOrderID,
			TransactionID: link.PaymentLinkID,
			CheckoutURL:   link.CheckoutURL,
			QRCode:        link.QRCode,
			ExpiredAt:     expiredAt,
		}
		return nil
	})
	if err != nil {
		log.Warnw("create payment intent failed", "order_id", req.OrderID, "err", err)
		if openCode != 0 {
			e.cancelOrphanLink(ctx, openCode)
		}
		return nil, err
	}

	log.Infow("payment intent created", "order_id", result.OrderID, "order_code", result.OrderCode, "transaction_id", result.TransactionID)
	return result, nil
}

// OrphanLinkCancelReason is sent to PayOS when a link was opened but the
// payment intent that owns it rolled back.
const OrphanLinkCancelReason = "Checkout rolled back"

// cancelOrphanLink closes a link whose local record was rolled back.
// Failures are only logged.
func (e *Engine) cancelOrphanLink(ctx context.Context, orderCode int64) {
	log := logctx.FromCtx(ctx, e.log)
	id := strconv.FormatInt(orderCode, 10)
	if _, err := e.gateway.CancelPaymentLink(context.WithoutCancel(ctx), id, OrphanLinkCancelReason); err != nil {
		log.Errorw("failed to cancel orphan payment link", "order_code", orderCode, "err", err)
		return
	}
	log.Infow("orphan payment link cancelled", "order_code", orderCode)
}

// ConfirmWebhook registers the webhook URL with PayOS.
func (e *Engine) ConfirmWebhook(ctx context.Context, webhookURL string) (*payos.ConfirmWebhookResponse, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("%w: webhook_url is required", types.ErrValidation)
	}
	resp, err := e.gateway.ConfirmWebhook(ctx, webhookURL)
	if err != nil {
		return nil, fmt.Errorf("%w: confirm webhook: %w", types.ErrGateway, err)
	}
	logctx.FromCtx(ctx, e.log).Infow("payos webhook confirmed", "webhook_url", resp.WebhookURL)
	return resp, nil
}

func (e *Engine) linkTTL() time.Duration {
	if e.cfg.PayOS.LinkTTL > 0 {
		return e.cfg.PayOS.LinkTTL
	}
	return defaultLinkTTL
}

// paymentDescription returns the transfer memo shown to the payer, cut to the
// bank transfer limit.
func paymentDescription(desc string, orderCode int64) string {
	if desc == "" {
		desc = "DH" + strconv.FormatInt(orderCode, 10)
	}
	r := []rune(desc)
	if len(r) > payos.MaxDescriptionLen {
		r = r[:payos.MaxDescriptionLen]
	}
	return string(r)
}
