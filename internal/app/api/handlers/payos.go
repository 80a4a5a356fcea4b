package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mw "github.com/fatflowers/checkout/internal/app/api/middleware"
	"github.com/fatflowers/checkout/internal/app/service/payment"
	"github.com/fatflowers/checkout/internal/platform/payos"
	"github.com/fatflowers/checkout/pkg/logctx"
	"github.com/fatflowers/checkout/pkg/response"
)

// PaymentService is what the PayOS endpoints need from the reconciliation engine.
type PaymentService interface {
	CreatePaymentIntent(ctx context.Context, customerID string, req *payment.CreatePaymentIntentRequest) (*payment.CreatePaymentIntentResult, error)
	CancelPaymentIntent(ctx context.Context, customerID, externalID, reason string) (*payment.PaymentState, error)
	HandleWebhook(ctx context.Context, raw []byte) (*payment.PaymentState, error)
	CheckAndReconcileStatus(ctx context.Context, customerID string, orderCode int64) (*payment.PaymentState, error)
	ConfirmWebhook(ctx context.Context, webhookURL string) (*payos.ConfirmWebhookResponse, error)
}

type CancelOrderRequest struct {
	CancellationReason string `json:"cancellation_reason" binding:"max=255"`
}

type ConfirmWebhookRequest struct {
	WebhookURL string `json:"webhook_url" binding:"required,url"`
}

// WebhookError is the data of a rejected webhook delivery. Retryable tells
// the gateway whether redelivering the same payload can succeed.
type WebhookError struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
}

func respondError(c *gin.Context, log *zap.SugaredLogger, op string, err error) {
	code := errorCode(err)
	l := logctx.FromGin(c, log)
	if code >= response.APIResponseCodeError {
		l.Errorw(op+"_failed", "err", err)
	} else {
		l.Infow(op+"_rejected", "err", err)
	}
	c.JSON(http.StatusOK, response.ErrorT[any](code, err.Error()))
}

// @Summary      Create PayOS payment
// @Description  Opens a PayOS payment link for a pending order and redeems the given vouchers.
// @Tags         PayOS
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body payment.CreatePaymentIntentRequest true "Order to pay"
// @Success      200  {object}  handlers.RespCreatePayment
// @Router       /api/v1/payos/create-order [post]
func ApiCreateOrder(svc PaymentService, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req payment.CreatePaymentIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.CreatePaymentIntent(c.Request.Context(), mw.CustomerID(c), &req)
		if err != nil {
			respondError(c, log, "create_payment", err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Cancel PayOS payment
// @Description  Cancels a payment link by its PayOS link id or order code and cancels the order.
// @Tags         PayOS
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  string              true  "Payment link id or order code"
// @Param        request body  CancelOrderRequest  false "Cancellation reason"
// @Success      200  {object}  handlers.RespPaymentState
// @Router       /api/v1/payos/cancel-order/{id} [post]
func ApiCancelOrder(svc PaymentService, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CancelOrderRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
		}
		res, err := svc.CancelPaymentIntent(c.Request.Context(), mw.CustomerID(c), c.Param("id"), req.CancellationReason)
		if err != nil {
			respondError(c, log, "cancel_payment", err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Confirm PayOS webhook
// @Description  Registers the webhook URL with PayOS. Back-office only.
// @Tags         PayOS
// @Accept       json
// @Produce      json
// @Security     AdminToken
// @Param        request body ConfirmWebhookRequest true "Webhook URL"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/payos/confirm-webhook [post]
func ApiConfirmWebhook(svc PaymentService, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ConfirmWebhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.ConfirmWebhook(c.Request.Context(), req.WebhookURL)
		if err != nil {
			respondError(c, log, "confirm_webhook", err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      PayOS webhook
// @Description  Receives PayOS payment notifications. Answers HTTP 200 for handled, duplicate and permanently rejected deliveries and HTTP 500 when a retry can succeed.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body payos.WebhookPayload true "PayOS webhook payload"
// @Success      200  {object}  handlers.RespPaymentState
// @Failure      500  {object}  handlers.RespWebhookError
// @Router       /api/v1/payos/webhook-url [post]
func ApiPayOSWebhook(svc PaymentService, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		l := logctx.FromGin(c, log)
		raw, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT(response.APIResponseCodeBadRequest, WebhookError{Error: err.Error()}))
			return
		}
		l.Infow("webhook_payos_received", "bytes", len(raw))

		res, err := svc.HandleWebhook(c.Request.Context(), raw)
		if err != nil {
			retryable := payment.Retryable(err)
			status := http.StatusOK
			if retryable {
				status = http.StatusInternalServerError
			}
			l.Errorw("webhook_payos_handle_error", "err", err, "retryable", retryable)
			c.JSON(status, response.ErrorT(errorCode(err), WebhookError{Error: err.Error(), Retryable: retryable}))
			return
		}
		l.Infow("webhook_payos_handled", "order_code", res.OrderCode, "changed", res.Changed, "status", res.TransactionStatus)
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Check PayOS payment status
// @Description  Pulls the live PayOS status for an order code and reconciles the local order.
// @Tags         PayOS
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "PayOS order code"
// @Success      200  {object}  handlers.RespPaymentState
// @Router       /api/v1/payos/check-payos-payment-status/{id} [post]
func ApiCheckPaymentStatus(svc PaymentService, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderCode, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || orderCode <= 0 {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "id must be a numeric order code"))
			return
		}
		res, err := svc.CheckAndReconcileStatus(c.Request.Context(), mw.CustomerID(c), orderCode)
		if err != nil {
			respondError(c, log, "check_payment_status", err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// RegisterPayOSRoutes mounts the PayOS endpoints. The webhook is public,
// customer guards the payment endpoints and admin guards webhook registration,
// which changes where PayOS delivers for the whole merchant account.
func RegisterPayOSRoutes(r gin.IRouter, svc PaymentService, log *zap.SugaredLogger, customer, admin gin.HandlerFunc) {
	r.POST("/webhook-url", ApiPayOSWebhook(svc, log))

	r.POST("/confirm-webhook", admin, ApiConfirmWebhook(svc, log))

	c := r.Group("", customer)
	c.POST("/create-order", ApiCreateOrder(svc, log))
	c.POST("/cancel-order/:id", ApiCancelOrder(svc, log))
	c.POST("/check-payos-payment-status/:id", ApiCheckPaymentStatus(svc, log))
}
