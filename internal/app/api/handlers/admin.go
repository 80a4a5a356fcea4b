package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/fatflowers/checkout/internal/app/service/payment"
	"github.com/fatflowers/checkout/internal/app/service/statistics"
	"github.com/fatflowers/checkout/internal/models"
	"github.com/fatflowers/checkout/pkg/response"
	"github.com/fatflowers/checkout/pkg/types"
)

// TransactionScanner lists payment transactions for the back office.
type TransactionScanner interface {
	ScanTransactions(ctx context.Context, req *payment.ScanTransactionsRequest) (*payment.ScanTransactionsResponse, error)
}

type StatisticService interface {
	GetPaymentStatistic(ctx context.Context, req *statistics.PaymentStatisticRequest) (*statistics.PaymentStatisticResponse, error)
}

type NotificationLogLister interface {
	ListByOrderCode(ctx context.Context, orderCode int64, limit int) ([]*models.PaymentNotificationLog, error)
}

type ListTransactionRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type TransactionItem struct {
	ID              string              `json:"id"`
	OrderID         string              `json:"order_id"`
	PaymentMethodID string              `json:"payment_method_id"`
	OrderCode       int64               `json:"order_code"`
	TransactionID   *string             `json:"transaction_id"`
	Amount          int64               `json:"amount"`
	Status          types.PaymentStatus `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func toTransactionItem(m *models.PaymentTransaction) *TransactionItem {
	return &TransactionItem{
		ID:              m.ID,
		OrderID:         m.OrderID,
		PaymentMethodID: m.PaymentMethodID,
		OrderCode:       m.PaymentOrderID,
		TransactionID:   m.TransactionID,
		Amount:          m.Amount,
		Status:          m.Status,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

type ListPaymentTransactionsResponse struct {
	Items []*TransactionItem `json:"items"`
	Total int64              `json:"total"`
}

// @Summary      List Payment Transactions (Admin)
// @Description  Retrieves a paginated and filterable list of PayOS payment transactions.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     AdminToken
// @Param        request body ListTransactionRequest true "List transaction request with filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespListPaymentTransactions
// @Router       /api/v1/admin/payment_transactions [post]
func ApiListPaymentTransactions(svc TransactionScanner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		scanReq := &payment.ScanTransactionsRequest{Filters: req.Filters, From: req.From, Size: req.Size, SortBy: req.SortBy, SortOrder: req.SortOrder}
		res, err := svc.ScanTransactions(c.Request.Context(), scanReq)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errorCode(err), err.Error()))
			return
		}
		items := lo.Map(res.Items, func(it *models.PaymentTransaction, _ int) *TransactionItem { return toTransactionItem(it) })
		c.JSON(http.StatusOK, response.OKT(&ListPaymentTransactionsResponse{Items: items, Total: res.Total}))
	}
}

// @Summary      Get Payment Statistics (Admin)
// @Description  Retrieves daily payment counts and amounts by status.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     AdminToken
// @Param        request body statistics.PaymentStatisticRequest true "Statistic request parameters"
// @Success      200  {object}  handlers.RespPaymentStatistic
// @Router       /api/v1/admin/payment_statistic [post]
func ApiGetPaymentStatistic(svc StatisticService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.PaymentStatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.GetPaymentStatistic(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errorCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      List Webhook Deliveries (Admin)
// @Description  Returns the recorded PayOS webhook deliveries for one order code.
// @Tags         Admin
// @Produce      json
// @Security     AdminToken
// @Param        order_code  path   int  true   "PayOS order code"
// @Param        limit       query  int  false  "Max rows (default 100)"
// @Success      200  {object}  handlers.RespNotificationLogs
// @Router       /api/v1/admin/payment_notification_logs/{order_code} [get]
func ApiListNotificationLogs(svc NotificationLogLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderCode, err := strconv.ParseInt(c.Param("order_code"), 10, 64)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid order_code"))
			return
		}
		limit, _ := strconv.Atoi(c.Query("limit"))
		rows, err := svc.ListByOrderCode(c.Request.Context(), orderCode, limit)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errorCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

func RegisterAdminPaymentRoutes(r gin.IRouter, scanner TransactionScanner, stats StatisticService, logs NotificationLogLister) {
	r.POST("/payment_transactions", ApiListPaymentTransactions(scanner))
	r.POST("/payment_statistic", ApiGetPaymentStatistic(stats))
	r.GET("/payment_notification_logs/:order_code", ApiListNotificationLogs(logs))
}
