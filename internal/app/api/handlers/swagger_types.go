package handlers

import (
	"github.com/fatflowers/checkout/internal/app/service/payment"
	"github.com/fatflowers/checkout/internal/app/service/statistics"
	"github.com/fatflowers/checkout/internal/models"
	"github.com/fatflowers/checkout/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespCreatePayment wraps CreatePaymentIntentResult in the standard envelope.
type RespCreatePayment struct {
	Code    response.APIResponseCode          `json:"code"`
	Message string                            `json:"message"`
	Data    payment.CreatePaymentIntentResult `json:"data"`
}

// RespPaymentState wraps PaymentState in the standard envelope.
type RespPaymentState struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    payment.PaymentState     `json:"data"`
}

// RespWebhookError is returned when a webhook delivery should be retried.
type RespWebhookError struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    WebhookError             `json:"data"`
}

// RespListPaymentTransactions wraps ListPaymentTransactionsResponse in the standard envelope.
type RespListPaymentTransactions struct {
	Code    response.APIResponseCode        `json:"code"`
	Message string                          `json:"message"`
	Data    ListPaymentTransactionsResponse `json:"data"`
}

// RespPaymentStatistic wraps PaymentStatisticResponse in the standard envelope.
type RespPaymentStatistic struct {
	Code    response.APIResponseCode            `json:"code"`
	Message string                              `json:"message"`
	Data    statistics.PaymentStatisticResponse `json:"data"`
}

type RespNotificationLogs struct {
	Code    response.APIResponseCode         `json:"code"`
	Message string                           `json:"message"`
	Data    []*models.PaymentNotificationLog `json:"data"`
}
