package payment

import (
	"time"

	"github.com/fatflowers/checkout/internal/models"
	"github.com/fatflowers/checkout/pkg/types"
)

type CreatePaymentIntentRequest struct {
	OrderID     string   `json:"order_id" binding:"required,uuid"`
	Description string   `json:"description"`
	VoucherIDs  []string `json:"voucher_ids" binding:"omitempty,dive,uuid"`
}

type CreatePaymentIntentResult struct {
	OrderID       string    `json:"order_id"`
	OrderCode     int64     `json:"order_code"`
	TransactionID string    `json:"transaction_id"`
	CheckoutURL   string    `json:"checkout_url"`
	QRCode        string    `json:"qr_code"`
	ExpiredAt     time.Time `json:"expired_at"`
}

// PaymentState is the normalized view returned by cancel, webhook and status checks.
type PaymentState struct {
	OrderID           string              `json:"order_id"`
	OrderCode         int64               `json:"order_code"`
	OrderStatus       types.OrderStatus   `json:"order_status"`
	PaymentStatus     types.PaymentStatus `json:"payment_status"`
	TransactionStatus types.PaymentStatus `json:"transaction_status"`
	// Changed is true when this call moved the payment out of PENDING.
	Changed     bool    `json:"changed"`
	CheckoutURL *string `json:"checkout_url"`
	Amount      int64   `json:"amount"`
	Message     string  `json:"message,omitempty"`
}

func newPaymentState(txn *models.PaymentTransaction, changed bool) *PaymentState {
	st := &PaymentState{
		OrderID:           txn.OrderID,
		OrderCode:         txn.PaymentOrderID,
		TransactionStatus: txn.Status,
		Changed:           changed,
		Amount:            txn.Amount,
	}
	if txn.Order != nil {
		st.OrderStatus = txn.Order.OrderStatus
		st.PaymentStatus = txn.Order.PaymentStatus
		st.CheckoutURL = txn.Order.PaymentURL
	}
	return st
}

type ScanTransactionsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanTransactionsResponse struct {
	Items []*models.PaymentTransaction `json:"items"`
	Total int64                        `json:"total"`
}
