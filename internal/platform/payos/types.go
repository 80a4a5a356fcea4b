package payos

import (
	"encoding/json"
	"fmt"
	"time"
)

// Gateway status strings as returned by payment-requests lookups.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusUnderpaid  = "UNDERPAID"
	StatusPaid       = "PAID"
	StatusCancelled  = "CANCELLED"
	StatusExpired    = "EXPIRED"
	StatusFailed     = "FAILED"
)

// CodeSuccess is the envelope code of an accepted call or a successful webhook.
const CodeSuccess = "00"

// MaxDescriptionLen is the longest description the gateway accepts for bank transfers.
const MaxDescriptionLen = 25

type Item struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	Price    int64  `json:"price" validate:"gte=0"`
}

type CreatePaymentLinkRequest struct {
	OrderCode   int64  `json:"orderCode" validate:"gt=0"`
	Amount      int64  `json:"amount" validate:"gt=0"`
	Description string `json:"description" validate:"required,max=25"`
	BuyerName   string `json:"buyerName,omitempty"`
	BuyerEmail  string `json:"buyerEmail,omitempty" validate:"omitempty,email"`
	Items       []Item `json:"items,omitempty" validate:"dive"`
	CancelURL   string `json:"cancelUrl" validate:"required,url"`
	ReturnURL   string `json:"returnUrl" validate:"required,url"`
	// ExpiredAt is a unix timestamp in seconds.
	ExpiredAt int64  `json:"expiredAt,omitempty"`
	Signature string `json:"signature"`
}

type CreatePaymentLinkResponse struct {
	Bin           string `json:"bin"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	Amount        int64  `json:"amount"`
	Description   string `json:"description"`
	OrderCode     int64  `json:"orderCode" validate:"gt=0"`
	Currency      string `json:"currency"`
	PaymentLinkID string `json:"paymentLinkId" validate:"required"`
	Status        string `json:"status"`
	ExpiredAt     *int64 `json:"expiredAt"`
	CheckoutURL   string `json:"checkoutUrl" validate:"required"`
	QRCode        string `json:"qrCode"`
}

type Transaction struct {
	Reference           string `json:"reference"`
	Amount              int64  `json:"amount"`
	AccountNumber       string `json:"accountNumber"`
	Description         string `json:"description"`
	TransactionDateTime string `json:"transactionDateTime"`
}

// PaymentLinkInfo is the gateway's view of one payment link (lookup and cancel).
type PaymentLinkInfo struct {
	ID                 string        `json:"id"`
	OrderCode          int64         `json:"orderCode" validate:"gt=0"`
	Amount             int64         `json:"amount"`
	AmountPaid         int64         `json:"amountPaid"`
	AmountRemaining    int64         `json:"amountRemaining"`
	Status             string        `json:"status" validate:"required"`
	CreatedAt          string        `json:"createdAt"`
	Transactions       []Transaction `json:"transactions"`
	CancellationReason *string       `json:"cancellationReason"`
	CanceledAt         *string       `json:"canceledAt"`
}

type ConfirmWebhookResponse struct {
	WebhookURL    string `json:"webhookUrl"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	Name          string `json:"name"`
	ShortName     string `json:"shortName"`
}

// WebhookPayload is the envelope PayOS posts to the webhook URL.
type WebhookPayload struct {
	Code      string          `json:"code" validate:"required"`
	Desc      string          `json:"desc"`
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data" validate:"required"`
	Signature string          `json:"signature" validate:"required"`
}

type WebhookData struct {
	OrderCode              int64   `json:"orderCode" validate:"gt=0"`
	Amount                 int64   `json:"amount"`
	Description            string  `json:"description"`
	AccountNumber          string  `json:"accountNumber"`
	Reference              string  `json:"reference"`
	TransactionDateTime    string  `json:"transactionDateTime"`
	Currency               string  `json:"currency"`
	PaymentLinkID          string  `json:"paymentLinkId"`
	Code                   string  `json:"code"`
	Desc                   string  `json:"desc"`
	CounterAccountBankID   *string `json:"counterAccountBankId"`
	CounterAccountBankName *string `json:"counterAccountBankName"`
	CounterAccountName     *string `json:"counterAccountName"`
	CounterAccountNumber   *string `json:"counterAccountNumber"`
	VirtualAccountName     *string `json:"virtualAccountName"`
	VirtualAccountNumber   *string `json:"virtualAccountNumber"`
}

// Webhook is a verified delivery.
type Webhook struct {
	Code    string
	Desc    string
	Success bool
	Data    *WebhookData
	// Raw is the exact body received, kept for audit snapshots.
	Raw json.RawMessage
}

// Succeeded reports whether the delivery confirms a payment.
func (w *Webhook) Succeeded() bool {
	return w != nil && w.Success && w.Code == CodeSuccess
}

// APIError is a non-success envelope returned by the gateway.
type APIError struct {
	Code string
	Desc string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payos error %s: %s", e.Code, e.Desc)
}

// vietnamTime is UTC+7 without DST; the gateway reports local wall-clock times.
var vietnamTime = time.FixedZone("ICT", 7*60*60)

// ParseTransactionTime parses gateway timestamps such as "2023-02-04 18:25:00".
func ParseTransactionTime(s string) (time.Time, error) {
	for _, layout := range []string{time.DateTime, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, vietnamTime); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized transaction time %q", s)
}
