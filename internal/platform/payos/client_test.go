package payos

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/checkout/pkg/config"
)

const testKey = "checksum"

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := &config.Config{PayOS: config.PayOSConfig{
		ClientID:    "cid",
		APIKey:      "key",
		ChecksumKey: testKey,
		BaseURL:     srv.URL,
		Timeout:     2 * time.Second,
	}}
	return NewClient(cfg, zap.NewNop().Sugar())
}

func signedEnvelope(t *testing.T, data string) []byte {
	t.Helper()
	sig, err := DataSignature(testKey, json.RawMessage(data))
	require.NoError(t, err)
	b, err := json.Marshal(map[string]any{
		"code":      "00",
		"desc":      "success",
		"success":   true,
		"data":      json.RawMessage(data),
		"signature": sig,
	})
	require.NoError(t, err)
	return b
}

func TestCreatePaymentLink(t *testing.T) {
	var got CreatePaymentLinkRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/payment-requests", r.URL.Path)
		require.Equal(t, "cid", r.Header.Get("x-client-id"))
		require.Equal(t, "key", r.Header.Get("x-api-key"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write(signedEnvelope(t, `{"bin":"970422","accountNumber":"113366668888","accountName":"SHOP","amount":50000,"description":"DH123456","orderCode":123456,"currency":"VND","paymentLinkId":"plink-1","status":"PENDING","checkoutUrl":"https://pay.payos.vn/web/plink-1","qrCode":"000201"}`))
	})

	req := &CreatePaymentLinkRequest{
		OrderCode:   123456,
		Amount:      50000,
		Description: "DH123456",
		Items:       []Item{{Name: "Tea", Quantity: 2, Price: 25000}},
		CancelURL:   "https://shop.test/cancel",
		ReturnURL:   "https://shop.test/return",
	}
	resp, err := c.CreatePaymentLink(t.Context(), req)
	require.NoError(t, err)
	require.Equal(t, "plink-1", resp.PaymentLinkID)
	require.Equal(t, "https://pay.payos.vn/web/plink-1", resp.CheckoutURL)
	require.Equal(t, PaymentRequestSignature(testKey, req), got.Signature)
	require.Len(t, got.Items, 1)
}

func TestCreatePaymentLink_ValidatesRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("gateway must not be called")
	})
	_, err := c.CreatePaymentLink(t.Context(), &CreatePaymentLinkRequest{
		OrderCode:   1,
		Amount:      0,
		Description: "x",
		CancelURL:   "https://a.test",
		ReturnURL:   "https://a.test",
	})
	require.Error(t, err)
}

func TestCreatePaymentLink_MissingCheckoutURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(signedEnvelope(t, `{"orderCode":123456,"paymentLinkId":"plink-1","checkoutUrl":""}`))
	})
	_, err := c.CreatePaymentLink(t.Context(), &CreatePaymentLinkRequest{
		OrderCode: 123456, Amount: 1000, Description: "DH123456",
		CancelURL: "https://a.test/c", ReturnURL: "https://a.test/r",
	})
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestCreatePaymentLink_BadResponseSignature(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"00","desc":"ok","data":{"orderCode":1,"paymentLinkId":"p","checkoutUrl":"https://x"},"signature":"deadbeef"}`))
	})
	_, err := c.CreatePaymentLink(t.Context(), &CreatePaymentLinkRequest{
		OrderCode: 1, Amount: 1000, Description: "DH1",
		CancelURL: "https://a.test/c", ReturnURL: "https://a.test/r",
	})
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestGetPaymentLinkInformation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v2/payment-requests/123456", r.URL.Path)
		_, _ = w.Write([]byte(`{"code":"00","desc":"success","data":{"id":"plink-1","orderCode":123456,"amount":50000,"amountPaid":50000,"amountRemaining":0,"status":"PAID","createdAt":"2024-05-01T10:00:00+07:00","transactions":[{"reference":"FT1","amount":50000,"transactionDateTime":"2024-05-01T10:05:00+07:00"}]}}`))
	})
	info, err := c.GetPaymentLinkInformation(t.Context(), "123456")
	require.NoError(t, err)
	require.Equal(t, StatusPaid, info.Status)
	require.Len(t, info.Transactions, 1)
}

func TestGatewayRejection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"101","desc":"Đơn thanh toán không tồn tại","data":null}`))
	})
	_, err := c.CancelPaymentLink(t.Context(), "plink-x", "changed mind")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "101", apiErr.Code)
}

func TestCancelPaymentLink_SendsReason(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/payment-requests/plink-1/cancel", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "changed mind", body["cancellationReason"])
		_, _ = w.Write([]byte(`{"code":"00","desc":"success","data":{"id":"plink-1","orderCode":123456,"status":"CANCELLED","cancellationReason":"changed mind"}}`))
	})
	info, err := c.CancelPaymentLink(t.Context(), "plink-1", "changed mind")
	require.NoError(t, err)
	require.Equal(t, int64(123456), info.OrderCode)
	require.Equal(t, StatusCancelled, info.Status)
}

func TestConfirmWebhook(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/confirm-webhook", r.URL.Path)
		_, _ = w.Write([]byte(`{"code":"00","desc":"success","data":{"webhookUrl":"https://shop.test/hook","accountName":"SHOP"}}`))
	})
	resp, err := c.ConfirmWebhook(t.Context(), "https://shop.test/hook")
	require.NoError(t, err)
	require.Equal(t, "https://shop.test/hook", resp.WebhookURL)

	_, err = c.ConfirmWebhook(t.Context(), "not a url")
	require.Error(t, err)
}

func TestVerifyWebhook(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	data := `{"orderCode":123456,"amount":50000,"description":"DH123456","accountNumber":"12345678","reference":"TF230204212323","transactionDateTime":"2023-02-04 18:25:00","currency":"VND","paymentLinkId":"plink-1","code":"00","desc":"Thành công","counterAccountBankId":"","counterAccountName":null}`
	body := signedEnvelope(t, data)

	hook, err := c.VerifyWebhook(body)
	require.NoError(t, err)
	require.True(t, hook.Succeeded())
	require.Equal(t, int64(123456), hook.Data.OrderCode)
	require.Equal(t, "2023-02-04 18:25:00", hook.Data.TransactionDateTime)

	tampered := []byte(`{"code":"00","desc":"success","success":true,"data":` + data + `,"signature":"00ff"}`)
	_, err = c.VerifyWebhook(tampered)
	require.ErrorIs(t, err, ErrInvalidSignature)

	_, err = c.VerifyWebhook([]byte(`{"code":"00"`))
	require.ErrorIs(t, err, ErrMalformedWebhook)

	_, err = c.VerifyWebhook([]byte(`{"code":"00","desc":"x","data":null,"signature":"ab"}`))
	require.ErrorIs(t, err, ErrMalformedWebhook)
}
