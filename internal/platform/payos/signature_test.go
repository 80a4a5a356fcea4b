package payos

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func hmacHex(key, msg string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaymentRequestSignature(t *testing.T) {
	req := &CreatePaymentLinkRequest{
		OrderCode:   123456,
		Amount:      50000,
		Description: "DH123456",
		CancelURL:   "https://shop.test/cancel",
		ReturnURL:   "https://shop.test/return",
	}
	want := hmacHex("k", "amount=50000&cancelUrl=https://shop.test/cancel&description=DH123456&orderCode=123456&returnUrl=https://shop.test/return")
	require.Equal(t, want, PaymentRequestSignature("k", req))
}

func TestDataSignature_SortsKeysAndNormalizesValues(t *testing.T) {
	data := json.RawMessage(`{
		"orderCode": 123456,
		"amount": 3000,
		"description": "VQR <paid>",
		"counterAccountName": null,
		"virtualAccountName": "null",
		"success": true,
		"items": [{"quantity": 1, "name": "a&b"}]
	}`)

	want := hmacHex("secret", `amount=3000&counterAccountName=&description=VQR <paid>&items=[{"name":"a&b","quantity":1}]&orderCode=123456&success=true&virtualAccountName=`)
	got, err := DataSignature("secret", data)
	require.NoError(t, err)
	require.Equal(t, want, got)

	ok, err := VerifyDataSignature("secret", data, want)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = VerifyDataSignature("other", data, want)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDataSignature_RejectsNonObject(t *testing.T) {
	_, err := DataSignature("k", json.RawMessage(`[1,2]`))
	require.Error(t, err)
}

func TestParseTransactionTime(t *testing.T) {
	got, err := ParseTransactionTime("2023-02-04 18:25:00")
	require.NoError(t, err)
	require.Equal(t, "2023-02-04T11:25:00Z", got.UTC().Format("2006-01-02T15:04:05Z"))

	_, err = ParseTransactionTime("04/02/2023")
	require.Error(t, err)
}
