package payos

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

func sign(key, message string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// PaymentRequestSignature signs the five fields PayOS checks on link creation.
// The field order is fixed and alphabetical.
func PaymentRequestSignature(key string, req *CreatePaymentLinkRequest) string {
	msg := fmt.Sprintf("amount=%d&cancelUrl=%s&description=%s&orderCode=%d&returnUrl=%s",
		req.Amount, req.CancelURL, req.Description, req.OrderCode, req.ReturnURL)
	return sign(key, msg)
}

// DataSignature signs a response or webhook data object: keys sorted, joined
// as key=value pairs with '&'.
func DataSignature(key string, data json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return "", fmt.Errorf("decode signed data: %w", err)
	}
	return sign(key, queryString(m)), nil
}

// VerifyDataSignature reports whether signature matches data under key.
func VerifyDataSignature(key string, data json.RawMessage, signature string) (bool, error) {
	expected, err := DataSignature(key, data)
	if err != nil {
		return false, err
	}
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))), nil
}

func queryString(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(stringify(m[k]))
	}
	return b.String()
}

// stringify renders a value the way the gateway does before signing:
// null collapses to the empty string and nested values become compact JSON
// with sorted keys.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		if t == "null" || t == "undefined" {
			return ""
		}
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(t); err != nil {
			return ""
		}
		return strings.TrimSuffix(buf.String(), "\n")
	}
}
