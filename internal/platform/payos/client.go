package payos

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fatflowers/checkout/pkg/config"
	"github.com/fatflowers/checkout/pkg/logctx"
	"github.com/fatflowers/checkout/pkg/metrics"
)

var (
	// ErrInvalidResponse means the gateway answered with a body we cannot trust.
	ErrInvalidResponse = errors.New("invalid payos response")
	// ErrInvalidSignature means a signed payload failed HMAC verification.
	ErrInvalidSignature = errors.New("invalid payos signature")
	// ErrMalformedWebhook means a webhook body failed schema validation.
	ErrMalformedWebhook = errors.New("malformed payos webhook")
)

type envelope struct {
	Code      string          `json:"code"`
	Desc      string          `json:"desc"`
	Data      json.RawMessage `json:"data"`
	Signature string          `json:"signature"`
}

// Client talks to the PayOS merchant API.
type Client struct {
	cfg        config.PayOSConfig
	httpClient *http.Client
	validate   *validator.Validate
	log        *zap.SugaredLogger
}

func NewClient(cfg *config.Config, log *zap.SugaredLogger) *Client {
	timeout := cfg.PayOS.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg.PayOS,
		httpClient: &http.Client{Timeout: timeout},
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		log:        log,
	}
}

// ChecksumKey returns the key used for request and webhook signatures.
func (c *Client) ChecksumKey() string { return c.cfg.ChecksumKey }

// CreatePaymentLink signs and submits req. The signature is computed here when
// the caller left it empty.
func (c *Client) CreatePaymentLink(ctx context.Context, req *CreatePaymentLinkRequest) (*CreatePaymentLinkResponse, error) {
	if req.Signature == "" {
		req.Signature = PaymentRequestSignature(c.cfg.ChecksumKey, req)
	}
	if err := c.validate.StructCtx(ctx, req); err != nil {
		return nil, fmt.Errorf("invalid payment request: %w", err)
	}

	var out CreatePaymentLinkResponse
	if err := c.call(ctx, "create", http.MethodPost, "/v2/payment-requests", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPaymentLinkInformation looks up a link by its payment link id or order code.
func (c *Client) GetPaymentLinkInformation(ctx context.Context, id string) (*PaymentLinkInfo, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("payment link id is required")
	}
	var out PaymentLinkInfo
	path := "/v2/payment-requests/" + url.PathEscape(id)
	if err := c.call(ctx, "get", http.MethodGet, path, nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelPaymentLink cancels a link by its payment link id or order code.
func (c *Client) CancelPaymentLink(ctx context.Context, id, reason string) (*PaymentLinkInfo, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("payment link id is required")
	}
	var body any
	if reason != "" {
		body = map[string]string{"cancellationReason": reason}
	}
	var out PaymentLinkInfo
	path := "/v2/payment-requests/" + url.PathEscape(id) + "/cancel"
	if err := c.call(ctx, "cancel", http.MethodPost, path, body, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmWebhook registers webhookURL with the gateway.
func (c *Client) ConfirmWebhook(ctx context.Context, webhookURL string) (*ConfirmWebhookResponse, error) {
	if err := c.validate.VarCtx(ctx, webhookURL, "required,url"); err != nil {
		return nil, fmt.Errorf("invalid webhook url: %w", err)
	}
	var out ConfirmWebhookResponse
	body := map[string]string{"webhookUrl": webhookURL}
	if err := c.call(ctx, "confirm_webhook", http.MethodPost, "/confirm-webhook", body, &out, false); err != nil {
		return nil, err
	}
	if out.WebhookURL == "" {
		out.WebhookURL = webhookURL
	}
	return &out, nil
}

// VerifyWebhook validates the shape of a webhook body and its signature.
func (c *Client) VerifyWebhook(raw []byte) (*Webhook, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWebhook, err)
	}
	if err := c.validate.Struct(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWebhook, err)
	}
	if len(payload.Data) == 0 || bytes.Equal(bytes.TrimSpace(payload.Data), []byte("null")) {
		return nil, fmt.Errorf("%w: data is empty", ErrMalformedWebhook)
	}

	ok, err := VerifyDataSignature(c.cfg.ChecksumKey, payload.Data, payload.Signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWebhook, err)
	}
	if !ok {
		return nil, ErrInvalidSignature
	}

	var data WebhookData
	if err := json.Unmarshal(payload.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWebhook, err)
	}
	if err := c.validate.Struct(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWebhook, err)
	}

	return &Webhook{
		Code:    payload.Code,
		Desc:    payload.Desc,
		Success: payload.Success,
		Data:    &data,
		Raw:     append(json.RawMessage(nil), raw...),
	}, nil
}

func (c *Client) call(ctx context.Context, op, method, path string, in, out any, signed bool) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveGatewayCall(op, start, err) }()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.cfg.BaseURL, "/")+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", c.cfg.ClientID)
	req.Header.Set("x-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("payos %s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", op, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %s status %d: %v", ErrInvalidResponse, op, resp.StatusCode, err)
	}
	if env.Code != CodeSuccess {
		logctx.FromCtx(ctx, c.log).Warnw("payos call rejected", "op", op, "http_status", resp.StatusCode, "code", env.Code, "desc", env.Desc)
		return &APIError{Code: env.Code, Desc: env.Desc}
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return fmt.Errorf("%w: %s returned no data", ErrInvalidResponse, op)
	}
	if signed && env.Signature != "" {
		ok, err := VerifyDataSignature(c.cfg.ChecksumKey, env.Data, env.Signature)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		if !ok {
			return fmt.Errorf("%w: %s response", ErrInvalidSignature, op)
		}
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode %s data: %v", ErrInvalidResponse, op, err)
	}
	if err := c.validate.StructCtx(ctx, out); err != nil {
		return fmt.Errorf("%w: %s data: %v", ErrInvalidResponse, op, err)
	}
	return nil
}
