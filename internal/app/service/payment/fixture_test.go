package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/checkout/internal/app/service/voucher"
	"github.com/fatflowers/checkout/internal/models"
	"github.com/fatflowers/checkout/internal/platform/db/dbtest"
	"github.com/fatflowers/checkout/internal/platform/payos"
	"github.com/fatflowers/checkout/pkg/config"
	"github.com/fatflowers/checkout/pkg/tool"
	"github.com/fatflowers/checkout/pkg/types"
)

const checksumKey = "test-checksum"

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

// fakeGateway answers like PayOS. Webhook verification goes through the real
// client so signatures are checked for real.
type fakeGateway struct {
	verifier *payos.Client

	createFn func(req *payos.CreatePaymentLinkRequest) (*payos.CreatePaymentLinkResponse, error)
	cancelFn func(id, reason string) (*payos.PaymentLinkInfo, error)
	getFn    func(id string) (*payos.PaymentLinkInfo, error)

	createCalls atomic.Int32
	cancelCalls atomic.Int32
	getCalls    atomic.Int32
	lastCreate  *payos.CreatePaymentLinkRequest
}

func (g *fakeGateway) CreatePaymentLink(_ context.Context, req *payos.CreatePaymentLinkRequest) (*payos.CreatePaymentLinkResponse, error) {
	g.createCalls.Add(1)
	g.lastCreate = req
	if g.createFn != nil {
		return g.createFn(req)
	}
	return &payos.CreatePaymentLinkResponse{
		OrderCode:     req.OrderCode,
		Amount:        req.Amount,
		Description:   req.Description,
		PaymentLinkID: fmt.Sprintf("plink-%d", req.OrderCode),
		Status:        payos.StatusPending,
		CheckoutURL:   "https://pay/abc",
		QRCode:        "00020101021238570010A000000727",
	}, nil
}

func (g *fakeGateway) CancelPaymentLink(_ context.Context, id, reason string) (*payos.PaymentLinkInfo, error) {
	g.cancelCalls.Add(1)
	if g.cancelFn != nil {
		return g.cancelFn(id, reason)
	}
	return nil, fmt.Errorf("unexpected cancel %s", id)
}

func (g *fakeGateway) GetPaymentLinkInformation(_ context.Context, id string) (*payos.PaymentLinkInfo, error) {
	g.getCalls.Add(1)
	if g.getFn != nil {
		return g.getFn(id)
	}
	return nil, fmt.Errorf("unexpected lookup %s", id)
}

func (g *fakeGateway) ConfirmWebhook(_ context.Context, webhookURL string) (*payos.ConfirmWebhookResponse, error) {
	return &payos.ConfirmWebhookResponse{WebhookURL: webhookURL}, nil
}

func (g *fakeGateway) VerifyWebhook(raw []byte) (*payos.Webhook, error) {
	return g.verifier.VerifyWebhook(raw)
}

type fixture struct {
	db          *gorm.DB
	cfg         *config.Config
	gw          *fakeGateway
	engine      *Engine
	payosMethod *models.PaymentMethod
	codMethod   *models.PaymentMethod
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.NewSQLite(t)
	cfg := &config.Config{PayOS: config.PayOSConfig{
		ChecksumKey: checksumKey,
		MethodCode:  "PAYOS",
		ReturnURL:   "https://shop.test/return",
		CancelURL:   "https://shop.test/cancel",
		LinkTTL:     30 * time.Minute,
	}}
	log := zap.NewNop().Sugar()
	gw := &fakeGateway{verifier: payos.NewClient(cfg, log)}
	e := NewEngine(cfg, log, db, gw, voucher.NewLedger(log), nil)
	e.now = func() time.Time { return fixedNow }

	f := &fixture{db: db, cfg: cfg, gw: gw, engine: e}
	f.payosMethod = &models.PaymentMethod{ID: tool.GenerateUUIDV7(), Code: "PAYOS", Name: "PayOS", IsActive: true}
	f.codMethod = &models.PaymentMethod{ID: tool.GenerateUUIDV7(), Code: "COD", Name: "Cash on delivery", IsActive: true}
	require.NoError(t, db.Create(f.payosMethod).Error)
	require.NoError(t, db.Create(f.codMethod).Error)
	return f
}

func (f *fixture) seedOrder(t *testing.T, customerID, total string, method *models.PaymentMethod) *models.Order {
	t.Helper()
	o := &models.Order{
		ID:              tool.GenerateUUIDV7(),
		CustomerID:      customerID,
		OrderStatus:     types.OrderStatusPending,
		PaymentStatus:   types.PaymentStatusPending,
		TotalPrice:      decimal.RequireFromString(total),
		PaymentMethodID: method.ID,
	}
	require.NoError(t, f.db.Create(o).Error)
	require.NoError(t, f.db.Create(&models.OrderDetail{
		ID:          tool.GenerateUUIDV7(),
		OrderID:     o.ID,
		ProductName: "Green tea",
		Quantity:    2,
		Price:       decimal.RequireFromString(total).Div(decimal.NewFromInt(2)),
	}).Error)
	return o
}

// pendingPayment seeds an order and opens a payment intent for it.
func (f *fixture) pendingPayment(t *testing.T, customerID string) *CreatePaymentIntentResult {
	t.Helper()
	o := f.seedOrder(t, customerID, "100000", f.payosMethod)
	res, err := f.engine.CreatePaymentIntent(t.Context(), customerID, &CreatePaymentIntentRequest{OrderID: o.ID})
	require.NoError(t, err)
	return res
}

func (f *fixture) order(t *testing.T, id string) *models.Order {
	t.Helper()
	var o models.Order
	require.NoError(t, f.db.First(&o, "id = ?", id).Error)
	return &o
}

func (f *fixture) txnByCode(t *testing.T, code int64) *models.PaymentTransaction {
	t.Helper()
	var txn models.PaymentTransaction
	require.NoError(t, f.db.First(&txn, "payment_order_id = ?", code).Error)
	return &txn
}

// webhookBody builds a signed PayOS delivery.
func webhookBody(t *testing.T, key string, success bool, desc string, data map[string]any) []byte {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	sig, err := payos.DataSignature(key, raw)
	require.NoError(t, err)
	code := "00"
	if !success {
		code = "01"
	}
	body, err := json.Marshal(map[string]any{
		"code":      code,
		"desc":      desc,
		"success":   success,
		"data":      json.RawMessage(raw),
		"signature": sig,
	})
	require.NoError(t, err)
	return body
}

func webhookData(orderCode int64, amount int64, when, description string) map[string]any {
	return map[string]any{
		"orderCode":           orderCode,
		"amount":              amount,
		"description":         description,
		"accountNumber":       "12345678",
		"reference":           "TF230204212323",
		"transactionDateTime": when,
		"currency":            "VND",
		"paymentLinkId":       fmt.Sprintf("plink-%d", orderCode),
		"code":                "00",
		"desc":                "success",
	}
}
