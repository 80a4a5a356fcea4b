package payment

import (
	"context"

	"github.com/fatflowers/checkout/internal/platform/payos"
)

// Gateway is the slice of the PayOS client the engine depends on.
type Gateway interface {
	CreatePaymentLink(ctx context.Context, req *payos.CreatePaymentLinkRequest) (*payos.CreatePaymentLinkResponse, error)
	CancelPaymentLink(ctx context.Context, id, reason string) (*payos.PaymentLinkInfo, error)
	GetPaymentLinkInformation(ctx context.Context, id string) (*payos.PaymentLinkInfo, error)
	ConfirmWebhook(ctx context.Context, webhookURL string) (*payos.ConfirmWebhookResponse, error)
	VerifyWebhook(raw []byte) (*payos.Webhook, error)
}

func newGateway(c *payos.Client) Gateway { return c }
