package types

import (
	"errors"
	"fmt"
)

// Error categories. Handlers map these onto response codes; every specific
// error below wraps exactly one of them.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrGateway    = errors.New("payment gateway error")
	ErrBadRequest = errors.New("bad request")
)

var (
	ErrOrderNotFound       = fmt.Errorf("order %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("payment transaction %w", ErrNotFound)
	ErrVoucherNotOwned     = fmt.Errorf("voucher not owned by customer: %w", ErrNotFound)

	ErrPaymentExists  = fmt.Errorf("payment already exists for order: %w", ErrConflict)
	ErrVoucherInvalid = fmt.Errorf("voucher already used or unavailable: %w", ErrConflict)

	ErrOrderNotPending       = fmt.Errorf("order is not pending: %w", ErrValidation)
	ErrPaymentMethodMismatch = fmt.Errorf("order payment method is not payos: %w", ErrValidation)

	ErrInvalidTimestamp = fmt.Errorf("invalid transaction timestamp: %w", ErrBadRequest)
	ErrInvalidSignature = fmt.Errorf("invalid webhook signature: %w", ErrBadRequest)
	ErrMalformedWebhook = fmt.Errorf("malformed webhook payload: %w", ErrBadRequest)
)
