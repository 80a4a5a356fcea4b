package payment

import (
	"errors"

	"github.com/fatflowers/checkout/pkg/types"
)

// Retryable reports whether the gateway should redeliver a webhook that failed
// with err. Rejections caused by the payload itself will fail the same way on
// every retry.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	for _, permanent := range []error{types.ErrBadRequest, types.ErrNotFound, types.ErrValidation, types.ErrConflict} {
		if errors.Is(err, permanent) {
			return false
		}
	}
	return true
}
