package handlers

import (
	"errors"

	"github.com/fatflowers/checkout/pkg/response"
	"github.com/fatflowers/checkout/pkg/types"
)

// errorCode maps a service error onto the envelope code.
func errorCode(err error) response.APIResponseCode {
	switch {
	case errors.Is(err, types.ErrValidation), errors.Is(err, types.ErrBadRequest):
		return response.APIResponseCodeBadRequest
	case errors.Is(err, types.ErrNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, types.ErrConflict):
		return response.APIResponseCodeConflict
	case errors.Is(err, types.ErrGateway):
		return response.APIResponseCodeGateway
	default:
		return response.APIResponseCodeError
	}
}
