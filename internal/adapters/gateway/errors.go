package gateway

import (
	"errors"
	"fmt"
)

// Error is a failed gateway call: a transport failure, a non-200 answer, or
// a 200 answer that could not be understood.
type Error struct {
	Code       string
	Message    string
	StatusCode int
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

const (
	CodeTransport       = "TRANSPORT_ERROR"
	CodeInvalidResponse = "INVALID_RESPONSE"
)

func (e *Error) Error() string {
	return fmt.Sprintf("gateway error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

func IsGatewayError(err error) (*Error, bool) {
	var gwErr *Error
	ok := errors.As(err, &gwErr)
	return gwErr, ok
}
