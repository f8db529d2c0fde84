package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Validation errors
const (
	ErrCodeInvalidIdentifier    = "INVALID_IDENTIFIER"
	ErrCodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	ErrCodeInvalidAmount        = "INVALID_AMOUNT"
)

// Business errors
const (
	ErrCodeBookingNotFound         = "BOOKING_NOT_FOUND"
	ErrCodePaymentNotFound         = "PAYMENT_NOT_FOUND"
	ErrCodeDuplicateGatewayPayment = "DUPLICATE_GATEWAY_PAYMENT"
	ErrCodeInvalidTransition       = "INVALID_TRANSITION"
)

// Infrastructure errors
const (
	ErrCodeGatewayError       = "GATEWAY_ERROR"
	ErrCodeStorageConflict    = "STORAGE_CONFLICT"
	ErrCodePersistenceFailure = "PERSISTENCE_FAILURE"
)

func NewInvalidIdentifierError(raw string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidIdentifier,
		Message: fmt.Sprintf("invalid booking identifier %q", raw),
	}
}

func NewMissingFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("missing %s", field),
	}
}

func NewInvalidAmountError(amount string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount %q", amount),
		Err:     err,
	}
}

func NewBookingNotFoundError(bookingID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeBookingNotFound,
		Message: fmt.Sprintf("booking not found: %s", bookingID),
	}
}

func NewPaymentNotFoundError(key string) *DomainError {
	return &DomainError{
		Code:    ErrCodePaymentNotFound,
		Message: fmt.Sprintf("payment not found: %s", key),
	}
}

func NewDuplicateGatewayPaymentError(gatewayPaymentID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeDuplicateGatewayPayment,
		Message: fmt.Sprintf("gateway payment %s is already recorded for another booking", gatewayPaymentID),
	}
}

func NewInvalidTransitionError(entity, from, to string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition %s from %s to %s", entity, from, to),
	}
}

func NewGatewayError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeGatewayError,
		Message: "payment gateway request failed",
		Err:     err,
	}
}

func NewStorageConflictError(constraint string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeStorageConflict,
		Message: fmt.Sprintf("unique constraint %s violated", constraint),
		Err:     err,
	}
}

func NewPersistenceError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodePersistenceFailure,
		Message: "payment record could not be stored",
		Err:     err,
	}
}

// IsErrorCode reports whether err wraps a DomainError with the given code.
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

func IsNotFound(err error) bool {
	return IsErrorCode(err, ErrCodePaymentNotFound) || IsErrorCode(err, ErrCodeBookingNotFound)
}
