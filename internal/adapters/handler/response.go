package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: status >= 200 && status < 300,
		Message: message,
	}

	if response.Success {
		response.Data = data
	} else {
		if apiErr, ok := data.(*APIError); ok {
			response.Error = apiErr
		}
	}

	_ = json.NewEncoder(w).Encode(response)
}

// WriteError writes the JSON error envelope. Middleware uses it as well as handlers.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	respondWithJSON(w, status, message, &APIError{Code: code, Message: message})
}

func respondWithError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var domainErr *domain.DomainError
	code := "INTERNAL_ERROR"
	message := "internal server error"
	status := http.StatusInternalServerError

	if errors.As(err, &domainErr) {
		code = domainErr.Code
		message = domainErr.Message

		switch domainErr.Code {
		case domain.ErrCodeInvalidIdentifier, domain.ErrCodeMissingRequiredField, domain.ErrCodeInvalidAmount:
			status = http.StatusBadRequest
		case domain.ErrCodeBookingNotFound, domain.ErrCodePaymentNotFound:
			status = http.StatusNotFound
		case domain.ErrCodeDuplicateGatewayPayment, domain.ErrCodeInvalidTransition, domain.ErrCodeStorageConflict:
			status = http.StatusConflict
		case domain.ErrCodeGatewayError:
			status = http.StatusBadGateway
		case domain.ErrCodePersistenceFailure:
			status = http.StatusInternalServerError
		default:
			status = http.StatusBadRequest
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "code", code, "error", err)
	}

	WriteError(w, status, code, message)
}
