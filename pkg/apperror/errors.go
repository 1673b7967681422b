package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"error"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Error codes.
const (
	CodeUnauthenticated   = "AUTH_001"
	CodeInvalidToken      = "AUTH_002"
	CodeOrderNotFound     = "ORDER_001"
	CodeForbidden         = "ORDER_002"
	CodeUpdateFailed      = "ORDER_003"
	CodeInvalidStatus     = "ORDER_004"
	CodeRateLimitExceeded = "RATE_001"
	CodeValidation        = "REQ_001"
	CodeInternal          = "SYS_001"
)

// ---- Session (AUTH) ----

func ErrUnauthenticated() *AppError {
	return New(CodeUnauthenticated, "You must be signed in", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Seller orders (ORDER) ----

func ErrOrderItemNotFound() *AppError {
	return New(CodeOrderNotFound, "Order item not found", http.StatusNotFound)
}

func ErrForbidden() *AppError {
	return New(CodeForbidden, "You are not allowed to update this order item", http.StatusForbidden)
}

func ErrUpdateFailed(err error) *AppError {
	return Wrap(CodeUpdateFailed, "Failed to update order item", http.StatusInternalServerError, err)
}

// ErrStatusRejected is the update failure returned when an owner asks for a
// status outside the four delivery statuses. Storage is not touched.
func ErrStatusRejected() *AppError {
	return New(CodeUpdateFailed, "Invalid delivery status", http.StatusUnprocessableEntity)
}

func ErrInvalidStatus() *AppError {
	return New(CodeInvalidStatus, "Invalid delivery status", http.StatusUnprocessableEntity)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimitExceeded, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a REQ_001 validation error.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}
