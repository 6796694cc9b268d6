package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the caller's credentials were missing or wrong.
// It deliberately carries no detail about which part of the credential failed.
var ErrUnauthorized = errors.New("unauthorized")

// ErrRefreshTokenExpired indicates that a presented refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// AppError carries an HTTP status code alongside a caller-safe message.
// The wrapped error (if any) is for logs only and is never serialized.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with an explicit status code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message}
}

func NewTooManyRequestsError(message string) *AppError {
	return &AppError{Code: http.StatusTooManyRequests, Message: message}
}

func NewInternalServerError(message string) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message}
}

func NewGatewayTimeoutError(message string) *AppError {
	return &AppError{Code: http.StatusGatewayTimeout, Message: message}
}
