// Package apperror is the error taxonomy of the HTTP surface.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeGeolocationUnavailable = "GEOLOCATION_UNAVAILABLE"
	CodeLoadFailure            = "LOAD_FAILURE"
	CodeNotFound               = "NOT_FOUND"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeForbidden              = "FORBIDDEN"
	CodeConflict               = "CONFLICT"
	CodeNoChange               = "NO_CHANGE"
	CodeInternal               = "INTERNAL_ERROR"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Details interface{}
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Validation carries a field -> message map in Details.
func Validation(message string, fields map[string]string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Status:  http.StatusBadRequest,
		Details: fields,
	}
}

func GeolocationUnavailable(message string, err error) *AppError {
	return New(CodeGeolocationUnavailable, message, http.StatusUnprocessableEntity, err)
}

func LoadFailure(resource string, err error) *AppError {
	return New(CodeLoadFailure, fmt.Sprintf("failed to load %s", resource), http.StatusServiceUnavailable, err)
}

func NotFound(resource string, err error) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, err)
}

func Unauthorized(message string, err error) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized, err)
}

func Forbidden(message string, err error) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden, err)
}

func Conflict(message string, err error) *AppError {
	return New(CodeConflict, message, http.StatusConflict, err)
}

func NoChange(message string, err error) *AppError {
	return New(CodeNoChange, message, http.StatusConflict, err)
}

func Internal(message string, err error) *AppError {
	return New(CodeInternal, message, http.StatusInternalServerError, err)
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
