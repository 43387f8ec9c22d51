package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type ErrorCode string

const (
	ErrorNotFound         ErrorCode = "not_found"
	ErrorValidationFailed ErrorCode = "validation_failed"
	ErrorForbidden        ErrorCode = "forbidden"
	ErrorExpired          ErrorCode = "expired"
	ErrorUnavailable      ErrorCode = "unavailable"
	ErrorDelivery         ErrorCode = "delivery_failed"
	ErrorAIUnavailable    ErrorCode = "ai_unavailable"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func newServiceError(code ErrorCode, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...interface{}) error {
	return newServiceError(ErrorNotFound, format, args...)
}

func NewValidationError(format string, args ...interface{}) error {
	return newServiceError(ErrorValidationFailed, format, args...)
}

func NewForbiddenError(format string, args ...interface{}) error {
	return newServiceError(ErrorForbidden, format, args...)
}

func NewExpiredError(format string, args ...interface{}) error {
	return newServiceError(ErrorExpired, format, args...)
}

// ErrUnavailable is the single outcome candidates see for any token that
// cannot be used, whatever the underlying reason.
var ErrUnavailable error = &ServiceError{Code: ErrorUnavailable, Message: "this test link is not available"}

func AsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

// CodeOf returns the service error code of err, or "" for unexpected errors.
func CodeOf(err error) ErrorCode {
	if svcErr, ok := AsServiceError(err); ok {
		return svcErr.Code
	}
	return ""
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
