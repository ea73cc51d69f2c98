package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeMissingID        ErrorCode = "MISSING_ID"
	ErrCodeInvalidID        ErrorCode = "INVALID_ID"

	ErrCodeEntryNotFound  ErrorCode = "ENTRY_NOT_FOUND"
	ErrCodeUserNotFound   ErrorCode = "USER_NOT_FOUND"
	ErrCodeEntryExists    ErrorCode = "ENTRY_ALREADY_EXISTS"
	ErrCodeUserExists     ErrorCode = "USER_ALREADY_EXISTS"
	ErrCodeNotOwnAccount  ErrorCode = "NOT_OWN_ACCOUNT"
	ErrCodeEmailNotSet    ErrorCode = "EMAIL_NOT_SET"
	ErrCodeBadEmailToken  ErrorCode = "BAD_EMAIL_TOKEN"
	ErrCodeBadCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeSessionInvalid ErrorCode = "SESSION_INVALID"
	ErrCodeRoleDenied     ErrorCode = "INSUFFICIENT_ROLE"
)

type AppError struct {
	Type       ErrorType `json:"type"`
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrEntryNotFound  = NewNotFoundError("entry not found", ErrCodeEntryNotFound)
	ErrUserNotFound   = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrEntryExists    = NewConflictError("entry already exists", ErrCodeEntryExists)
	ErrUserExists     = NewConflictError("user already exists", ErrCodeUserExists)
	ErrBadCredentials = NewUnauthorizedError("invalid login or password", ErrCodeBadCredentials)
	ErrSessionInvalid = NewUnauthorizedError("invalid session", ErrCodeSessionInvalid)
	ErrRoleDenied     = NewForbiddenError("insufficient permissions", ErrCodeRoleDenied)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType `json:"type"`
		Code    ErrorCode `json:"code"`
		Message string    `json:"message"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
	})
}
