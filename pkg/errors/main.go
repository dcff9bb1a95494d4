package errors

import (
	"errors"
	"fmt"
)

const (
	StatusNoContent           = 204
	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusNotFound            = 404
	StatusMethodNotAllowed    = 405
	StatusRequestTimeout      = 408
	StatusPayloadTooLarge     = 413
	StatusTooManyRequests     = 429
	StatusInternalServerError = 500
)

const (
	ErrorTypeInvalidRequest       = "INVALID_REQUEST"
	ErrorTypeUnauthorized         = "UNAUTHORIZED"
	ErrorTypeNotFound             = "NOT_FOUND"
	ErrorTypePayloadTooLarge      = "PAYLOAD_TOO_LARGE"
	ErrorTypeDatabaseError        = "DATABASE_ERROR"
	ErrorTypeExternalServiceError = "EXTERNAL_SERVICE_ERROR"
	ErrorTypeInternalServerError  = "INTERNAL_SERVER_ERROR"
	ErrorTypeUnknown              = "UNKNOWN_ERROR"
)

// AppError carries a client-safe Message alongside the underlying cause.
type AppError struct {
	Type    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(errType, message string, err error) *AppError {
	return &AppError{Type: errType, Message: message, Err: err}
}

// NewInvalidRequestError covers missing fields, bad IDs and rejected uploads.
func NewInvalidRequestError(message string, err error) *AppError {
	return newAppError(ErrorTypeInvalidRequest, message, err)
}

func NewUnauthorizedError(message string, err error) *AppError {
	return newAppError(ErrorTypeUnauthorized, message, err)
}

func NewNotFoundError(message string, err error) *AppError {
	return newAppError(ErrorTypeNotFound, message, err)
}

func NewPayloadTooLargeError(message string, err error) *AppError {
	return newAppError(ErrorTypePayloadTooLarge, message, err)
}

func NewDatabaseError(message string, err error) *AppError {
	return newAppError(ErrorTypeDatabaseError, message, err)
}

// NewExternalServiceError wraps failures from the mail relay, payment processor or blob storage.
func NewExternalServiceError(message string, err error) *AppError {
	return newAppError(ErrorTypeExternalServiceError, message, err)
}

func NewInternalServerError(message string, err error) *AppError {
	return newAppError(ErrorTypeInternalServerError, message, err)
}

func GetErrorType(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeUnknown
}

func IsNotFound(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsServerSide reports whether err should be answered with a 5xx and its cause
// reported in details.
func IsServerSide(err error) bool {
	return HTTPStatusCode(err) >= StatusInternalServerError
}
