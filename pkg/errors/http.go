package errors

import (
	"errors"
)

const genericMessage = "An unexpected error occurred"

var statusByType = map[string]int{
	ErrorTypeInvalidRequest:       StatusBadRequest,
	ErrorTypeUnauthorized:         StatusUnauthorized,
	ErrorTypeNotFound:             StatusNotFound,
	ErrorTypePayloadTooLarge:      StatusPayloadTooLarge,
	ErrorTypeDatabaseError:        StatusInternalServerError,
	ErrorTypeExternalServiceError: StatusInternalServerError,
	ErrorTypeInternalServerError:  StatusInternalServerError,
}

// HTTPStatusCode maps an error to its response status. Errors that are not
// AppErrors are treated as internal failures.
func HTTPStatusCode(err error) int {
	if status, ok := statusByType[GetErrorType(err)]; ok {
		return status
	}
	return StatusInternalServerError
}

// GetHumanReadableMessage never exposes the text of an unclassified error.
func GetHumanReadableMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return genericMessage
}

// GetErrorDetails returns the cause message for database and external-service failures.
// Client errors and unclassified errors return nil so the response carries no details.
func GetErrorDetails(err error) any {
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Err == nil {
		return nil
	}

	switch appErr.Type {
	case ErrorTypeDatabaseError, ErrorTypeExternalServiceError, ErrorTypeInternalServerError:
		return appErr.Err.Error()
	default:
		return nil
	}
}
