package router

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mcsoccercamp/camp-api/internal/log"
	apperrors "github.com/mcsoccercamp/camp-api/pkg/errors"
)

func GetLogger(ctx *RequestContext) *log.Logger {
	if l, ok := ctx.Request.Context().Value(log.LoggerKeyForContext).(*log.Logger); ok && l != nil {
		return l
	}

	baseLogger := log.NewLoggerWithJSONOutput()
	return baseLogger.WithCorrelationID(ctx.Request.Context())
}

func OKResult(data any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusOK,
		Data:       data,
		Message:    message,
	}
}

// FileOKResult returns content as-is with Content-Disposition set from filename.
func FileOKResult(contentType, filename string, inline bool, content []byte) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusOK,
		File: &FileResult{
			ContentType: contentType,
			Filename:    filename,
			Inline:      inline,
			Content:     content,
		},
	}
}

func TooManyRequestsResult(data RateLimitResponse) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusTooManyRequests,
		Details:    data,
		Message:    "Too Many Requests",
	}
}

func BadRequestResult(message string, details any) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusBadRequest,
		Details:    details,
		Message:    message,
	}
}

func InternalServerErrorResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusInternalServerError,
		Message:    message,
	}
}

func ErrorResult(statusCode int, message string, details any) *ServiceResult {
	return &ServiceResult{
		StatusCode: statusCode,
		Details:    details,
		Message:    message,
	}
}

// AppErrorResult maps an error from the service layer onto the error envelope.
func AppErrorResult(err error) *ServiceResult {
	return ErrorResult(
		apperrors.HTTPStatusCode(err),
		apperrors.GetHumanReadableMessage(err),
		apperrors.GetErrorDetails(err),
	)
}

// BindingErrorResult turns a ShouldBind failure into a 400. Presence failures
// are reported under missingMessage with the offending fields listed.
func BindingErrorResult(err error, model any, missingMessage string) *ServiceResult {
	details := apperrors.NewValidationDetails(err, model)

	if len(details.MissingFields) > 0 {
		return BadRequestResult(missingMessage, details)
	}

	if len(details.Errors) > 0 {
		return BadRequestResult("Invalid request payload", details)
	}

	return BadRequestResult("Invalid request body", nil)
}

// AppErrorResultAs keeps client errors as they are and reports server-side
// failures under a route-specific message, with the cause in details.
func AppErrorResultAs(err error, message string) *ServiceResult {
	if !apperrors.IsServerSide(err) {
		return AppErrorResult(err)
	}
	return ErrorResult(apperrors.HTTPStatusCode(err), message, apperrors.GetErrorDetails(err))
}

// ParseUUIDParam reads a document ID from the path parameter, falling back to the query string.
// Missing and malformed IDs produce distinct 400 messages.
func ParseUUIDParam(ctx *RequestContext, name, missingMessage string) (string, *ServiceResult) {
	raw := strings.TrimSpace(ctx.Param(name))
	if raw == "" {
		raw = strings.TrimSpace(ctx.Query(name))
	}
	if raw == "" {
		return "", BadRequestResult(missingMessage, nil)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		GetLogger(ctx).Warn("Invalid ID parameter", "param", name, "value", raw)
		return "", BadRequestResult("Invalid "+humanizeParam(name)+" format", nil)
	}

	return id.String(), nil
}

func humanizeParam(name string) string {
	switch name {
	case "registrationId":
		return "registration ID"
	case "id":
		return "ID"
	default:
		return name
	}
}
