package router

import (
	"github.com/gin-gonic/gin"
)

type RequestContext = gin.Context

type MiddlewareFunc = gin.HandlerFunc

// ServiceResult is what every handler returns. Success results serialise to
// {success, code, message, data}; error results to {success, code, error, details}.
// A non-nil File bypasses the JSON envelope entirely.
type ServiceResult struct {
	StatusCode int
	Data       any
	Message    string
	Details    any
	File       *FileResult
}

// FileResult streams raw bytes to the client.
type FileResult struct {
	ContentType string
	Filename    string
	Inline      bool
	Content     []byte
}

type RateLimitResponse struct {
	Limit      int    `json:"limit"`
	Window     string `json:"window"`
	RetryAfter string `json:"retryAfter"`
}

type HandlerFunction func(*RequestContext) *ServiceResult

type RESTController struct {
	name         string
	mountPoint   string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}

func (result *ServiceResult) ToJSON() gin.H {
	if result.IsError() {
		return gin.H{
			"success": false,
			"code":    result.StatusCode,
			"error":   result.Message,
			"details": result.Details,
		}
	}

	return gin.H{
		"success": true,
		"code":    result.StatusCode,
		"message": result.Message,
		"data":    result.Data,
	}
}

func (result *ServiceResult) IsError() bool {
	return result.StatusCode >= 400
}
