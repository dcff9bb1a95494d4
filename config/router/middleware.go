package router

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/pkg/constants"
	apperrors "github.com/mcsoccercamp/camp-api/pkg/errors"
	"github.com/mcsoccercamp/camp-api/pkg/ratelimit"
	"github.com/mcsoccercamp/camp-api/pkg/utils"
)

var corsAllowedHeaders = strings.Join([]string{
	"Content-Type",
	"Accept",
	"Authorization",
	"X-Requested-With",
	constants.AdminKeyHeader,
	constants.CorrelationIDHeader,
}, ", ")

// quietPaths are polled by load balancers and scrapers and only logged on failure.
var quietPaths = map[string]bool{
	"/":        true,
	"/health":  true,
	"/metrics": true,
}

type securityConfig struct {
	allowedOrigins map[string]bool
	allowAnyOrigin bool

	hstsEnabled bool
	hstsValue   string
}

// newSecurityConfig reads CORS_ALLOWED_ORIGIN, falling back to the origin of
// SITE_BASE_URL so the camp site can call the API without extra setup.
func newSecurityConfig() *securityConfig {
	cfg := &securityConfig{allowedOrigins: map[string]bool{}}

	raw := utils.GetEnvTrimmed("CORS_ALLOWED_ORIGIN")
	if raw == "" {
		raw = originOf(utils.GetEnvTrimmed("SITE_BASE_URL"))
	}
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			cfg.allowAnyOrigin = true
		default:
			cfg.allowedOrigins[o] = true
		}
	}

	appEnv := strings.ToLower(utils.GetEnvTrimmed("APP_ENV"))
	cfg.hstsEnabled = utils.GetEnvBool("HSTS_ENABLED", appEnv == "production" || appEnv == "prod")

	maxAge := utils.GetEnvInt64("HSTS_MAX_AGE", 31536000)
	if maxAge <= 0 {
		maxAge = 31536000
	}
	cfg.hstsValue = fmt.Sprintf("max-age=%d", maxAge)
	if utils.GetEnvBool("HSTS_INCLUDE_SUBDOMAINS", true) {
		cfg.hstsValue += "; includeSubDomains"
	}

	return cfg
}

func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func (sc *securityConfig) originAllowed(origin string) bool {
	return sc.allowAnyOrigin || sc.allowedOrigins[origin]
}

func (routerService *RouterService) correlationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Lambda invocations arrive with the AWS request ID already in context.
		id, _ := log.CorrelationIDFromContext(c.Request.Context())
		if id == "" {
			id = c.GetHeader(constants.CorrelationIDHeader)
		}
		if id == "" {
			id = log.GenerateCorrelationID()
		}
		c.Request = c.Request.WithContext(log.ContextWithCorrelationID(c.Request.Context(), id))
		c.Header(constants.CorrelationIDHeader, id)
		c.Next()
	}
}

func (routerService *RouterService) loggerInjectionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlated := routerService.logger.WithCorrelationID(c.Request.Context())
		c.Request = c.Request.WithContext(log.ContextWithLogger(c.Request.Context(), correlated))
		c.Next()
	}
}

func (routerService *RouterService) requestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if quietPaths[c.Request.URL.Path] && status < http.StatusBadRequest {
			return
		}

		logger := routerService.logger.WithCorrelationID(c.Request.Context())
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"bytes_in", c.Request.ContentLength,
			"client_ip", c.ClientIP(),
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("HTTP request", args...)
		case status >= http.StatusBadRequest:
			logger.Warn("HTTP request", args...)
		default:
			logger.Info("HTTP request", args...)
		}
	}
}

func (routerService *RouterService) securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if routerService.security.hstsEnabled && requestIsHTTPS(c) {
			h.Set("Strict-Transport-Security", routerService.security.hstsValue)
		}
		c.Next()
	}
}

// requestIsHTTPS also trusts X-Forwarded-Proto since TLS usually ends at the
// load balancer or API Gateway.
func requestIsHTTPS(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(c.GetHeader("X-Forwarded-Proto")), "https")
}

func (routerService *RouterService) maxBodySizeMiddleware() gin.HandlerFunc {
	maxBytes := utils.GetEnvInt64("MAX_REQUEST_BODY_BYTES", constants.DefaultMaxRequestBodyBytes)
	if maxBytes <= 0 {
		maxBytes = constants.DefaultMaxRequestBodyBytes
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			tooLarge := AppErrorResult(apperrors.NewPayloadTooLargeError("Request payload too large", nil))
			c.AbortWithStatusJSON(tooLarge.StatusCode, tooLarge.ToJSON())
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

func (routerService *RouterService) corsMiddleware() gin.HandlerFunc {
	sc := routerService.security
	if !sc.allowAnyOrigin && len(sc.allowedOrigins) == 0 {
		routerService.logger.Warn("No CORS origin configured; cross-origin browser requests will be refused")
	}

	return func(c *gin.Context) {
		origin := strings.TrimRight(c.GetHeader("Origin"), "/")
		if origin == "" {
			c.Next()
			return
		}

		if !sc.originAllowed(origin) {
			routerService.logger.WithCorrelationID(c.Request.Context()).Warn("CORS origin not allowed", "origin", origin)
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
		h.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(apperrors.StatusNoContent)
			return
		}

		c.Next()
	}
}

// timeoutMiddleware attaches a deadline to the request context. The chain still runs
// on the request goroutine; the http.Server timeouts cut off stuck connections.
func (routerService *RouterService) timeoutMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), routerService.middlewareConfig.TimeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			routerService.logger.WithCorrelationID(ctx).Warn("Request timeout", "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusRequestTimeout, ErrorResult(
				apperrors.StatusRequestTimeout,
				"Request timeout",
				nil,
			).ToJSON())
		}
	}
}

// limiterFor picks the handler override, then the controller override, then the
// default limiter. The scope keeps their counters apart in a shared Redis.
func (routerService *RouterService) limiterFor(c *gin.Context) (ratelimit.RateLimiter, string) {
	handlerKey := routerService.keyForPathAndMethod(c.FullPath(), c.Request.Method)

	if limiter, ok := routerService.rateLimitOverrides[handlerKey]; ok {
		return limiter, handlerKey
	}

	controller, ok := routerService.handlerToControllerMap[handlerKey]
	if ok && controller != nil {
		if limiter, found := routerService.rateLimitOverrides[controller.mountPoint]; found {
			return limiter, controller.mountPoint
		}
	}

	return routerService.rateLimiter, "default"
}

func setRateLimitHeaders(c *gin.Context, limit int, window time.Duration) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Window", window.String())
}

func (routerService *RouterService) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter, scope := routerService.limiterFor(c)
		if limiter == nil {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		limit, window := limiter.GetLimitDetails()
		setRateLimitHeaders(c, limit, window)

		limited, err := limiter.IsLimited(c.Request.Context(), fmt.Sprintf("ratelimit:%s:%s", scope, clientIP))
		if err != nil {
			// Fail open.
			routerService.logger.Error("Rate limiter error", "scope", scope, "client_ip", clientIP, "error", err)
			c.Next()
			return
		}

		if limited {
			retryAfter := int(math.Max(1, math.Ceil(window.Seconds())))
			routerService.logger.WithCorrelationID(c.Request.Context()).Warn("Rate limit exceeded", "scope", scope, "client_ip", clientIP)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, TooManyRequestsResult(RateLimitResponse{
				Limit:      limit,
				Window:     window.String(),
				RetryAfter: strconv.Itoa(retryAfter),
			}).ToJSON())
			return
		}

		c.Next()
	}
}
